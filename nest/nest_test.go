// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("account"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	// without the 0x prefix
	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("account"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestParseTokenID(t *testing.T) {
	id, err := ParseTokenID("42")
	require.NoError(t, err)
	assert.Equal(t, TokenID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = ParseTokenID("not-a-number")
	assert.Error(t, err)
	_, err = ParseTokenID("-1")
	assert.Error(t, err)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("slot"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, b.IsZero())
}

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("hello world"))
	split := Blake2b([]byte("hello "), []byte("world"))
	assert.Equal(t, single, split)
	assert.False(t, single.IsZero())
}

func TestClockBlockNumber(t *testing.T) {
	clock := NewFixedClock(1000, 1000+BlockInterval*5)

	assert.Equal(t, uint64(1000), clock.Genesis())
	assert.Equal(t, uint64(5), clock.BlockNumber(clock.Now()))

	// timestamps at or before genesis map to height 0
	assert.Equal(t, uint64(0), clock.BlockNumber(1000))
	assert.Equal(t, uint64(0), clock.BlockNumber(10))

	// heights advance once per full interval
	assert.Equal(t, uint64(0), clock.BlockNumber(1000+BlockInterval-1))
	assert.Equal(t, uint64(1), clock.BlockNumber(1000+BlockInterval))
}
