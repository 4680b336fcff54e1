// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/lvldb"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
)

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return NewContext(nest.BytesToAddress([]byte("storage-test")), state.New(db))
}

type record struct {
	Owner nest.Address
	Count uint64
}

func TestMapping(t *testing.T) {
	sctx := newTestContext(t)
	m := NewMapping[nest.TokenID, uint64](sctx, nest.BytesToBytes32([]byte("counts")))

	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, m.Set(1, 7))
	v, err = m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	// distinct keys land in distinct slots
	v, err = m.Get(2)
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, m.Delete(1))
	v, err = m.Get(1)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestMappingPointerValues(t *testing.T) {
	sctx := newTestContext(t)
	m := NewMapping[nest.TokenID, *record](sctx, nest.BytesToBytes32([]byte("records")))

	// an unset slot still yields an allocated target
	got, err := m.Get(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Zero(t, got.Count)

	owner := nest.BytesToAddress([]byte("owner"))
	require.NoError(t, m.Set(1, &record{Owner: owner, Count: 3}))
	got, err = m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, uint64(3), got.Count)
}

func TestUint64Counter(t *testing.T) {
	sctx := newTestContext(t)
	counter := NewUint64(sctx, nest.BytesToBytes32([]byte("counter")))

	v, err := counter.Get()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, counter.Add(5))
	require.NoError(t, counter.Add(3))
	require.NoError(t, counter.Sub(2))
	v, err = counter.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v)

	err = counter.Sub(7)
	require.Error(t, err)
	v, err = counter.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v)
}

func TestValue(t *testing.T) {
	sctx := newTestContext(t)
	slot := NewValue[nest.Address](sctx, nest.BytesToBytes32([]byte("addr")))

	v, err := slot.Get()
	require.NoError(t, err)
	assert.Equal(t, nest.Address{}, v)

	addr := nest.BytesToAddress([]byte("hello"))
	require.NoError(t, slot.Set(addr))
	v, err = slot.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, v)
}
