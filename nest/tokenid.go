// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nest

import (
	"encoding/binary"
	"strconv"
)

// TokenID identifies a unique collectible asset held by the collection.
type TokenID uint64

// String implements stringer.
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Bytes returns the big-endian byte form of the id, used for slot positioning.
func (id TokenID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// ParseTokenID converts a decimal string into TokenID type.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TokenID(n), nil
}
