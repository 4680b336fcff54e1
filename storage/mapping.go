// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/nestvault/nest/nest"
)

// Key is anything that can position a mapping slot.
type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction positioned at
// Blake2b(key, basePos), similar to a mapping in contract storage.
type Mapping[K Key, V any] struct {
	context *Context
	basePos nest.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos nest.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) nest.Bytes32 {
	return nest.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get reads the value stored for key. An unset slot yields the zero value;
// pointer-typed values are allocated so decoding always has a target.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(&value).Elem().Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set writes the value for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot for key.
func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return nil, nil
	})
}
