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

// Value is a single storage slot holding one RLP-encodable value.
type Value[V any] struct {
	context *Context
	pos     nest.Bytes32
}

func NewValue[V any](context *Context, pos nest.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

// Get reads the slot. An unset slot yields the zero value; pointer-typed
// values are allocated so decoding always has a target.
func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
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

// Set writes the slot.
func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
