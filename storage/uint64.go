// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/nestvault/nest/nest"
)

// Uint64 is a counter held in a single storage slot.
type Uint64 struct {
	context *Context
	pos     nest.Bytes32
}

func NewUint64(context *Context, pos nest.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (value uint64, err error) {
	err = u.context.state.DecodeStorage(u.context.address, u.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (u *Uint64) Set(value uint64) error {
	return u.context.state.EncodeStorage(u.context.address, u.pos, func() ([]byte, error) {
		if value == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

// Add increases the counter by n.
func (u *Uint64) Add(n uint64) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(value + n)
}

// Sub decreases the counter by n, failing on underflow.
func (u *Uint64) Sub(n uint64) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	if value < n {
		return errors.New("counter underflow")
	}
	return u.Set(value - n)
}
