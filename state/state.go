// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/nestvault/nest/kv"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/stackedmap"
)

// storageBucket is the namespace of ledger storage records within the kv store.
const storageBucket = kv.Bucket("s")

type storageKey struct {
	addr nest.Address
	key  nest.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, 52), k.addr.Bytes()...), k.key.Bytes()...)
}

// State provides durable, slot-addressed storage with checkpoint/revert
// semantics. All pending changes live in a stacked journal; RevertTo drops
// everything written since the matching NewCheckpoint, and Commit flushes the
// journal to the underlying store in a single batch.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New creates a state over the given store.
func New(store kv.GetPutter) *State {
	bucketed := storageBucket.NewStore(store)
	sm := stackedmap.New(func(key storageKey) (rlp.RawValue, bool, error) {
		raw, err := bucketed.Get(key.bytes())
		if err != nil {
			if bucketed.IsNotFound(err) {
				return nil, true, nil
			}
			return nil, false, errors.Wrap(err, "get storage")
		}
		return raw, true, nil
	})
	sm.Push() // base layer, never popped
	return &State{store: store, sm: sm}
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr nest.Address, key nest.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetRawStorage sets storage value in rlp raw. An empty raw deletes the slot.
func (s *State) SetRawStorage(addr nest.Address, key nest.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage sets storage value encoded by the given enc method.
// Returning a nil slice deletes the slot.
func (s *State) EncodeStorage(addr nest.Address, key nest.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets and decodes storage value.
// dec is called with a nil slice when the slot is unset.
func (s *State) DecodeStorage(addr nest.Address, key nest.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns the checkpoint to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to the given checkpoint.
// All changes made after the checkpoint are dropped.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Commit flushes all journaled changes to the underlying store in one batch
// and resets the journal. Checkpoints taken before Commit are invalidated.
func (s *State) Commit() error {
	batch := storageBucket.NewStore(s.store).NewBatch()

	// later writes to the same slot override earlier ones
	final := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		final[key] = value
		return true
	})
	for key, raw := range final {
		if len(raw) == 0 {
			if err := batch.Delete(key.bytes()); err != nil {
				return errors.Wrap(err, "commit state")
			}
		} else {
			if err := batch.Put(key.bytes(), raw); err != nil {
				return errors.Wrap(err, "commit state")
			}
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
