// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tracking

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
)

// Element is anything a Set can track.
type Element interface {
	comparable
	Bytes() []byte
}

// slotIndex keys the dense item list of a Set.
type slotIndex uint64

func (i slotIndex) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return b[:]
}

// Set is a storage-backed enumerable set. Membership checks and removals are
// O(1) via a position index; removal swaps the last item into the vacated
// position, so enumeration order is not insertion order.
type Set[T Element] struct {
	items     *storage.Mapping[slotIndex, T] // 1-based dense list
	positions *storage.Mapping[T, uint64]    // item -> 1-based position, 0 when absent
	size      *storage.Uint64
}

func NewSet[T Element](sctx *storage.Context, basePos nest.Bytes32) *Set[T] {
	return &Set[T]{
		items:     storage.NewMapping[slotIndex, T](sctx, nest.Blake2b(basePos.Bytes(), []byte("items"))),
		positions: storage.NewMapping[T, uint64](sctx, nest.Blake2b(basePos.Bytes(), []byte("positions"))),
		size:      storage.NewUint64(sctx, nest.Blake2b(basePos.Bytes(), []byte("size"))),
	}
}

// Len returns the number of tracked items.
func (s *Set[T]) Len() (uint64, error) {
	return s.size.Get()
}

// Contains reports whether item is tracked.
func (s *Set[T]) Contains(item T) (bool, error) {
	pos, err := s.positions.Get(item)
	if err != nil {
		return false, err
	}
	return pos != 0, nil
}

// Add tracks item if absent. It reports whether the set grew.
func (s *Set[T]) Add(item T) (bool, error) {
	pos, err := s.positions.Get(item)
	if err != nil {
		return false, err
	}
	if pos != 0 {
		return false, nil
	}
	n, err := s.size.Get()
	if err != nil {
		return false, err
	}
	if err := s.items.Set(slotIndex(n+1), item); err != nil {
		return false, errors.Wrap(err, "failed to append item")
	}
	if err := s.positions.Set(item, n+1); err != nil {
		return false, errors.Wrap(err, "failed to index item")
	}
	if err := s.size.Set(n + 1); err != nil {
		return false, err
	}
	return true, nil
}

// Remove untracks item if present. The last item is swapped into the vacated
// position to keep the list dense. It reports whether the set shrank.
func (s *Set[T]) Remove(item T) (bool, error) {
	pos, err := s.positions.Get(item)
	if err != nil {
		return false, err
	}
	if pos == 0 {
		return false, nil
	}
	last, err := s.size.Get()
	if err != nil {
		return false, err
	}
	if pos != last {
		moved, err := s.items.Get(slotIndex(last))
		if err != nil {
			return false, err
		}
		if err := s.items.Set(slotIndex(pos), moved); err != nil {
			return false, errors.Wrap(err, "failed to move item")
		}
		if err := s.positions.Set(moved, pos); err != nil {
			return false, errors.Wrap(err, "failed to reindex moved item")
		}
	}
	if err := s.items.Delete(slotIndex(last)); err != nil {
		return false, errors.Wrap(err, "failed to truncate list")
	}
	if err := s.positions.Delete(item); err != nil {
		return false, errors.Wrap(err, "failed to drop index")
	}
	if err := s.size.Set(last - 1); err != nil {
		return false, err
	}
	return true, nil
}

// All returns every tracked item in list order.
func (s *Set[T]) All() ([]T, error) {
	n, err := s.size.Get()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, n)
	for i := uint64(1); i <= n; i++ {
		item, err := s.items.Get(slotIndex(i))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
