// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the durable stake records and the enumeration
// indices over them: asset entry map, per-owner asset lists, tracked-asset
// and tracked-owner sets, and the two global counters. Every mutation keeps
// all of them mutually consistent; policy lives with the caller.
package registry

import (
	"github.com/pkg/errors"

	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault/reverts"
	"github.com/nestvault/nest/vault/tracking"
)

var (
	slotEntries     = nest.BytesToBytes32([]byte("registry-entries"))
	slotAssets      = nest.BytesToBytes32([]byte("registry-assets"))
	slotOwners      = nest.BytesToBytes32([]byte("registry-owners"))
	slotOwnerLists  = nest.BytesToBytes32([]byte("registry-owner-lists"))
	slotStakesCount = nest.BytesToBytes32([]byte("registry-stakes-count"))
	slotActiveCount = nest.BytesToBytes32([]byte("registry-active-count"))
)

type Service struct {
	sctx        *storage.Context
	entries     *storage.Mapping[nest.TokenID, *Entry]
	assets      *tracking.Set[nest.TokenID]
	owners      *tracking.Set[nest.Address]
	stakesCount *storage.Uint64
	activeCount *storage.Uint64
}

func New(sctx *storage.Context) *Service {
	return &Service{
		sctx:        sctx,
		entries:     storage.NewMapping[nest.TokenID, *Entry](sctx, slotEntries),
		assets:      tracking.NewSet[nest.TokenID](sctx, slotAssets),
		owners:      tracking.NewSet[nest.Address](sctx, slotOwners),
		stakesCount: storage.NewUint64(sctx, slotStakesCount),
		activeCount: storage.NewUint64(sctx, slotActiveCount),
	}
}

func (s *Service) ownerList(owner nest.Address) *tracking.Set[nest.TokenID] {
	return tracking.NewSet[nest.TokenID](s.sctx, nest.Blake2b(owner.Bytes(), slotOwnerLists.Bytes()))
}

// Get returns the entry for id, or nil when the asset is not tracked.
func (s *Service) Get(id nest.TokenID) (*Entry, error) {
	entry, err := s.entries.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get entry")
	}
	if entry.Status == StatusNone {
		return nil, nil
	}
	return entry, nil
}

// GetExisting returns the entry for id, reverting when absent.
func (s *Service) GetExisting(id nest.TokenID) (*Entry, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, reverts.ErrNotStaked
	}
	return entry, nil
}

// Add inserts a fresh entry and threads it through every index. The asset
// must not be tracked already. The active counter follows the entry status.
func (s *Service) Add(id nest.TokenID, entry *Entry) error {
	existing, err := s.Get(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("asset already tracked")
	}
	if err := s.entries.Set(id, entry); err != nil {
		return errors.Wrap(err, "failed to store entry")
	}
	if _, err := s.assets.Add(id); err != nil {
		return errors.Wrap(err, "failed to track asset")
	}
	if _, err := s.ownerList(entry.Owner).Add(id); err != nil {
		return errors.Wrap(err, "failed to extend owner list")
	}
	if _, err := s.owners.Add(entry.Owner); err != nil {
		return errors.Wrap(err, "failed to track owner")
	}
	if err := s.stakesCount.Add(1); err != nil {
		return err
	}
	if entry.IsActive() {
		return s.activeCount.Add(1)
	}
	return nil
}

// Update rewrites the stored entry for a tracked asset.
func (s *Service) Update(id nest.TokenID, entry *Entry) error {
	if _, err := s.GetExisting(id); err != nil {
		return err
	}
	return errors.Wrap(s.entries.Set(id, entry), "failed to update entry")
}

// Remove deletes the entry and unthreads it from every index. An entry
// removed while still active also releases its slot in the active counter,
// which happens on the unconditional exit path after the period ends.
func (s *Service) Remove(id nest.TokenID) (*Entry, error) {
	entry, err := s.GetExisting(id)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Delete(id); err != nil {
		return nil, errors.Wrap(err, "failed to delete entry")
	}
	if _, err := s.assets.Remove(id); err != nil {
		return nil, errors.Wrap(err, "failed to untrack asset")
	}
	list := s.ownerList(entry.Owner)
	if _, err := list.Remove(id); err != nil {
		return nil, errors.Wrap(err, "failed to shrink owner list")
	}
	remaining, err := list.Len()
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		if _, err := s.owners.Remove(entry.Owner); err != nil {
			return nil, errors.Wrap(err, "failed to untrack owner")
		}
	}
	if err := s.stakesCount.Sub(1); err != nil {
		return nil, err
	}
	if entry.IsActive() {
		if err := s.activeCount.Sub(1); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// SubActive releases one slot of the active counter. Called by the state
// machine when an entry leaves Staked without leaving storage.
func (s *Service) SubActive() error {
	return s.activeCount.Sub(1)
}

func (s *Service) StakesCount() (uint64, error) {
	return s.stakesCount.Get()
}

func (s *Service) ActiveCount() (uint64, error) {
	return s.activeCount.Get()
}

func (s *Service) ListByOwner(owner nest.Address) ([]nest.TokenID, error) {
	return s.ownerList(owner).All()
}

func (s *Service) CountByOwner(owner nest.Address) (uint64, error) {
	return s.ownerList(owner).Len()
}

func (s *Service) TrackedAssets() ([]nest.TokenID, error) {
	return s.assets.All()
}

func (s *Service) TrackedOwners() ([]nest.Address, error) {
	return s.owners.All()
}
