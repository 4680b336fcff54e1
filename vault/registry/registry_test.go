// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/lvldb"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault/reverts"
)

var (
	owner1 = nest.BytesToAddress([]byte("owner1"))
	owner2 = nest.BytesToAddress([]byte("owner2"))
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)
	return New(storage.NewContext(nest.BytesToAddress([]byte("registry-test")), st))
}

func stakedEntry(owner nest.Address) *Entry {
	return &Entry{
		Owner:            owner,
		Status:           StatusStaked,
		StakedAt:         1000,
		LastClaimedBlock: 100,
	}
}

func TestAddAndGet(t *testing.T) {
	svc := newService(t)

	entry, err := svc.Get(1)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = svc.GetExisting(1)
	assert.ErrorIs(t, err, reverts.ErrNotStaked)

	require.NoError(t, svc.Add(1, stakedEntry(owner1)))

	entry, err = svc.GetExisting(1)
	require.NoError(t, err)
	assert.Equal(t, owner1, entry.Owner)
	assert.Equal(t, StatusStaked, entry.Status)

	total, err := svc.StakesCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	active, err := svc.ActiveCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), active)
}

func TestAddRejectsDuplicate(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(1, stakedEntry(owner1)))

	err := svc.Add(1, stakedEntry(owner2))
	require.Error(t, err)

	// the original entry is untouched
	entry, err := svc.GetExisting(1)
	require.NoError(t, err)
	assert.Equal(t, owner1, entry.Owner)
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(1, stakedEntry(owner1)))

	entry, err := svc.GetExisting(1)
	require.NoError(t, err)
	entry.Status = StatusUnbonding
	entry.UnbondingAt = 5000
	require.NoError(t, svc.Update(1, entry))

	got, err := svc.GetExisting(1)
	require.NoError(t, err)
	assert.Equal(t, StatusUnbonding, got.Status)
	assert.Equal(t, uint64(5000), got.UnbondingAt)

	err = svc.Update(2, stakedEntry(owner1))
	assert.ErrorIs(t, err, reverts.ErrNotStaked)
}

func TestRemove(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(1, stakedEntry(owner1)))
	require.NoError(t, svc.Add(2, stakedEntry(owner1)))

	removed, err := svc.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, owner1, removed.Owner)

	entry, err := svc.Get(1)
	require.NoError(t, err)
	assert.Nil(t, entry)

	total, err := svc.StakesCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)

	// removing a still-Staked entry releases its active slot
	active, err := svc.ActiveCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), active)

	_, err = svc.Remove(1)
	assert.ErrorIs(t, err, reverts.ErrNotStaked)
}

func TestRemoveInactiveKeepsActiveCount(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(1, stakedEntry(owner1)))
	require.NoError(t, svc.Add(2, stakedEntry(owner1)))

	entry, err := svc.GetExisting(1)
	require.NoError(t, err)
	entry.Status = StatusUnbonding
	require.NoError(t, svc.Update(1, entry))
	require.NoError(t, svc.SubActive())

	_, err = svc.Remove(1)
	require.NoError(t, err)

	active, err := svc.ActiveCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), active)
}

func TestOwnerIndex(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(1, stakedEntry(owner1)))
	require.NoError(t, svc.Add(2, stakedEntry(owner1)))
	require.NoError(t, svc.Add(3, stakedEntry(owner2)))

	list, err := svc.ListByOwner(owner1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []nest.TokenID{1, 2}, list)

	count, err := svc.CountByOwner(owner1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	owners, err := svc.TrackedOwners()
	require.NoError(t, err)
	assert.ElementsMatch(t, []nest.Address{owner1, owner2}, owners)

	assets, err := svc.TrackedAssets()
	require.NoError(t, err)
	assert.ElementsMatch(t, []nest.TokenID{1, 2, 3}, assets)

	// the owner leaves the tracked set only when the list empties
	_, err = svc.Remove(1)
	require.NoError(t, err)
	owners, err = svc.TrackedOwners()
	require.NoError(t, err)
	assert.ElementsMatch(t, []nest.Address{owner1, owner2}, owners)

	_, err = svc.Remove(2)
	require.NoError(t, err)
	owners, err = svc.TrackedOwners()
	require.NoError(t, err)
	assert.ElementsMatch(t, []nest.Address{owner2}, owners)
}
