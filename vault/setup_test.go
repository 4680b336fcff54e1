// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/log"
	"github.com/nestvault/nest/lvldb"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault/custody"
)

func TestMain(m *testing.M) {
	SetLogger(log.NewLogger(log.DiscardHandler()))
	os.Exit(m.Run())
}

func M(a ...any) []any {
	return a
}

var (
	testVaultAddr      = nest.BytesToAddress([]byte("test-vault"))
	testCollectionAddr = nest.BytesToAddress([]byte("test-collection"))
	testTokenAddr      = nest.BytesToAddress([]byte("test-token"))

	admin    = nest.BytesToAddress([]byte("admin"))
	alice    = nest.BytesToAddress([]byte("alice"))
	bob      = nest.BytesToAddress([]byte("bob"))
	stranger = nest.BytesToAddress([]byte("stranger"))
)

// testConfig yields a one hour staking period starting at time 1000 with a
// one hour unbonding period.
func testConfig() Config {
	return Config{
		Collection:     testCollectionAddr,
		RewardToken:    testTokenAddr,
		RewardPerBlock: 100,
		EarlyExitTax:   50,
		StakeLimit:     10,
		CarryAmount:    10,
		StakingHours:   1,
		UnbondingHours: 1,
	}
}

const (
	startTime = uint64(1000)
	endTime   = startTime + nest.HourInSeconds
)

// bn derives the block height for a timestamp at the fixed block interval.
func bn(ts uint64) uint64 {
	return ts / nest.BlockInterval
}

type testEnv struct {
	state      *state.State
	vault      *Vault
	collection *custody.Collection
	token      *custody.Token
	admins     *custody.Admins
}

// newTestEnv wires a vault over an in-memory store with funded accounts,
// minted assets 1..6 (1-3 alice, 4-6 bob), a granted admin, and the vault
// registered as asset receiver. The vault is not initialized.
func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	collection := custody.NewCollection(storage.NewContext(testCollectionAddr, st))
	token := custody.NewToken(storage.NewContext(testTokenAddr, st))
	admins := custody.NewAdmins(storage.NewContext(testVaultAddr, st))

	v := New(testVaultAddr, st, collection, token, admins)
	collection.RegisterReceiver(testVaultAddr, v)

	require.NoError(t, admins.Grant(admin))
	for _, addr := range []nest.Address{alice, bob} {
		require.NoError(t, token.Mint(addr, big.NewInt(1_000_000)))
	}
	// reward pool
	require.NoError(t, token.Mint(testVaultAddr, big.NewInt(1_000_000)))
	for id := nest.TokenID(1); id <= 3; id++ {
		require.NoError(t, collection.Mint(alice, id))
	}
	for id := nest.TokenID(4); id <= 6; id++ {
		require.NoError(t, collection.Mint(bob, id))
	}

	return &testEnv{
		state:      st,
		vault:      v,
		collection: collection,
		token:      token,
		admins:     admins,
	}
}

// newInitializedEnv is newTestEnv plus Initialize with testConfig at startTime.
func newInitializedEnv(t *testing.T) *testEnv {
	env := newTestEnv(t)
	require.NoError(t, env.vault.Initialize(testConfig(), startTime))
	return env
}

func (env *testEnv) balance(t *testing.T, addr nest.Address) uint64 {
	b, err := env.token.BalanceOf(addr)
	require.NoError(t, err)
	return b.Uint64()
}

func (env *testEnv) holder(t *testing.T, id nest.TokenID) nest.Address {
	owner, err := env.collection.OwnerOf(id)
	require.NoError(t, err)
	return owner
}

// checkInvariants verifies the registry bookkeeping rules through the public
// read surface: counters match entry states, every tracked asset has an
// entry, and owners are tracked iff their lists are non-empty.
func (env *testEnv) checkInvariants(t *testing.T) {
	t.Helper()

	assets, err := env.vault.TrackedAssets()
	require.NoError(t, err)
	total, err := env.vault.TotalStakes()
	require.NoError(t, err)
	require.Equal(t, uint64(len(assets)), total, "stakesCount must equal tracked entries")

	var staked uint64
	for _, id := range assets {
		entry, err := env.vault.StakeInfo(id)
		require.NoError(t, err)
		require.NotNil(t, entry, "tracked asset must have an entry")
		if entry.IsActive() {
			staked++
		}
	}
	active, err := env.vault.ActiveStakeCount()
	require.NoError(t, err)
	require.Equal(t, staked, active, "activeStakesCount must equal Staked entries")

	owners, err := env.vault.TrackedOwners()
	require.NoError(t, err)
	var listed uint64
	for _, owner := range owners {
		count, err := env.vault.StakeCount(owner)
		require.NoError(t, err)
		require.NotZero(t, count, "tracked owner must have a non-empty list")
		listed += count
	}
	require.Equal(t, total, listed, "every entry appears in exactly one owner list")
}
