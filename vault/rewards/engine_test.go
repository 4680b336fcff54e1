// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/vault/registry"
	"github.com/nestvault/nest/vault/reverts"
)

func stakedEntry(lastClaimed uint64) *registry.Entry {
	return &registry.Entry{
		Status:           registry.StatusStaked,
		LastClaimedBlock: lastClaimed,
	}
}

func TestPending(t *testing.T) {
	engine := New()

	tests := []struct {
		name      string
		entry     *registry.Entry
		blockNum  uint64
		blockTime uint64
		params    Params
		expected  uint64
	}{
		{
			name:      "single stake",
			entry:     stakedEntry(100),
			blockNum:  110,
			blockTime: 1100,
			params:    Params{RewardPerBlock: 100, ActiveStakes: 1},
			expected:  1000,
		},
		{
			name:      "per-stake share truncated before multiplying",
			entry:     stakedEntry(100),
			blockNum:  110,
			blockTime: 1100,
			params:    Params{RewardPerBlock: 105, ActiveStakes: 2},
			expected:  520,
		},
		{
			name:      "rate below stake count truncates to zero",
			entry:     stakedEntry(100),
			blockNum:  110,
			blockTime: 1100,
			params:    Params{RewardPerBlock: 3, ActiveStakes: 4},
			expected:  0,
		},
		{
			name:      "no elapsed blocks",
			entry:     stakedEntry(110),
			blockNum:  110,
			blockTime: 1100,
			params:    Params{RewardPerBlock: 100, ActiveStakes: 1},
			expected:  0,
		},
		{
			name:      "unbonding entry accrues nothing",
			entry:     &registry.Entry{Status: registry.StatusUnbonding, LastClaimedBlock: 100},
			blockNum:  110,
			blockTime: 1100,
			params:    Params{RewardPerBlock: 100, ActiveStakes: 1},
			expected:  0,
		},
		{
			name:      "clamped at period end",
			entry:     stakedEntry(100),
			blockNum:  200,
			blockTime: 2000,
			params:    Params{RewardPerBlock: 100, ActiveStakes: 1, StakingEndTime: 1500},
			expected:  5000, // effective height 200-(2000-1500)/10 = 150
		},
		{
			name:      "claim height past the clamp floors at zero",
			entry:     stakedEntry(180),
			blockNum:  200,
			blockTime: 2000,
			params:    Params{RewardPerBlock: 100, ActiveStakes: 1, StakingEndTime: 1500},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Pending(tt.entry, tt.blockNum, tt.blockTime, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPendingNoActiveStakes(t *testing.T) {
	engine := New()
	_, err := engine.Pending(stakedEntry(100), 110, 1100, Params{RewardPerBlock: 100})
	assert.ErrorIs(t, err, reverts.ErrNoActiveStakes)
}

func TestEffectiveHeight(t *testing.T) {
	engine := New()

	// no sunset configured
	height, err := engine.EffectiveHeight(200, 2000, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), height)

	// period still open
	height, err = engine.EffectiveHeight(200, 2000, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), height)

	// period over: rewind by elapsed blocks
	height, err = engine.EffectiveHeight(200, 2000, 1500)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), height)
}

func TestHeightAt(t *testing.T) {
	// the helper demands a strictly past timestamp
	_, err := heightAt(2000, 200, 2000)
	assert.ErrorIs(t, err, reverts.ErrPastTimestampRequired)

	_, err = heightAt(2100, 200, 2000)
	assert.ErrorIs(t, err, reverts.ErrPastTimestampRequired)

	// the rewind never underflows the chain start
	height, err := heightAt(100, 10, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), height)
}
