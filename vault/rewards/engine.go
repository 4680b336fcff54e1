// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards computes the pro-rata fungible reward owed to a staked
// asset. The math is pure; the caller supplies block height, block time and
// the global parameters, and settles the resulting amount itself.
package rewards

import (
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/vault/registry"
	"github.com/nestvault/nest/vault/reverts"
)

// Params is the global reward configuration at evaluation time.
type Params struct {
	RewardPerBlock uint64
	ActiveStakes   uint64
	StakingEndTime uint64 // 0 means no sunset configured
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// heightAt estimates the block height at which the given past timestamp fell,
// by rewinding the current height by the wall-clock gap divided by the
// average block interval. The timestamp must be strictly in the past.
func heightAt(ts, blockNum, blockTime uint64) (uint64, error) {
	if blockTime <= ts {
		return 0, reverts.ErrPastTimestampRequired
	}
	elapsed := (blockTime - ts) / nest.BlockInterval
	if elapsed >= blockNum {
		return 0, nil
	}
	return blockNum - elapsed, nil
}

// EffectiveHeight returns the height rewards accrue up to: the current height,
// clamped back to the estimated height at period end once staking has closed.
func (e *Engine) EffectiveHeight(blockNum, blockTime, stakingEnd uint64) (uint64, error) {
	if stakingEnd == 0 || blockTime <= stakingEnd {
		return blockNum, nil
	}
	return heightAt(stakingEnd, blockNum, blockTime)
}

// Pending returns the unclaimed reward for an entry at the given block.
//
// The per-stake share is the truncating division rewardPerBlock/activeStakes,
// taken before multiplying by the elapsed blocks. Changing the order changes
// the payout, so it stays as is.
func (e *Engine) Pending(entry *registry.Entry, blockNum, blockTime uint64, p Params) (uint64, error) {
	if !entry.IsActive() {
		return 0, nil
	}
	height, err := e.EffectiveHeight(blockNum, blockTime, p.StakingEndTime)
	if err != nil {
		return 0, err
	}
	if height <= entry.LastClaimedBlock {
		return 0, nil
	}
	if p.ActiveStakes == 0 {
		return 0, reverts.ErrNoActiveStakes
	}
	perStake := p.RewardPerBlock / p.ActiveStakes
	return (height - entry.LastClaimedBlock) * perStake, nil
}
