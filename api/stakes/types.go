// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/vault/registry"
)

type StakeRequest struct {
	Caller  nest.Address `json:"caller"`
	AssetID nest.TokenID `json:"assetId"`
}

type ExitRequest struct {
	Caller nest.Address `json:"caller"`
	Force  bool         `json:"force"`
}

type ClaimRequest struct {
	Caller nest.Address `json:"caller"`
}

type ClaimResponse struct {
	Amount uint64 `json:"amount"`
}

type Entry struct {
	AssetID          nest.TokenID `json:"assetId"`
	Owner            nest.Address `json:"owner"`
	Status           string       `json:"status"`
	StakedAt         uint64       `json:"stakedAt"`
	UnbondingAt      uint64       `json:"unbondingAt"`
	LastClaimedBlock uint64       `json:"lastClaimedBlock"`
	PendingReward    uint64       `json:"pendingReward"`
}

func convertEntry(id nest.TokenID, entry *registry.Entry, pending uint64) *Entry {
	return &Entry{
		AssetID:          id,
		Owner:            entry.Owner,
		Status:           entry.Status.String(),
		StakedAt:         entry.StakedAt,
		UnbondingAt:      entry.UnbondingAt,
		LastClaimedBlock: entry.LastClaimedBlock,
		PendingReward:    pending,
	}
}

type OwnerStakes struct {
	Owner  nest.Address   `json:"owner"`
	Count  uint64         `json:"count"`
	Assets []nest.TokenID `json:"assets"`
}

type Stats struct {
	Total  uint64         `json:"total"`
	Active uint64         `json:"active"`
	Assets []nest.TokenID `json:"assets"`
	Owners []nest.Address `json:"owners"`
}

type Config struct {
	StakingEndTime  uint64 `json:"stakingEndTime"`
	UnbondingPeriod uint64 `json:"unbondingPeriod"`
	RewardPerBlock  uint64 `json:"rewardPerBlock"`
	StakeLimit      uint64 `json:"stakeLimit"`
	CarryAmount     uint64 `json:"carryAmount"`
	EarlyExitTax    uint64 `json:"earlyExitTax"`
	Paused          bool   `json:"paused"`
	Initialized     bool   `json:"initialized"`
}
