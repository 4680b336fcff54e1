// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/nestvault/nest/nest"
)

// Status is the lifecycle state of a stake entry.
type Status uint8

const (
	StatusNone      Status = iota // no entry in storage
	StatusStaked                  // accruing rewards
	StatusUnbonding               // exit requested, cooling off
	StatusFree                    // released, removed in the same operation
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusStaked:
		return "staked"
	case StatusUnbonding:
		return "unbonding"
	case StatusFree:
		return "free"
	default:
		return "unknown"
	}
}

// Entry is the durable record for one staked-or-unbonding asset.
//
// UnbondingAt is 0 while Staked. After a natural unstake it holds the
// unbonding completion time; after a forced exit it records when the
// early-exit tax was paid.
type Entry struct {
	Owner            nest.Address
	Status           Status
	StakedAt         uint64
	UnbondingAt      uint64
	LastClaimedBlock uint64
}

// IsActive reports whether the entry still accrues rewards.
func (e *Entry) IsActive() bool {
	return e.Status == StatusStaked
}
