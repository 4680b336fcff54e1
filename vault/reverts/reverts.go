// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert marks a failure caused by a violated business rule rather than a
// broken backing store. Callers roll the checkpoint back and surface the
// message; storage errors propagate as-is and are treated as fatal.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

var (
	ErrStakingEnded          = New("staking period has ended")
	ErrStakeLimitReached     = New("stake limit reached")
	ErrNotAssetHolder        = New("caller does not hold the asset")
	ErrNotStaked             = New("asset is not staked")
	ErrNotEntryOwner         = New("caller is not the stake owner")
	ErrForcedExitRequired    = New("unbonding period not elapsed")
	ErrPastTimestampRequired = New("past timestamp required")
	ErrNoActiveStakes        = New("no active stakes")
	ErrUnauthorized          = New("caller is not authorized")
	ErrPaused                = New("vault is paused")
	ErrReentrancy            = New("reentrant call")
	ErrAlreadyInitialized    = New("already initialized")
	ErrNotInitialized        = New("not initialized")
)
