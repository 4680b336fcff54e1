// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nest

import "time"

// Clock anchors wall-clock time to a genesis instant and derives block heights
// at the fixed BlockInterval. Vault operations take explicit (blockNum, blockTime)
// pairs; Clock is how the serving layer produces them.
type Clock struct {
	genesis uint64
	nowFn   func() uint64
}

// NewClock creates a clock anchored at the given genesis unix timestamp.
func NewClock(genesis uint64) *Clock {
	return &Clock{
		genesis: genesis,
		nowFn:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// NewFixedClock creates a clock whose Now always returns the given timestamp.
// Useful in tests.
func NewFixedClock(genesis, now uint64) *Clock {
	return &Clock{
		genesis: genesis,
		nowFn:   func() uint64 { return now },
	}
}

// Genesis returns the anchor timestamp.
func (c *Clock) Genesis() uint64 {
	return c.genesis
}

// Now returns the current unix timestamp.
func (c *Clock) Now() uint64 {
	return c.nowFn()
}

// BlockNumber returns the height derived for the given timestamp.
func (c *Clock) BlockNumber(ts uint64) uint64 {
	if ts <= c.genesis {
		return 0
	}
	return (ts - c.genesis) / BlockInterval
}
