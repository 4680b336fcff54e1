// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
)

// Context scopes slot-addressed storage to one ledger account.
type Context struct {
	address nest.Address
	state   *state.State
}

func NewContext(address nest.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() nest.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
