// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault/tracking"
)

var slotAdmins = nest.BytesToBytes32([]byte("admins-set"))

// Admins is a state-backed role registry implementing Authorizer.
type Admins struct {
	set *tracking.Set[nest.Address]
}

func NewAdmins(sctx *storage.Context) *Admins {
	return &Admins{set: tracking.NewSet[nest.Address](sctx, slotAdmins)}
}

func (a *Admins) Grant(addr nest.Address) error {
	_, err := a.set.Add(addr)
	return err
}

func (a *Admins) Revoke(addr nest.Address) error {
	_, err := a.set.Remove(addr)
	return err
}

func (a *Admins) IsAuthorized(caller nest.Address) (bool, error) {
	return a.set.Contains(caller)
}

// All lists every granted admin.
func (a *Admins) All() ([]nest.Address, error) {
	return a.set.All()
}
