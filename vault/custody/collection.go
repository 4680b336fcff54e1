// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/pkg/errors"

	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
)

var slotOwners = nest.BytesToBytes32([]byte("collection-owners"))

// Collection is a state-backed unique-asset ledger implementing
// AssetCustodian. Transfers into an address with a registered receiver go
// through its acknowledgement callback, which may call back into the sender.
type Collection struct {
	owners    *storage.Mapping[nest.TokenID, nest.Address]
	receivers map[nest.Address]AssetReceiver
}

func NewCollection(sctx *storage.Context) *Collection {
	return &Collection{
		owners:    storage.NewMapping[nest.TokenID, nest.Address](sctx, slotOwners),
		receivers: make(map[nest.Address]AssetReceiver),
	}
}

// RegisterReceiver routes transfers into addr through the given callback.
func (c *Collection) RegisterReceiver(addr nest.Address, receiver AssetReceiver) {
	c.receivers[addr] = receiver
}

// Mint creates the asset id owned by addr.
func (c *Collection) Mint(addr nest.Address, id nest.TokenID) error {
	owner, err := c.owners.Get(id)
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		return errors.New("asset already minted")
	}
	return c.owners.Set(id, addr)
}

func (c *Collection) OwnerOf(id nest.TokenID) (nest.Address, error) {
	return c.owners.Get(id)
}

// Transfer moves the asset from one holder to another and runs the
// recipient's acknowledgement callback when one is registered.
func (c *Collection) Transfer(from, to nest.Address, id nest.TokenID) error {
	owner, err := c.owners.Get(id)
	if err != nil {
		return err
	}
	if owner != from {
		return errors.New("transfer from non-owner")
	}
	if err := c.owners.Set(id, to); err != nil {
		return err
	}
	if receiver, ok := c.receivers[to]; ok {
		ack, err := receiver.OnAssetReceived(from, from, id)
		if err != nil {
			return errors.Wrap(err, "asset receipt rejected")
		}
		if ack != nest.AssetReceiptAck {
			return errors.New("unexpected asset receipt acknowledgement")
		}
	}
	return nil
}
