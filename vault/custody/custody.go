// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody defines the narrow collaborator contracts the vault calls
// out to, and state-backed implementations of them sharing the vault's store.
package custody

import (
	"math/big"

	"github.com/nestvault/nest/nest"
)

// AssetCustodian holds the unique collectible assets.
type AssetCustodian interface {
	OwnerOf(id nest.TokenID) (nest.Address, error)
	Transfer(from, to nest.Address, id nest.TokenID) error
}

// TokenLedger holds fungible reward-token balances.
type TokenLedger interface {
	BalanceOf(addr nest.Address) (*big.Int, error)
	Transfer(from, to nest.Address, amount *big.Int) error
}

// Authorizer answers whether a caller may use the privileged surface.
type Authorizer interface {
	IsAuthorized(caller nest.Address) (bool, error)
}

// AssetReceiver is implemented by contracts that accept incoming asset
// transfers. The returned acknowledgement must equal nest.AssetReceiptAck.
type AssetReceiver interface {
	OnAssetReceived(operator, from nest.Address, id nest.TokenID) (nest.Bytes32, error)
}
