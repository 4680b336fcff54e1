// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
)

var (
	slotBalances    = nest.BytesToBytes32([]byte("token-balances"))
	slotTotalSupply = nest.BytesToBytes32([]byte("token-total-supply"))
)

// Token is a state-backed fungible ledger implementing TokenLedger.
type Token struct {
	balances    *storage.Mapping[nest.Address, *big.Int]
	totalSupply *storage.Value[*big.Int]
}

func NewToken(sctx *storage.Context) *Token {
	return &Token{
		balances:    storage.NewMapping[nest.Address, *big.Int](sctx, slotBalances),
		totalSupply: storage.NewValue[*big.Int](sctx, slotTotalSupply),
	}
}

func (t *Token) BalanceOf(addr nest.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Mint credits amount to addr, growing the total supply.
func (t *Token) Mint(addr nest.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if err := t.balances.Set(addr, new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	return t.totalSupply.Set(new(big.Int).Add(supply, amount))
}

// Transfer moves amount from one balance to another.
func (t *Token) Transfer(from, to nest.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.New("insufficient token balance")
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	toBalance, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, new(big.Int).Add(toBalance, amount))
}
