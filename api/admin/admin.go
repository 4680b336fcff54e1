// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin exposes the privileged vault surface over HTTP. Every request
// names its caller; the vault's authorizer decides whether it may proceed.
package admin

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/nestvault/nest/api/restutil"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/vault"
	"github.com/nestvault/nest/vault/reverts"
)

type ParamRequest struct {
	Caller nest.Address `json:"caller"`
	Value  uint64       `json:"value"`
}

type CallerRequest struct {
	Caller nest.Address `json:"caller"`
}

type AssetRequest struct {
	Caller  nest.Address `json:"caller"`
	AssetID nest.TokenID `json:"assetId"`
}

type InitializeRequest struct {
	Caller nest.Address `json:"caller"`
	vault.Config
}

type Admin struct {
	vault *vault.Vault
	state *state.State
	clock *nest.Clock
	mu    *sync.RWMutex
}

// New creates the admin component. mu is the lock shared by every component
// mutating the same state journal.
func New(v *vault.Vault, st *state.State, clock *nest.Clock, mu *sync.RWMutex) *Admin {
	return &Admin{
		vault: v,
		state: st,
		clock: clock,
		mu:    mu,
	}
}

func (a *Admin) execute(op func(blockTime uint64) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := op(a.clock.Now()); err != nil {
		if errors.Is(err, reverts.ErrUnauthorized) {
			return restutil.Forbidden(err)
		}
		if reverts.IsRevertErr(err) {
			return restutil.Conflict(err)
		}
		return err
	}
	return a.state.Commit()
}

func (a *Admin) paramHandler(apply func(caller nest.Address, value, blockTime uint64) error) restutil.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body ParamRequest
		if err := restutil.ParseJSON(req.Body, &body); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "body"))
		}
		if err := a.execute(func(blockTime uint64) error {
			return apply(body.Caller, body.Value, blockTime)
		}); err != nil {
			return err
		}
		return restutil.WriteJSON(w, restutil.M{"value": body.Value})
	}
}

func (a *Admin) handleInitialize(w http.ResponseWriter, req *http.Request) error {
	var body InitializeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.execute(func(blockTime uint64) error {
		return a.vault.Initialize(body.Config, blockTime)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"initialized": true})
}

func (a *Admin) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.execute(func(uint64) error {
		return a.vault.Pause(body.Caller)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"paused": true})
}

func (a *Admin) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.execute(func(uint64) error {
		return a.vault.Unpause(body.Caller)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"paused": false})
}

func (a *Admin) handleWithdrawPool(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.execute(func(uint64) error {
		return a.vault.ForceWithdrawRewardPool(body.Caller)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"drained": true})
}

func (a *Admin) handleWithdrawAsset(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.execute(func(uint64) error {
		return a.vault.ForceWithdrawAsset(body.Caller, body.AssetID)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"rescued": body.AssetID})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/initialize").
		Methods(http.MethodPost).
		Name("admin_initialize").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleInitialize))
	sub.Path("/stake-limit").
		Methods(http.MethodPost).
		Name("admin_set_stake_limit").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, _ uint64) error {
			return a.vault.SetStakeLimit(caller, value)
		})))
	sub.Path("/reward-per-block").
		Methods(http.MethodPost).
		Name("admin_set_reward_per_block").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, _ uint64) error {
			return a.vault.SetRewardPerBlock(caller, value)
		})))
	sub.Path("/early-exit-tax").
		Methods(http.MethodPost).
		Name("admin_set_early_exit_tax").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, _ uint64) error {
			return a.vault.SetEarlyExitTax(caller, value)
		})))
	sub.Path("/carry-amount").
		Methods(http.MethodPost).
		Name("admin_set_carry_amount").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, _ uint64) error {
			return a.vault.SetCarryAmount(caller, value)
		})))
	sub.Path("/staking-end").
		Methods(http.MethodPost).
		Name("admin_set_staking_end").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, blockTime uint64) error {
			return a.vault.SetStakingEndTime(caller, value, blockTime)
		})))
	sub.Path("/unbonding-period").
		Methods(http.MethodPost).
		Name("admin_set_unbonding_period").
		HandlerFunc(restutil.WrapHandlerFunc(a.paramHandler(func(caller nest.Address, value, _ uint64) error {
			return a.vault.SetUnbondingPeriod(caller, value)
		})))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("admin_pause").
		HandlerFunc(restutil.WrapHandlerFunc(a.handlePause))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("admin_unpause").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleUnpause))
	sub.Path("/reward-pool/withdraw").
		Methods(http.MethodPost).
		Name("admin_withdraw_pool").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleWithdrawPool))
	sub.Path("/assets/withdraw").
		Methods(http.MethodPost).
		Name("admin_withdraw_asset").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleWithdrawAsset))
}
