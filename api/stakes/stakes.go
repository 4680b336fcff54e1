// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes exposes the public staking operations and the read surface
// over HTTP. Mutating requests are serialized and committed one at a time,
// matching the ledger's run-to-completion execution model. The lock is shared
// with every other component mutating the same state journal.
package stakes

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

type Stakes struct {
	vault *vault.Vault
	state *state.State
	clock *nest.Clock
	mu    *sync.RWMutex
}

func New(v *vault.Vault, st *state.State, clock *nest.Clock, mu *sync.RWMutex) *Stakes {
	return &Stakes{
		vault: v,
		state: st,
		clock: clock,
		mu:    mu,
	}
}

// execute serializes a mutating operation and commits the journal on success.
func (s *Stakes) execute(op func(blockNum, blockTime uint64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if err := op(s.clock.BlockNumber(now), now); err != nil {
		return convertError(err)
	}
	return s.state.Commit()
}

func convertError(err error) error {
	switch {
	case errors.Is(err, reverts.ErrUnauthorized):
		return restutil.Forbidden(err)
	case errors.Is(err, reverts.ErrNotStaked):
		return restutil.NotFound(err)
	case reverts.IsRevertErr(err):
		return restutil.Conflict(err)
	default:
		return err
	}
}

func parseAssetID(req *http.Request) (nest.TokenID, error) {
	id, err := nest.ParseTokenID(mux.Vars(req)["id"])
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (s *Stakes) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.execute(func(blockNum, blockTime uint64) error {
		return s.vault.Stake(body.Caller, body.AssetID, blockNum, blockTime)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"staked": body.AssetID})
}

func (s *Stakes) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	var body ExitRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.execute(func(blockNum, blockTime uint64) error {
		return s.vault.Unstake(body.Caller, id, body.Force, blockNum, blockTime)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"unstaked": id})
}

func (s *Stakes) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	var body ExitRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.execute(func(blockNum, blockTime uint64) error {
		return s.vault.Withdraw(body.Caller, id, body.Force, blockNum, blockTime)
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"withdrawn": id})
}

func (s *Stakes) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var amount uint64
	if err := s.execute(func(blockNum, blockTime uint64) error {
		var err error
		amount, err = s.vault.ClaimReward(body.Caller, id, blockNum, blockTime)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ClaimResponse{Amount: amount})
}

func (s *Stakes) handleClaimAll(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var amount uint64
	if err := s.execute(func(blockNum, blockTime uint64) error {
		var err error
		amount, err = s.vault.ClaimAllRewards(body.Caller, blockNum, blockTime)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &ClaimResponse{Amount: amount})
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, err := s.vault.StakeInfo(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return restutil.NotFound(errors.New("asset is not staked"))
	}
	now := s.clock.Now()
	pending, err := s.vault.PendingReward(id, s.clock.BlockNumber(now), now)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertEntry(id, entry, pending))
}

func (s *Stakes) handleGetOwnerStakes(w http.ResponseWriter, req *http.Request) error {
	owner, err := nest.ParseAddress(mux.Vars(req)["owner"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "owner"))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	assets, err := s.vault.ListStakesByOwner(*owner)
	if err != nil {
		return err
	}
	count, err := s.vault.StakeCount(*owner)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &OwnerStakes{
		Owner:  *owner,
		Count:  count,
		Assets: assets,
	})
}

func (s *Stakes) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, err := s.vault.TotalStakes()
	if err != nil {
		return err
	}
	active, err := s.vault.ActiveStakeCount()
	if err != nil {
		return err
	}
	assets, err := s.vault.TrackedAssets()
	if err != nil {
		return err
	}
	owners, err := s.vault.TrackedOwners()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Stats{
		Total:  total,
		Active: active,
		Assets: assets,
		Owners: owners,
	})
}

func (s *Stakes) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		cfg Config
		err error
	)
	if cfg.StakingEndTime, err = s.vault.StakingEndTime(); err != nil {
		return err
	}
	if cfg.UnbondingPeriod, err = s.vault.UnbondingPeriod(); err != nil {
		return err
	}
	if cfg.RewardPerBlock, err = s.vault.RewardPerBlock(); err != nil {
		return err
	}
	if cfg.StakeLimit, err = s.vault.StakeLimit(); err != nil {
		return err
	}
	if cfg.CarryAmount, err = s.vault.CarryAmount(); err != nil {
		return err
	}
	if cfg.EarlyExitTax, err = s.vault.EarlyExitTax(); err != nil {
		return err
	}
	if cfg.Paused, err = s.vault.Paused(); err != nil {
		return err
	}
	if cfg.Initialized, err = s.vault.Initialized(); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &cfg)
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("stakes_get_stats").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStats))
	sub.Path("/config").
		Methods(http.MethodGet).
		Name("stakes_get_config").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/owners/{owner}").
		Methods(http.MethodGet).
		Name("stakes_get_owner").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetOwnerStakes))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("stakes_get_one").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
	sub.Path("").
		Methods(http.MethodPost).
		Name("stakes_stake").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/claims").
		Methods(http.MethodPost).
		Name("stakes_claim_all").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaimAll))
	sub.Path("/{id}/unstake").
		Methods(http.MethodPost).
		Name("stakes_unstake").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/{id}/withdraw").
		Methods(http.MethodPost).
		Name("stakes_withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/{id}/claim").
		Methods(http.MethodPost).
		Name("stakes_claim").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
}
