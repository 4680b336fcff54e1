// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the staking ledger: the per-asset lifecycle
// (Staked, Unbonding, Free), pro-rata reward settlement, and the privileged
// configuration surface. Every mutating operation runs as one atomic unit
// against the backing state and holds a reentrancy lock across its external
// custody calls.
package vault

import (
	"math/big"

	"github.com/nestvault/nest/log"
	"github.com/nestvault/nest/metrics"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault/custody"
	"github.com/nestvault/nest/vault/params"
	"github.com/nestvault/nest/vault/registry"
	"github.com/nestvault/nest/vault/reverts"
	"github.com/nestvault/nest/vault/rewards"
)

var (
	logger = log.WithContext("pkg", "vault")

	slotLock = nest.BytesToBytes32([]byte("vault-lock"))

	metricOps          = metrics.LazyLoadCounterVec("vault_operation_count", []string{"op", "outcome"})
	metricActiveStakes = metrics.LazyLoadGauge("vault_active_stakes_gauge")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Config is the one-time initialization payload. Duration inputs are hour
// counts and are converted to seconds internally. A zero RewardPerBlock or
// StakeLimit falls back to the ledger's initial values.
type Config struct {
	Collection     nest.Address
	RewardToken    nest.Address
	RewardPerBlock uint64
	EarlyExitTax   uint64
	StakeLimit     uint64
	CarryAmount    uint64
	StakingHours   uint64
	UnbondingHours uint64
}

// Vault holds staked assets in custody and pays out block rewards.
type Vault struct {
	addr  nest.Address
	state *state.State

	paramsService   *params.Service
	registryService *registry.Service
	rewardsEngine   *rewards.Engine

	assets custody.AssetCustodian
	token  custody.TokenLedger
	auth   custody.Authorizer

	lock *storage.Uint64
}

// New creates a vault instance bound to addr on the given state.
func New(addr nest.Address, st *state.State, assets custody.AssetCustodian, token custody.TokenLedger, auth custody.Authorizer) *Vault {
	sctx := storage.NewContext(addr, st)
	return &Vault{
		addr:            addr,
		state:           st,
		paramsService:   params.New(sctx),
		registryService: registry.New(sctx),
		rewardsEngine:   rewards.New(),
		assets:          assets,
		token:           token,
		auth:            auth,
		lock:            storage.NewUint64(sctx, slotLock),
	}
}

// Address returns the vault's custody address.
func (v *Vault) Address() nest.Address {
	return v.addr
}

// run executes fn as one atomic unit: a reentrancy lock is held for the
// duration, and on any error every state change is rolled back to the
// checkpoint taken at entry.
func (v *Vault) run(fn func() error) error {
	locked, err := v.lock.Get()
	if err != nil {
		return err
	}
	if locked != 0 {
		return reverts.ErrReentrancy
	}
	if err := v.lock.Set(1); err != nil {
		return err
	}
	checkpoint := v.state.NewCheckpoint()
	if err := fn(); err != nil {
		v.state.RevertTo(checkpoint)
		if lockErr := v.lock.Set(0); lockErr != nil {
			return lockErr
		}
		return err
	}
	return v.lock.Set(0)
}

func (v *Vault) requireReady() error {
	initialized, err := v.paramsService.Initialized()
	if err != nil {
		return err
	}
	if !initialized {
		return reverts.ErrNotInitialized
	}
	paused, err := v.paramsService.Paused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

func (v *Vault) requireAuthorized(caller nest.Address) error {
	ok, err := v.auth.IsAuthorized(caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (v *Vault) observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "reverted"
		if !reverts.IsRevertErr(err) {
			outcome = "failed"
		}
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
	if active, countErr := v.registryService.ActiveCount(); countErr == nil {
		metricActiveStakes().Set(int64(active))
	}
}

//
// Getters - no state change
//

// StakeInfo returns the entry for id, or nil when the asset is not staked.
func (v *Vault) StakeInfo(id nest.TokenID) (*registry.Entry, error) {
	return v.registryService.Get(id)
}

// UnbondingTimestamp returns the entry's unbonding timestamp, 0 while Staked.
func (v *Vault) UnbondingTimestamp(id nest.TokenID) (uint64, error) {
	entry, err := v.registryService.GetExisting(id)
	if err != nil {
		return 0, err
	}
	return entry.UnbondingAt, nil
}

// PendingReward returns the unclaimed reward for a staked asset.
func (v *Vault) PendingReward(id nest.TokenID, blockNum, blockTime uint64) (uint64, error) {
	entry, err := v.registryService.GetExisting(id)
	if err != nil {
		return 0, err
	}
	p, err := v.rewardParams()
	if err != nil {
		return 0, err
	}
	return v.rewardsEngine.Pending(entry, blockNum, blockTime, p)
}

// ListStakesByOwner returns the asset ids staked by owner, order not significant.
func (v *Vault) ListStakesByOwner(owner nest.Address) ([]nest.TokenID, error) {
	return v.registryService.ListByOwner(owner)
}

// StakeCount returns the number of entries owned by owner.
func (v *Vault) StakeCount(owner nest.Address) (uint64, error) {
	return v.registryService.CountByOwner(owner)
}

// TrackedAssets lists every asset with a live entry.
func (v *Vault) TrackedAssets() ([]nest.TokenID, error) {
	return v.registryService.TrackedAssets()
}

// TrackedOwners lists every owner with a non-empty asset list.
func (v *Vault) TrackedOwners() ([]nest.Address, error) {
	return v.registryService.TrackedOwners()
}

// TotalStakes returns the total number of entries in any state.
func (v *Vault) TotalStakes() (uint64, error) {
	return v.registryService.StakesCount()
}

// ActiveStakeCount returns the number of entries currently Staked.
func (v *Vault) ActiveStakeCount() (uint64, error) {
	return v.registryService.ActiveCount()
}

func (v *Vault) StakingEndTime() (uint64, error)  { return v.paramsService.StakingEndTime() }
func (v *Vault) UnbondingPeriod() (uint64, error) { return v.paramsService.UnbondingPeriod() }
func (v *Vault) RewardPerBlock() (uint64, error)  { return v.paramsService.RewardPerBlock() }
func (v *Vault) StakeLimit() (uint64, error)      { return v.paramsService.StakeLimit() }
func (v *Vault) CarryAmount() (uint64, error)     { return v.paramsService.CarryAmount() }
func (v *Vault) EarlyExitTax() (uint64, error)    { return v.paramsService.EarlyExitTax() }
func (v *Vault) Paused() (bool, error)            { return v.paramsService.Paused() }
func (v *Vault) Initialized() (bool, error)       { return v.paramsService.Initialized() }

func (v *Vault) rewardParams() (rewards.Params, error) {
	rewardPerBlock, err := v.paramsService.RewardPerBlock()
	if err != nil {
		return rewards.Params{}, err
	}
	active, err := v.registryService.ActiveCount()
	if err != nil {
		return rewards.Params{}, err
	}
	end, err := v.paramsService.StakingEndTime()
	if err != nil {
		return rewards.Params{}, err
	}
	return rewards.Params{
		RewardPerBlock: rewardPerBlock,
		ActiveStakes:   active,
		StakingEndTime: end,
	}, nil
}

//
// Setters - state change
//

// Initialize configures the vault exactly once. The staking period starts at
// blockTime and closes StakingHours later.
func (v *Vault) Initialize(cfg Config, blockTime uint64) error {
	logger.Debug("initializing vault", "collection", cfg.Collection, "rewardToken", cfg.RewardToken)
	err := v.run(func() error {
		initialized, err := v.paramsService.Initialized()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.ErrAlreadyInitialized
		}
		if err := v.paramsService.SetCollection(cfg.Collection); err != nil {
			return err
		}
		if err := v.paramsService.SetRewardToken(cfg.RewardToken); err != nil {
			return err
		}
		rewardPerBlock := cfg.RewardPerBlock
		if rewardPerBlock == 0 {
			rewardPerBlock = nest.InitialRewardPerBlock
		}
		if err := v.paramsService.SetRewardPerBlock(rewardPerBlock); err != nil {
			return err
		}
		if err := v.paramsService.SetEarlyExitTax(cfg.EarlyExitTax); err != nil {
			return err
		}
		stakeLimit := cfg.StakeLimit
		if stakeLimit == 0 {
			stakeLimit = nest.InitialStakeLimit
		}
		if err := v.paramsService.SetStakeLimit(stakeLimit); err != nil {
			return err
		}
		if err := v.paramsService.SetCarryAmount(cfg.CarryAmount); err != nil {
			return err
		}
		if err := v.paramsService.SetStakingEndTime(blockTime + cfg.StakingHours*nest.HourInSeconds); err != nil {
			return err
		}
		if err := v.paramsService.SetUnbondingPeriod(cfg.UnbondingHours * nest.HourInSeconds); err != nil {
			return err
		}
		return v.paramsService.SetInitialized()
	})
	if err != nil {
		logger.Info("initialize failed", "error", err)
		return err
	}
	logger.Info("initialized vault", "collection", cfg.Collection, "rewardToken", cfg.RewardToken)
	return nil
}

// Stake locks the caller's asset into custody along with the fixed carry
// deposit, and opens a Staked entry accruing from the current block.
func (v *Vault) Stake(caller nest.Address, id nest.TokenID, blockNum, blockTime uint64) error {
	logger.Debug("staking asset", "caller", caller, "id", id)
	err := v.run(func() error {
		return v.stake(caller, id, blockNum, blockTime)
	})
	v.observe("stake", err)
	if err != nil {
		logger.Info("stake failed", "id", id, "error", err)
		return err
	}
	logger.Info("staked asset", "id", id, "owner", caller)
	return nil
}

func (v *Vault) stake(caller nest.Address, id nest.TokenID, blockNum, blockTime uint64) error {
	if err := v.requireReady(); err != nil {
		return err
	}
	end, err := v.paramsService.StakingEndTime()
	if err != nil {
		return err
	}
	if blockTime >= end {
		return reverts.ErrStakingEnded
	}
	limit, err := v.paramsService.StakeLimit()
	if err != nil {
		return err
	}
	active, err := v.registryService.ActiveCount()
	if err != nil {
		return err
	}
	if active >= limit {
		return reverts.ErrStakeLimitReached
	}
	holder, err := v.assets.OwnerOf(id)
	if err != nil {
		return err
	}
	if holder != caller {
		return reverts.ErrNotAssetHolder
	}

	// registry first, custody transfers after
	entry := &registry.Entry{
		Owner:            caller,
		Status:           registry.StatusStaked,
		StakedAt:         blockTime,
		UnbondingAt:      0,
		LastClaimedBlock: blockNum,
	}
	if err := v.registryService.Add(id, entry); err != nil {
		return err
	}
	carry, err := v.paramsService.CarryAmount()
	if err != nil {
		return err
	}
	if err := v.token.Transfer(caller, v.addr, new(big.Int).SetUint64(carry)); err != nil {
		return err
	}
	return v.assets.Transfer(caller, v.addr, id)
}

// Unstake requests exit for a Staked entry. Pending rewards are settled
// first. With forceWithTax the caller pays the early-exit tax and the entry
// goes straight to Free; otherwise it enters Unbonding until the cooling-off
// period elapses.
func (v *Vault) Unstake(caller nest.Address, id nest.TokenID, forceWithTax bool, blockNum, blockTime uint64) error {
	logger.Debug("unstaking asset", "caller", caller, "id", id, "force", forceWithTax)
	err := v.run(func() error {
		if err := v.requireReady(); err != nil {
			return err
		}
		return v.unstake(caller, id, forceWithTax, blockNum, blockTime)
	})
	v.observe("unstake", err)
	if err != nil {
		logger.Info("unstake failed", "id", id, "error", err)
		return err
	}
	logger.Info("unstaked asset", "id", id, "force", forceWithTax)
	return nil
}

func (v *Vault) unstake(caller nest.Address, id nest.TokenID, forceWithTax bool, blockNum, blockTime uint64) error {
	end, err := v.paramsService.StakingEndTime()
	if err != nil {
		return err
	}
	if blockTime >= end {
		return reverts.ErrStakingEnded
	}
	entry, err := v.registryService.GetExisting(id)
	if err != nil {
		return err
	}
	if !entry.IsActive() {
		return reverts.ErrNotStaked
	}
	if entry.Owner != caller {
		return reverts.ErrNotEntryOwner
	}

	// claim-then-transition: settle what is owed while still Staked
	if _, err := v.settle(entry, blockNum, blockTime); err != nil {
		return err
	}
	if forceWithTax {
		tax, err := v.paramsService.EarlyExitTax()
		if err != nil {
			return err
		}
		if err := v.token.Transfer(caller, v.addr, new(big.Int).SetUint64(tax)); err != nil {
			return err
		}
		entry.Status = registry.StatusFree
		entry.UnbondingAt = blockTime // tax-payment time, not a completion time
	} else {
		period, err := v.paramsService.UnbondingPeriod()
		if err != nil {
			return err
		}
		entry.Status = registry.StatusUnbonding
		entry.UnbondingAt = blockTime + period
	}
	if err := v.registryService.SubActive(); err != nil {
		return err
	}
	return v.registryService.Update(id, entry)
}

// Withdraw returns the asset and the carry deposit to the caller and drops
// the entry. Before the staking period ends the unbonding rules apply; once
// it has ended, withdrawal is unconditional for any entry state.
func (v *Vault) Withdraw(caller nest.Address, id nest.TokenID, forceWithTax bool, blockNum, blockTime uint64) error {
	logger.Debug("withdrawing asset", "caller", caller, "id", id, "force", forceWithTax)
	err := v.run(func() error {
		if err := v.requireReady(); err != nil {
			return err
		}
		return v.withdraw(caller, id, forceWithTax, blockNum, blockTime)
	})
	v.observe("withdraw", err)
	if err != nil {
		logger.Info("withdraw failed", "id", id, "error", err)
		return err
	}
	logger.Info("withdrew asset", "id", id, "owner", caller)
	return nil
}

func (v *Vault) withdraw(caller nest.Address, id nest.TokenID, forceWithTax bool, blockNum, blockTime uint64) error {
	entry, err := v.registryService.GetExisting(id)
	if err != nil {
		return err
	}
	if entry.Owner != caller {
		return reverts.ErrNotEntryOwner
	}
	end, err := v.paramsService.StakingEndTime()
	if err != nil {
		return err
	}
	if blockTime < end {
		if blockTime < entry.UnbondingAt && !forceWithTax {
			return reverts.ErrForcedExitRequired
		}
		switch {
		case entry.IsActive():
			if err := v.unstake(caller, id, forceWithTax, blockNum, blockTime); err != nil {
				return err
			}
		case entry.Status == registry.StatusUnbonding && forceWithTax && blockTime < entry.UnbondingAt:
			tax, err := v.paramsService.EarlyExitTax()
			if err != nil {
				return err
			}
			if err := v.token.Transfer(caller, v.addr, new(big.Int).SetUint64(tax)); err != nil {
				return err
			}
			entry.Status = registry.StatusFree
			if err := v.registryService.Update(id, entry); err != nil {
				return err
			}
		}
	}

	// sunset escape hatch: past the period end nothing above applies
	carry, err := v.paramsService.CarryAmount()
	if err != nil {
		return err
	}
	if err := v.token.Transfer(v.addr, caller, new(big.Int).SetUint64(carry)); err != nil {
		return err
	}
	if err := v.assets.Transfer(v.addr, caller, id); err != nil {
		return err
	}
	_, err = v.registryService.Remove(id)
	return err
}

// ClaimReward pays out the pending reward for one staked asset and advances
// its claim height. Calling twice in the same block is a no-op the second time.
func (v *Vault) ClaimReward(caller nest.Address, id nest.TokenID, blockNum, blockTime uint64) (uint64, error) {
	logger.Debug("claiming reward", "caller", caller, "id", id)
	var amount uint64
	err := v.run(func() error {
		if err := v.requireReady(); err != nil {
			return err
		}
		var err error
		amount, err = v.claimReward(caller, id, blockNum, blockTime)
		return err
	})
	v.observe("claim_reward", err)
	if err != nil {
		logger.Info("claim reward failed", "id", id, "error", err)
		return 0, err
	}
	logger.Info("claimed reward", "id", id, "amount", amount)
	return amount, nil
}

func (v *Vault) claimReward(caller nest.Address, id nest.TokenID, blockNum, blockTime uint64) (uint64, error) {
	entry, err := v.registryService.GetExisting(id)
	if err != nil {
		return 0, err
	}
	if !entry.IsActive() {
		return 0, reverts.ErrNotStaked
	}
	if entry.Owner != caller {
		return 0, reverts.ErrNotEntryOwner
	}
	amount, err := v.settle(entry, blockNum, blockTime)
	if err != nil {
		return 0, err
	}
	return amount, v.registryService.Update(id, entry)
}

// ClaimAllRewards claims for every Staked entry in the caller's list.
// Unbonding entries are skipped silently.
func (v *Vault) ClaimAllRewards(caller nest.Address, blockNum, blockTime uint64) (uint64, error) {
	logger.Debug("claiming all rewards", "caller", caller)
	var total uint64
	err := v.run(func() error {
		if err := v.requireReady(); err != nil {
			return err
		}
		ids, err := v.registryService.ListByOwner(caller)
		if err != nil {
			return err
		}
		for _, id := range ids {
			entry, err := v.registryService.Get(id)
			if err != nil {
				return err
			}
			if entry == nil || !entry.IsActive() {
				continue
			}
			amount, err := v.settle(entry, blockNum, blockTime)
			if err != nil {
				return err
			}
			if err := v.registryService.Update(id, entry); err != nil {
				return err
			}
			total += amount
		}
		return nil
	})
	v.observe("claim_all_rewards", err)
	if err != nil {
		logger.Info("claim all rewards failed", "caller", caller, "error", err)
		return 0, err
	}
	logger.Info("claimed all rewards", "caller", caller, "amount", total)
	return total, nil
}

// settle transfers the entry's pending reward to its owner and advances the
// claim height to the current block. The caller persists the entry.
func (v *Vault) settle(entry *registry.Entry, blockNum, blockTime uint64) (uint64, error) {
	p, err := v.rewardParams()
	if err != nil {
		return 0, err
	}
	amount, err := v.rewardsEngine.Pending(entry, blockNum, blockTime, p)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		if err := v.token.Transfer(v.addr, entry.Owner, new(big.Int).SetUint64(amount)); err != nil {
			return 0, err
		}
	}
	entry.LastClaimedBlock = blockNum
	return amount, nil
}

// OnAssetReceived acknowledges incoming asset transfers unconditionally.
func (v *Vault) OnAssetReceived(_, _ nest.Address, _ nest.TokenID) (nest.Bytes32, error) {
	return nest.AssetReceiptAck, nil
}

//
// Privileged operations
//

func (v *Vault) privileged(op string, caller nest.Address, fn func() error) error {
	err := v.run(func() error {
		if err := v.requireAuthorized(caller); err != nil {
			return err
		}
		return fn()
	})
	v.observe(op, err)
	if err != nil {
		logger.Info("privileged operation failed", "op", op, "caller", caller, "error", err)
		return err
	}
	logger.Info("privileged operation applied", "op", op, "caller", caller)
	return nil
}

func (v *Vault) SetStakeLimit(caller nest.Address, limit uint64) error {
	return v.privileged("set_stake_limit", caller, func() error {
		return v.paramsService.SetStakeLimit(limit)
	})
}

func (v *Vault) SetRewardPerBlock(caller nest.Address, reward uint64) error {
	return v.privileged("set_reward_per_block", caller, func() error {
		return v.paramsService.SetRewardPerBlock(reward)
	})
}

func (v *Vault) SetEarlyExitTax(caller nest.Address, tax uint64) error {
	return v.privileged("set_early_exit_tax", caller, func() error {
		return v.paramsService.SetEarlyExitTax(tax)
	})
}

func (v *Vault) SetCarryAmount(caller nest.Address, amount uint64) error {
	return v.privileged("set_carry_amount", caller, func() error {
		return v.paramsService.SetCarryAmount(amount)
	})
}

// SetStakingEndTime closes the staking period duration seconds from blockTime.
func (v *Vault) SetStakingEndTime(caller nest.Address, duration, blockTime uint64) error {
	return v.privileged("set_staking_end_time", caller, func() error {
		return v.paramsService.SetStakingEndTime(blockTime + duration)
	})
}

func (v *Vault) SetUnbondingPeriod(caller nest.Address, duration uint64) error {
	return v.privileged("set_unbonding_period", caller, func() error {
		return v.paramsService.SetUnbondingPeriod(duration)
	})
}

func (v *Vault) Pause(caller nest.Address) error {
	return v.privileged("pause", caller, func() error {
		return v.paramsService.SetPaused(true)
	})
}

func (v *Vault) Unpause(caller nest.Address) error {
	return v.privileged("unpause", caller, func() error {
		return v.paramsService.SetPaused(false)
	})
}

// ForceWithdrawRewardPool drains the vault's entire reward-token balance to
// the caller.
func (v *Vault) ForceWithdrawRewardPool(caller nest.Address) error {
	return v.privileged("force_withdraw_reward_pool", caller, func() error {
		balance, err := v.token.BalanceOf(v.addr)
		if err != nil {
			return err
		}
		return v.token.Transfer(v.addr, caller, balance)
	})
}

// ForceWithdrawAsset rescues one asset out of custody to the caller,
// dropping its entry when one exists.
func (v *Vault) ForceWithdrawAsset(caller nest.Address, id nest.TokenID) error {
	return v.privileged("force_withdraw_asset", caller, func() error {
		if err := v.assets.Transfer(v.addr, caller, id); err != nil {
			return err
		}
		entry, err := v.registryService.Get(id)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		_, err = v.registryService.Remove(id)
		return err
	})
}
