// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params exposes the vault's global configuration as typed
// accessors over fixed storage slots.
package params

import (
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/storage"
)

type Service struct {
	rewardPerBlock  *storage.Uint64
	stakeLimit      *storage.Uint64
	earlyExitTax    *storage.Uint64
	carryAmount     *storage.Uint64
	stakingEndTime  *storage.Uint64
	unbondingPeriod *storage.Uint64
	paused          *storage.Uint64
	initialized     *storage.Uint64
	collection      *storage.Value[nest.Address]
	rewardToken     *storage.Value[nest.Address]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		rewardPerBlock:  storage.NewUint64(sctx, nest.KeyRewardPerBlock),
		stakeLimit:      storage.NewUint64(sctx, nest.KeyStakeLimit),
		earlyExitTax:    storage.NewUint64(sctx, nest.KeyEarlyExitTax),
		carryAmount:     storage.NewUint64(sctx, nest.KeyCarryAmount),
		stakingEndTime:  storage.NewUint64(sctx, nest.KeyStakingEndTime),
		unbondingPeriod: storage.NewUint64(sctx, nest.KeyUnbondingPeriod),
		paused:          storage.NewUint64(sctx, nest.KeyPaused),
		initialized:     storage.NewUint64(sctx, nest.KeyInitialized),
		collection:      storage.NewValue[nest.Address](sctx, nest.KeyCollection),
		rewardToken:     storage.NewValue[nest.Address](sctx, nest.KeyRewardToken),
	}
}

func (s *Service) RewardPerBlock() (uint64, error)     { return s.rewardPerBlock.Get() }
func (s *Service) SetRewardPerBlock(v uint64) error    { return s.rewardPerBlock.Set(v) }
func (s *Service) StakeLimit() (uint64, error)         { return s.stakeLimit.Get() }
func (s *Service) SetStakeLimit(v uint64) error        { return s.stakeLimit.Set(v) }
func (s *Service) EarlyExitTax() (uint64, error)       { return s.earlyExitTax.Get() }
func (s *Service) SetEarlyExitTax(v uint64) error      { return s.earlyExitTax.Set(v) }
func (s *Service) CarryAmount() (uint64, error)        { return s.carryAmount.Get() }
func (s *Service) SetCarryAmount(v uint64) error       { return s.carryAmount.Set(v) }
func (s *Service) StakingEndTime() (uint64, error)     { return s.stakingEndTime.Get() }
func (s *Service) SetStakingEndTime(v uint64) error    { return s.stakingEndTime.Set(v) }
func (s *Service) UnbondingPeriod() (uint64, error)    { return s.unbondingPeriod.Get() }
func (s *Service) SetUnbondingPeriod(v uint64) error   { return s.unbondingPeriod.Set(v) }
func (s *Service) Collection() (nest.Address, error)   { return s.collection.Get() }
func (s *Service) SetCollection(a nest.Address) error  { return s.collection.Set(a) }
func (s *Service) RewardToken() (nest.Address, error)  { return s.rewardToken.Get() }
func (s *Service) SetRewardToken(a nest.Address) error { return s.rewardToken.Set(a) }

func (s *Service) Paused() (bool, error) {
	v, err := s.paused.Get()
	return v != 0, err
}

func (s *Service) SetPaused(paused bool) error {
	if paused {
		return s.paused.Set(1)
	}
	return s.paused.Set(0)
}

func (s *Service) Initialized() (bool, error) {
	v, err := s.initialized.Get()
	return v != 0, err
}

func (s *Service) SetInitialized() error {
	return s.initialized.Set(1)
}
