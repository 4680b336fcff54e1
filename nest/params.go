// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nest

// Constants of the staking ledger.
const (
	// BlockInterval time interval between two consecutive blocks, used to
	// estimate block heights from elapsed wall-clock time.
	BlockInterval uint64 = 10 // unit: second

	// HourInSeconds converts the hour-count duration inputs of the
	// initialization path into the ledger's time unit.
	HourInSeconds uint64 = 3600
)

// Keys of vault params.
var (
	KeyRewardPerBlock  = BytesToBytes32([]byte("reward-per-block"))
	KeyStakeLimit      = BytesToBytes32([]byte("stake-limit"))
	KeyEarlyExitTax    = BytesToBytes32([]byte("early-exit-tax"))
	KeyCarryAmount     = BytesToBytes32([]byte("carry-amount"))
	KeyStakingEndTime  = BytesToBytes32([]byte("staking-end-time"))
	KeyUnbondingPeriod = BytesToBytes32([]byte("unbonding-period"))
	KeyPaused          = BytesToBytes32([]byte("paused"))
	KeyInitialized     = BytesToBytes32([]byte("initialized"))
	KeyCollection      = BytesToBytes32([]byte("collection"))
	KeyRewardToken     = BytesToBytes32([]byte("reward-token"))

	InitialRewardPerBlock = uint64(100)
	InitialStakeLimit     = uint64(10000)
)

// AssetReceiptAck is the fixed acknowledgement returned by the asset-receipt
// callback to signal unconditional acceptance of an incoming asset transfer.
var AssetReceiptAck = Blake2b([]byte("nest-asset-receipt"))
