package vault

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
)

// USDCDecimals is the token's fixed decimal precision. Human-readable amounts
// shift by this factor to become base units.
const USDCDecimals = 6

// Status is a point-in-time read of the protocol's balances.
type Status struct {
	AgentAddress common.Address
	VaultLiquid  *big.Int
	TotalAssets  *big.Int
	PrizePool    *big.Int
	LastWinner   common.Address
}

// StrategyBalance pairs a configured strategy with its current holdings.
type StrategyBalance struct {
	Name    string
	Address common.Address
	Balance *big.Int
}

// DepositOutcome reports a deposit attempt. NoOp is set when the vault held
// no idle funds and no transaction was submitted.
type DepositOutcome struct {
	NoOp   bool
	Amount *big.Int
	Result *pipeline.SequenceResult
}

// Allocation is one leg of a rebalance: move Amount base units to Strategy.
type Allocation struct {
	Strategy common.Address
	Amount   *big.Int
}
