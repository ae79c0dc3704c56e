package vault

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github/prizevault/go-vault-agent/internal/agent/builder"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
	"github/prizevault/go-vault-agent/internal/contract"
)

// ErrNonPositiveAmount rejects harvest or rebalance amounts that are zero or
// negative before anything reaches the chain.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// Service exposes the vault's funding operations: status reads, idle fund
// deposits, simulated yield harvests and cross-strategy rebalancing.
type Service interface {
	Status(ctx context.Context) (*Status, error)
	StrategyBalances(ctx context.Context) ([]*StrategyBalance, error)
	DepositIdleFunds(ctx context.Context) (*DepositOutcome, error)
	SimulateYieldHarvest(ctx context.Context, amount decimal.Decimal) (*pipeline.SequenceResult, error)
	Rebalance(ctx context.Context, allocations []Allocation) (*pipeline.SequenceResult, error)
}

type service struct {
	reader   contract.ChainReader
	registry *contract.Registry
	pipeline pipeline.Service
	agent    common.Address
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(
	reader contract.ChainReader,
	registry *contract.Registry,
	pipe pipeline.Service,
	agent common.Address,
) (Service, error) {
	if reader == nil || registry == nil || pipe == nil {
		return nil, errors.New("all vault service dependencies are required")
	}

	return &service{
		reader:   reader,
		registry: registry,
		pipeline: pipe,
		agent:    agent,
	}, nil
}

// Status reads the vault's liquid USDC, its total managed assets, the VRF
// strategy's prize pool and the last lottery winner in one pass.
func (s *service) Status(ctx context.Context) (*Status, error) {
	liquid, err := s.viewBigInt(ctx, s.registry.USDC, "balanceOf", s.registry.Vault.Address)
	if err != nil {
		return nil, err
	}

	totalAssets, err := s.viewBigInt(ctx, s.registry.Vault, "totalAssets")
	if err != nil {
		return nil, err
	}

	prizePool, err := s.viewBigInt(ctx, s.registry.Strategy, "getBalance")
	if err != nil {
		return nil, err
	}

	winner, err := s.viewAddress(ctx, s.registry.Strategy, "lastWinner")
	if err != nil {
		return nil, err
	}

	return &Status{
		AgentAddress: s.agent,
		VaultLiquid:  liquid,
		TotalAssets:  totalAssets,
		PrizePool:    prizePool,
		LastWinner:   winner,
	}, nil
}

// StrategyBalances reads getBalance across every configured strategy.
func (s *service) StrategyBalances(ctx context.Context) ([]*StrategyBalance, error) {
	strategies := s.registry.Strategies()
	balances := make([]*StrategyBalance, 0, len(strategies))

	for name, binding := range strategies {
		balance, err := s.viewBigInt(ctx, binding, "getBalance")
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read balance of strategy %s", name)
		}
		balances = append(balances, &StrategyBalance{
			Name:    name,
			Address: binding.Address,
			Balance: balance,
		})
	}

	return balances, nil
}

// DepositIdleFunds moves the vault's entire liquid USDC balance into the VRF
// strategy. A zero balance is a successful no-op: nothing is signed and
// nothing reaches the chain.
func (s *service) DepositIdleFunds(ctx context.Context) (*DepositOutcome, error) {
	liquid, err := s.viewBigInt(ctx, s.registry.USDC, "balanceOf", s.registry.Vault.Address)
	if err != nil {
		return nil, err
	}

	if liquid.Sign() == 0 {
		log.Ctx(ctx).Info().Msg("Vault holds no idle USDC, skipping deposit")
		return &DepositOutcome{NoOp: true, Amount: liquid}, nil
	}

	result, err := s.pipeline.RunSequence(ctx, "deposit_idle_funds", []pipeline.Step{
		{
			Name:     "deposit_to_strategy",
			Target:   s.registry.Vault,
			Method:   "depositToStrategy",
			Args:     []interface{}{s.registry.Strategy.Address, liquid, []byte{}},
			GasLimit: builder.GasLimitVaultCall,
		},
	})
	if err != nil {
		return &DepositOutcome{Amount: liquid, Result: result}, err
	}

	return &DepositOutcome{Amount: liquid, Result: result}, nil
}

// SimulateYieldHarvest mints USDC to the agent, approves the VRF strategy and
// deposits the amount as yield. The three transactions run strictly in order,
// each gated on the previous receipt: approve needs the minted balance and
// depositYield needs the allowance.
func (s *service) SimulateYieldHarvest(ctx context.Context, amount decimal.Decimal) (*pipeline.SequenceResult, error) {
	if !amount.IsPositive() {
		return nil, errors.Wrapf(ErrNonPositiveAmount, "got %s", amount.String())
	}

	units := amount.Shift(USDCDecimals)
	if !units.IsInteger() {
		return nil, errors.Errorf("amount %s has more than %d decimal places", amount.String(), USDCDecimals)
	}
	baseUnits := units.BigInt()

	return s.pipeline.RunSequence(ctx, "simulate_yield_harvest", []pipeline.Step{
		{
			Name:     "mint_usdc",
			Target:   s.registry.USDC,
			Method:   "mint",
			Args:     []interface{}{s.agent, baseUnits},
			GasLimit: builder.GasLimitMint,
		},
		{
			Name:     "approve_strategy",
			Target:   s.registry.USDC,
			Method:   "approve",
			Args:     []interface{}{s.registry.Strategy.Address, baseUnits},
			GasLimit: builder.GasLimitApprove,
		},
		{
			Name:     "deposit_yield",
			Target:   s.registry.Strategy,
			Method:   "depositYield",
			Args:     []interface{}{baseUnits},
			GasLimit: builder.GasLimitDeposit,
		},
	})
}

// Rebalance moves funds across strategies in one vault call.
func (s *service) Rebalance(ctx context.Context, allocations []Allocation) (*pipeline.SequenceResult, error) {
	if len(allocations) == 0 {
		return nil, errors.New("at least one allocation is required")
	}

	targets := make([]common.Address, 0, len(allocations))
	amounts := make([]*big.Int, 0, len(allocations))
	for _, alloc := range allocations {
		if alloc.Amount == nil || alloc.Amount.Sign() <= 0 {
			return nil, errors.Wrapf(ErrNonPositiveAmount, "allocation for %s", alloc.Strategy.Hex())
		}
		targets = append(targets, alloc.Strategy)
		amounts = append(amounts, alloc.Amount)
	}

	return s.pipeline.RunSequence(ctx, "rebalance", []pipeline.Step{
		{
			Name:     "rebalance",
			Target:   s.registry.Vault,
			Method:   "rebalance",
			Args:     []interface{}{targets, amounts},
			GasLimit: builder.GasLimitVaultCall,
		},
	})
}

func (s *service) viewBigInt(ctx context.Context, binding *contract.Binding, method string, args ...interface{}) (*big.Int, error) {
	values, err := binding.View(ctx, s.reader, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, errors.Errorf("%s.%s returned %d values, want 1", binding.Name, method, len(values))
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("%s.%s did not return uint256", binding.Name, method)
	}
	return value, nil
}

func (s *service) viewAddress(ctx context.Context, binding *contract.Binding, method string, args ...interface{}) (common.Address, error) {
	values, err := binding.View(ctx, s.reader, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(values) != 1 {
		return common.Address{}, errors.Errorf("%s.%s returned %d values, want 1", binding.Name, method, len(values))
	}
	value, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("%s.%s did not return address", binding.Name, method)
	}
	return value, nil
}

// FormatUSDC renders base units as a human-readable token amount.
func FormatUSDC(baseUnits *big.Int) string {
	return decimal.NewFromBigInt(baseUnits, -USDCDecimals).String()
}
