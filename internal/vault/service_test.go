package vault_test

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/agent/builder"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/contract"
	"github/prizevault/go-vault-agent/internal/vault"
)

var (
	vaultAddr    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	strategyAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	usdcAddr     = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	agentAddr    = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	winnerAddr   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func testRegistry(t *testing.T) *contract.Registry {
	t.Helper()

	registry, err := contract.NewRegistry(config.ChainProfile{
		VaultAddress:    vaultAddr,
		StrategyAddress: strategyAddr,
		USDCAddress:     usdcAddr,
	})
	require.NoError(t, err)

	return registry
}

// fakeReader answers view calls from a fixed protocol state.
type fakeReader struct {
	registry *contract.Registry

	vaultLiquid *big.Int
	totalAssets *big.Int
	prizePool   *big.Int
	lastWinner  common.Address
}

func (r *fakeReader) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	selectorOf := func(binding *contract.Binding, method string, args ...interface{}) []byte {
		data, err := binding.Pack(method, args...)
		if err != nil {
			panic(err)
		}
		return data[:4]
	}

	switch {
	case bytes.HasPrefix(msg.Data, selectorOf(r.registry.USDC, "balanceOf", common.Address{})):
		return common.LeftPadBytes(r.vaultLiquid.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, selectorOf(r.registry.Vault, "totalAssets")):
		return common.LeftPadBytes(r.totalAssets.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, selectorOf(r.registry.Strategy, "getBalance")):
		return common.LeftPadBytes(r.prizePool.Bytes(), 32), nil
	case bytes.HasPrefix(msg.Data, selectorOf(r.registry.Strategy, "lastWinner")):
		return common.LeftPadBytes(r.lastWinner.Bytes(), 32), nil
	}

	return nil, ethereum.NotFound
}

// fakePipeline records submitted sequences and confirms every step.
type fakePipeline struct {
	sequences []recordedSequence
	err       error
}

type recordedSequence struct {
	name  string
	steps []pipeline.Step
}

func (p *fakePipeline) SubmitStep(ctx context.Context, step pipeline.Step) (*pipeline.StepResult, error) {
	result, err := p.RunSequence(ctx, step.Name, []pipeline.Step{step})
	if err != nil {
		return nil, err
	}
	return result.Steps[0], nil
}

func (p *fakePipeline) RunSequence(_ context.Context, name string, steps []pipeline.Step) (*pipeline.SequenceResult, error) {
	p.sequences = append(p.sequences, recordedSequence{name: name, steps: steps})
	if p.err != nil {
		return nil, p.err
	}

	result := &pipeline.SequenceResult{
		ID:    "00000000-0000-0000-0000-000000000001",
		Name:  name,
		State: pipeline.SequenceStateComplete,
	}
	for _, step := range steps {
		result.Steps = append(result.Steps, &pipeline.StepResult{
			Name:    step.Name,
			State:   pipeline.StepStateConfirmed,
			GasUsed: 55_000,
		})
	}
	return result, nil
}

func newService(t *testing.T, reader *fakeReader, pipe *fakePipeline) vault.Service {
	t.Helper()

	svc, err := vault.NewService(reader, reader.registry, pipe, agentAddr)
	require.NoError(t, err)
	return svc
}

func defaultReader(t *testing.T) *fakeReader {
	return &fakeReader{
		registry:    testRegistry(t),
		vaultLiquid: big.NewInt(500_000_000),
		totalAssets: big.NewInt(1_250_000_000),
		prizePool:   big.NewInt(75_000_000),
		lastWinner:  winnerAddr,
	}
}

func TestStatusReadsAllViews(t *testing.T) {
	reader := defaultReader(t)
	svc := newService(t, reader, &fakePipeline{})

	status, err := svc.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, agentAddr, status.AgentAddress)
	assert.Equal(t, big.NewInt(500_000_000), status.VaultLiquid)
	assert.Equal(t, big.NewInt(1_250_000_000), status.TotalAssets)
	assert.Equal(t, big.NewInt(75_000_000), status.PrizePool)
	assert.Equal(t, winnerAddr, status.LastWinner)
}

func TestDepositIdleFundsZeroBalanceIsNoOp(t *testing.T) {
	reader := defaultReader(t)
	reader.vaultLiquid = big.NewInt(0)
	pipe := &fakePipeline{}
	svc := newService(t, reader, pipe)

	outcome, err := svc.DepositIdleFunds(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.NoOp)
	assert.Nil(t, outcome.Result)
	// nothing was signed or submitted
	assert.Empty(t, pipe.sequences)
}

func TestDepositIdleFundsSubmitsFullBalance(t *testing.T) {
	reader := defaultReader(t)
	pipe := &fakePipeline{}
	svc := newService(t, reader, pipe)

	outcome, err := svc.DepositIdleFunds(context.Background())
	require.NoError(t, err)

	assert.False(t, outcome.NoOp)
	assert.Equal(t, big.NewInt(500_000_000), outcome.Amount)

	require.Len(t, pipe.sequences, 1)
	seq := pipe.sequences[0]
	assert.Equal(t, "deposit_idle_funds", seq.name)
	require.Len(t, seq.steps, 1)

	step := seq.steps[0]
	assert.Equal(t, reader.registry.Vault, step.Target)
	assert.Equal(t, "depositToStrategy", step.Method)
	assert.Equal(t, builder.GasLimitVaultCall, step.GasLimit)
	require.Len(t, step.Args, 3)
	assert.Equal(t, strategyAddr, step.Args[0])
	assert.Equal(t, big.NewInt(500_000_000), step.Args[1])
}

func TestSimulateYieldHarvestBuildsExactSequence(t *testing.T) {
	reader := defaultReader(t)
	pipe := &fakePipeline{}
	svc := newService(t, reader, pipe)

	result, err := svc.SimulateYieldHarvest(context.Background(), decimal.RequireFromString("150.50"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.ConfirmedSteps())

	require.Len(t, pipe.sequences, 1)
	seq := pipe.sequences[0]
	assert.Equal(t, "simulate_yield_harvest", seq.name)
	require.Len(t, seq.steps, 3)

	wantUnits := big.NewInt(150_500_000)

	mint := seq.steps[0]
	assert.Equal(t, "mint_usdc", mint.Name)
	assert.Equal(t, reader.registry.USDC, mint.Target)
	assert.Equal(t, "mint", mint.Method)
	assert.Equal(t, []interface{}{agentAddr, wantUnits}, mint.Args)
	assert.Equal(t, builder.GasLimitMint, mint.GasLimit)

	approve := seq.steps[1]
	assert.Equal(t, "approve_strategy", approve.Name)
	assert.Equal(t, reader.registry.USDC, approve.Target)
	assert.Equal(t, "approve", approve.Method)
	assert.Equal(t, []interface{}{strategyAddr, wantUnits}, approve.Args)
	assert.Equal(t, builder.GasLimitApprove, approve.GasLimit)

	deposit := seq.steps[2]
	assert.Equal(t, "deposit_yield", deposit.Name)
	assert.Equal(t, reader.registry.Strategy, deposit.Target)
	assert.Equal(t, "depositYield", deposit.Method)
	assert.Equal(t, []interface{}{wantUnits}, deposit.Args)
	assert.Equal(t, builder.GasLimitDeposit, deposit.GasLimit)
}

func TestSimulateYieldHarvestRejectsBadAmounts(t *testing.T) {
	svc := newService(t, defaultReader(t), &fakePipeline{})

	_, err := svc.SimulateYieldHarvest(context.Background(), decimal.Zero)
	require.ErrorIs(t, err, vault.ErrNonPositiveAmount)

	_, err = svc.SimulateYieldHarvest(context.Background(), decimal.NewFromInt(-5))
	require.ErrorIs(t, err, vault.ErrNonPositiveAmount)

	// sub-base-unit precision cannot be represented on chain
	_, err = svc.SimulateYieldHarvest(context.Background(), decimal.RequireFromString("0.0000001"))
	require.Error(t, err)
}

func TestRebalanceBuildsArrays(t *testing.T) {
	reader := defaultReader(t)
	pipe := &fakePipeline{}
	svc := newService(t, reader, pipe)

	other := common.HexToAddress("0x8A791620dd6260079BF849Dc5567aDC3F2FdC318")

	_, err := svc.Rebalance(context.Background(), []vault.Allocation{
		{Strategy: strategyAddr, Amount: big.NewInt(100_000_000)},
		{Strategy: other, Amount: big.NewInt(50_000_000)},
	})
	require.NoError(t, err)

	require.Len(t, pipe.sequences, 1)
	step := pipe.sequences[0].steps[0]
	assert.Equal(t, "rebalance", step.Method)
	assert.Equal(t, reader.registry.Vault, step.Target)
	require.Len(t, step.Args, 2)
	assert.Equal(t, []common.Address{strategyAddr, other}, step.Args[0])
	assert.Equal(t, []*big.Int{big.NewInt(100_000_000), big.NewInt(50_000_000)}, step.Args[1])
}

func TestRebalanceRejectsEmptyAndNonPositive(t *testing.T) {
	svc := newService(t, defaultReader(t), &fakePipeline{})

	_, err := svc.Rebalance(context.Background(), nil)
	require.Error(t, err)

	_, err = svc.Rebalance(context.Background(), []vault.Allocation{
		{Strategy: strategyAddr, Amount: big.NewInt(0)},
	})
	require.ErrorIs(t, err, vault.ErrNonPositiveAmount)
}

func TestFormatUSDC(t *testing.T) {
	assert.Equal(t, "150.5", vault.FormatUSDC(big.NewInt(150_500_000)))
	assert.Equal(t, "0", vault.FormatUSDC(big.NewInt(0)))
	assert.Equal(t, "0.000001", vault.FormatUSDC(big.NewInt(1)))
}
