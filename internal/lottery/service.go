package lottery

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/prizevault/go-vault-agent/internal/agent/builder"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
	"github/prizevault/go-vault-agent/internal/contract"
)

// ErrEmptyPrizePool rejects a draw when the strategy holds no yield. The
// check runs before anything is signed so no gas is wasted on a draw that
// cannot pay out.
var ErrEmptyPrizePool = errors.New("prize pool is empty, nothing to draw")

// Status is a point-in-time read of the lottery state.
type Status struct {
	PrizePool  *big.Int
	LastWinner common.Address
}

// DrawOutcome reports a completed draw and the winner read back afterwards.
type DrawOutcome struct {
	Winner common.Address
	Result *pipeline.SequenceResult
}

// Service runs the prize draw against the VRF yield strategy.
type Service interface {
	Status(ctx context.Context) (*Status, error)
	TriggerDraw(ctx context.Context) (*DrawOutcome, error)
}

type service struct {
	reader   contract.ChainReader
	registry *contract.Registry
	pipeline pipeline.Service
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(reader contract.ChainReader, registry *contract.Registry, pipe pipeline.Service) (Service, error) {
	if reader == nil || registry == nil || pipe == nil {
		return nil, errors.New("all lottery service dependencies are required")
	}

	return &service{
		reader:   reader,
		registry: registry,
		pipeline: pipe,
	}, nil
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	pool, err := s.prizePool(ctx)
	if err != nil {
		return nil, err
	}

	winner, err := s.lastWinner(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{PrizePool: pool, LastWinner: winner}, nil
}

// TriggerDraw harvests the VRF strategy, which selects a winner and pays the
// accumulated yield out. The draw is refused while the pool is empty; on
// success the winner is read back from the strategy.
func (s *service) TriggerDraw(ctx context.Context) (*DrawOutcome, error) {
	pool, err := s.prizePool(ctx)
	if err != nil {
		return nil, err
	}

	if pool.Sign() == 0 {
		log.Ctx(ctx).Warn().Msg("Draw refused, prize pool is empty")
		return nil, ErrEmptyPrizePool
	}

	result, err := s.pipeline.RunSequence(ctx, "lottery_draw", []pipeline.Step{
		{
			Name:     "harvest_strategy",
			Target:   s.registry.Vault,
			Method:   "harvestStrategy",
			Args:     []interface{}{s.registry.Strategy.Address, []byte{}},
			GasLimit: builder.GasLimitVaultCall,
		},
	})
	if err != nil {
		return &DrawOutcome{Result: result}, err
	}

	winner, err := s.lastWinner(ctx)
	if err != nil {
		return &DrawOutcome{Result: result}, errors.Wrap(err, "draw confirmed but winner lookup failed")
	}

	return &DrawOutcome{Winner: winner, Result: result}, nil
}

func (s *service) prizePool(ctx context.Context) (*big.Int, error) {
	values, err := s.registry.Strategy.View(ctx, s.reader, "getBalance")
	if err != nil {
		return nil, err
	}
	pool, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("getBalance did not return uint256")
	}
	return pool, nil
}

func (s *service) lastWinner(ctx context.Context) (common.Address, error) {
	values, err := s.registry.Strategy.View(ctx, s.reader, "lastWinner")
	if err != nil {
		return common.Address{}, err
	}
	winner, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("lastWinner did not return address")
	}
	return winner, nil
}
