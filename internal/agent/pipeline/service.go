package pipeline

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/prizevault/go-vault-agent/internal/agent/account"
	"github/prizevault/go-vault-agent/internal/agent/builder"
	"github/prizevault/go-vault-agent/internal/agent/signer"
	"github/prizevault/go-vault-agent/internal/agent/waiter"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/metrics"
)

var (
	// ErrReverted means the transaction was mined but its receipt reports
	// failure. On-chain state did not change beyond gas consumption.
	ErrReverted = errors.New("transaction reverted on-chain")

	// ErrSequenceAborted means a step failed and the remaining steps were
	// never submitted. Steps confirmed before the failure stay committed.
	ErrSequenceAborted = errors.New("sequence aborted after step failure")
)

type service struct {
	chain   ChainBackend
	account *account.Account
	builder *builder.Builder
	signer  signer.Service
	waiter  *waiter.Waiter
	metrics *metrics.Service
}

// NewService creates the transaction pipeline.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(
	backend ChainBackend,
	acct *account.Account,
	bld *builder.Builder,
	sgn signer.Service,
	wtr *waiter.Waiter,
	mtr *metrics.Service,
) (Service, error) {
	if backend == nil || acct == nil || bld == nil || sgn == nil || wtr == nil || mtr == nil {
		return nil, errors.New("all pipeline dependencies are required")
	}

	return &service{
		chain:   backend,
		account: acct,
		builder: bld,
		signer:  sgn,
		waiter:  wtr,
		metrics: mtr,
	}, nil
}

// SubmitStep runs one contract call through the full lifecycle:
// fee quote, nonce reservation, build, sign, broadcast, receipt wait.
// A broadcast failure returns the reserved nonce so the sequence stays
// gapless; a "nonce too low" rejection additionally forces a chain resync.
func (s *service) SubmitStep(ctx context.Context, step Step) (*StepResult, error) {
	result := &StepResult{
		Name:  step.Name,
		State: StepStatePending,
	}

	l := log.Ctx(ctx).With().
		Str("step", step.Name).
		Str("contract", step.Target.Name).
		Str("method", step.Method).
		Logger()

	quote, err := s.builder.QuoteFees(ctx, s.chain)
	if err != nil {
		result.State = StepStateFailed
		result.Err = err
		return result, errors.Wrap(err, "failed to quote fees")
	}

	nonce, err := s.account.NextNonce(ctx, s.chain)
	if err != nil {
		result.State = StepStateFailed
		result.Err = err
		return result, errors.Wrap(err, "failed to reserve nonce")
	}

	req, err := s.builder.Build(step.Target, step.Method, step.Args, s.account.Address(), nonce, step.GasLimit, quote)
	if err != nil {
		s.account.ReturnNonce(nonce)
		result.State = StepStateFailed
		result.Err = err
		return result, errors.Wrapf(err, "failed to build %s.%s", step.Target.Name, step.Method)
	}

	signed, err := s.signer.SignTransaction(ctx, req)
	if err != nil {
		s.account.ReturnNonce(nonce)
		result.State = StepStateFailed
		result.Err = err
		return result, errors.Wrap(err, "failed to sign transaction")
	}

	result.TxHash = signed.Hash

	if err := s.chain.SendTransaction(ctx, signed.Tx); err != nil {
		if errors.Is(err, chain.ErrNonceTooLow) {
			s.account.ResyncNonce()
		} else {
			s.account.ReturnNonce(nonce)
		}
		result.State = StepStateFailed
		result.Err = err
		return result, errors.Wrapf(err, "failed to broadcast tx %s", signed.Hash.Hex())
	}

	result.State = StepStateSubmitted
	s.metrics.TxSubmitted.Inc()

	l.Info().
		Str("tx_hash", signed.Hash.Hex()).
		Uint64("nonce", nonce).
		Uint64("gas_limit", step.GasLimit).
		Msg("Transaction broadcast, waiting for receipt")

	submittedAt := time.Now()

	receipt, err := s.waiter.Wait(ctx, s.chain, signed.Hash)
	if err != nil {
		if errors.Is(err, waiter.ErrConfirmationTimeout) {
			s.metrics.TxTimedOut.Inc()
		}
		result.State = StepStateFailed
		result.Err = err
		return result, err
	}

	s.metrics.ConfirmationSeconds.Observe(time.Since(submittedAt).Seconds())

	result.BlockNumber = receipt.BlockNumber.Uint64()
	result.GasUsed = receipt.GasUsed

	if receipt.Status != types.ReceiptStatusSuccessful {
		s.metrics.TxReverted.Inc()
		result.State = StepStateFailed
		result.Err = ErrReverted
		return result, errors.Wrapf(ErrReverted, "tx %s in block %d", signed.Hash.Hex(), receipt.BlockNumber.Uint64())
	}

	s.metrics.TxConfirmed.Inc()
	result.State = StepStateConfirmed

	l.Info().
		Str("tx_hash", signed.Hash.Hex()).
		Uint64("block_number", result.BlockNumber).
		Uint64("gas_used", result.GasUsed).
		Msg("Transaction confirmed")

	return result, nil
}

// RunSequence executes steps strictly in order. Each step is submitted only
// after the previous step's success receipt, so step N's state transitions are
// visible to step N+1. A failed or timed-out step aborts the remainder; steps
// already confirmed are not rolled back.
func (s *service) RunSequence(ctx context.Context, name string, steps []Step) (*SequenceResult, error) {
	result := &SequenceResult{
		ID:    uuid.New().String(),
		Name:  name,
		State: SequenceStateRunning,
		Steps: make([]*StepResult, 0, len(steps)),
	}

	l := log.Ctx(ctx).With().
		Str("sequence_id", result.ID).
		Str("sequence", name).
		Int("total_steps", len(steps)).
		Logger()

	l.Info().Msg("Starting sequence")

	for i, step := range steps {
		stepResult, err := s.SubmitStep(ctx, step)
		result.Steps = append(result.Steps, stepResult)

		if err != nil {
			result.State = SequenceStateAborted
			s.metrics.SequencesAborted.Inc()

			// Mark never-attempted steps so callers see the full plan.
			for _, skipped := range steps[i+1:] {
				result.Steps = append(result.Steps, &StepResult{
					Name:  skipped.Name,
					State: StepStatePending,
				})
			}

			l.Warn().
				Err(err).
				Str("failed_step", step.Name).
				Int("confirmed_steps", result.ConfirmedSteps()).
				Msg("Sequence aborted")

			return result, errors.Wrapf(ErrSequenceAborted, "step %q: %v", step.Name, err)
		}
	}

	result.State = SequenceStateComplete
	s.metrics.SequencesCompleted.Inc()

	l.Info().Msg("Sequence complete")

	return result, nil
}
