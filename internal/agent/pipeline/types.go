package pipeline

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/prizevault/go-vault-agent/internal/contract"
)

// ChainBackend is the chain access the pipeline needs to build, broadcast and
// confirm transactions. *chain.Client satisfies it; tests substitute fakes.
type ChainBackend interface {
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// StepState tracks one step through its lifecycle.
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateSubmitted StepState = "submitted"
	StepStateConfirmed StepState = "confirmed"
	StepStateFailed    StepState = "failed"
)

// SequenceState tracks the whole ordered sequence.
type SequenceState string

const (
	SequenceStateRunning  SequenceState = "running"
	SequenceStateComplete SequenceState = "complete"
	SequenceStateAborted  SequenceState = "aborted"
)

// Step is one mutating contract call of a higher-level intent.
type Step struct {
	Name     string
	Target   *contract.Binding
	Method   string
	Args     []interface{}
	GasLimit uint64
}

// StepResult is the observed outcome of one step.
type StepResult struct {
	Name        string
	State       StepState
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Err         error
}

// SequenceResult reports a full orchestrated run, including partial progress
// when the sequence aborted mid-way. Earlier confirmed steps are on-chain
// commits; nothing rolls them back.
type SequenceResult struct {
	ID    string
	Name  string
	State SequenceState
	Steps []*StepResult
}

// ConfirmedSteps counts steps that reached a success receipt.
func (r *SequenceResult) ConfirmedSteps() int {
	n := 0
	for _, s := range r.Steps {
		if s.State == StepStateConfirmed {
			n++
		}
	}
	return n
}

// Service executes single transactions and ordered multi-step sequences
// against the chain.
type Service interface {
	// SubmitStep builds, signs, broadcasts and confirms one contract call.
	SubmitStep(ctx context.Context, step Step) (*StepResult, error)

	// RunSequence executes steps strictly in order, each one gated on the
	// previous step's success receipt. The first failure aborts the rest.
	// The returned result is populated even when err is non-nil.
	RunSequence(ctx context.Context, name string, steps []Step) (*SequenceResult, error)
}
