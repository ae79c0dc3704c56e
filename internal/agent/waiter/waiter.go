package waiter

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/chain"
)

// ErrConfirmationTimeout means the wait expired before the transaction was
// mined. The transaction is NOT known to have failed; it may still confirm
// later, and callers must not assume otherwise.
var ErrConfirmationTimeout = errors.New("confirmation wait timed out, transaction may still confirm")

// ReceiptSource provides receipt lookups by transaction hash.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Waiter polls for a transaction receipt until it appears or a deadline
// elapses. There is no automatic retry after a timeout.
type Waiter struct {
	timeout      time.Duration
	pollInterval time.Duration
}

func New(timeout time.Duration, pollInterval time.Duration) *Waiter {
	return &Waiter{
		timeout:      timeout,
		pollInterval: pollInterval,
	}
}

// Wait blocks until the transaction is mined, the configured timeout elapses,
// or the context is cancelled. Transient lookup errors are retried within the
// deadline; the deadline itself is never extended.
func (w *Waiter) Wait(ctx context.Context, src ReceiptSource, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := src.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !chain.IsNotFound(err) {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, errors.Wrapf(ErrConfirmationTimeout, "tx %s (last lookup error: %v)", txHash.Hex(), lastErr)
			}
			return nil, errors.Wrapf(ErrConfirmationTimeout, "tx %s", txHash.Hex())
		case <-ticker.C:
		}
	}
}
