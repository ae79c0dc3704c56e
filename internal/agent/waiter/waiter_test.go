package waiter_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/agent/waiter"
)

type stubReceiptSource struct {
	mu         sync.Mutex
	polls      int
	availAfter int
	receipt    *types.Receipt
	err        error
}

func (s *stubReceiptSource) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls++
	if s.err != nil {
		return nil, s.err
	}
	if s.polls >= s.availAfter {
		return s.receipt, nil
	}
	return nil, ethereum.NotFound
}

func TestWaitReturnsReceiptOnceMined(t *testing.T) {
	src := &stubReceiptSource{
		availAfter: 3,
		receipt: &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(12),
			GasUsed:     60_000,
		},
	}

	w := waiter.New(time.Second, time.Millisecond)
	receipt, err := w.Wait(context.Background(), src, common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, uint64(60_000), receipt.GasUsed)
	assert.GreaterOrEqual(t, src.polls, 3)
}

func TestWaitTimesOutWithoutReceipt(t *testing.T) {
	src := &stubReceiptSource{availAfter: 1 << 30}

	timeout := 50 * time.Millisecond
	w := waiter.New(timeout, time.Millisecond)

	start := time.Now()
	_, err := w.Wait(context.Background(), src, common.Hash{})
	elapsed := time.Since(start)

	require.ErrorIs(t, err, waiter.ErrConfirmationTimeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	// the wait must not extend past the deadline by more than scheduling slack
	assert.Less(t, elapsed, timeout+500*time.Millisecond)
}

func TestWaitSurfacesLastLookupError(t *testing.T) {
	src := &stubReceiptSource{err: errors.New("connection refused")}

	w := waiter.New(30*time.Millisecond, time.Millisecond)
	_, err := w.Wait(context.Background(), src, common.Hash{})

	require.ErrorIs(t, err, waiter.ErrConfirmationTimeout)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	src := &stubReceiptSource{availAfter: 1 << 30}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	w := waiter.New(time.Minute, time.Millisecond)
	start := time.Now()
	_, err := w.Wait(ctx, src, common.Hash{})

	require.ErrorIs(t, err, waiter.ErrConfirmationTimeout)
	assert.Less(t, time.Since(start), time.Second)
}
