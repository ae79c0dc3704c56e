package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/test"
)

func TestNewClientRequiresURLs(t *testing.T) {
	_, err := chain.NewClient(nil)
	require.Error(t, err)
}

func TestClientReadsThroughEndpoint(t *testing.T) {
	rc := test.NewRPCChain(t, 31337)

	client, err := chain.NewClient([]string{rc.URL()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(31337), chainID)

	blockNumber, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), blockNumber)

	header, err := client.HeaderByNumber(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), header.BaseFee)

	tipCap, err := client.SuggestGasTipCap(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_500_000_000), tipCap)
}

func TestClientFailsOverToHealthyEndpoint(t *testing.T) {
	rc := test.NewRPCChain(t, 31337)

	// first endpoint refuses connections, the second works
	client, err := chain.NewClient([]string{"http://127.0.0.1:1", rc.URL()})
	require.NoError(t, err)
	defer client.Close()

	blockNumber, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), blockNumber)
}

func TestClientExhaustsAllEndpoints(t *testing.T) {
	rc := test.NewRPCChain(t, 31337)
	url := rc.URL()
	rc.Server.Close()

	client, err := chain.NewClient([]string{url})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.BlockNumber(context.Background())
	require.ErrorIs(t, err, chain.ErrNoHealthyEndpoint)
}

func TestTransactionReceiptNotFoundPassesThrough(t *testing.T) {
	rc := test.NewRPCChain(t, 31337)

	client, err := chain.NewClient([]string{rc.URL()})
	require.NoError(t, err)
	defer client.Close()

	// unknown hashes must keep their not-found identity so the confirmation
	// poll can keep waiting instead of rotating endpoints
	_, err = client.TransactionReceipt(context.Background(), common.Hash{0x01})
	require.ErrorIs(t, err, ethereum.NotFound)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, chain.IsNotFound(ethereum.NotFound))
	assert.False(t, chain.IsNotFound(nil))

	assert.True(t, chain.IsNonceTooLow(chain.ErrNonceTooLow))
	assert.True(t, chain.IsNonceTooLow(errors.New("nonce too low: next nonce 7")))
	assert.False(t, chain.IsNonceTooLow(nil))

	assert.True(t, chain.IsExecutionReverted(errors.New("execution reverted: Vault: insufficient balance")))
	assert.False(t, chain.IsExecutionReverted(errors.New("connection refused")))
}
