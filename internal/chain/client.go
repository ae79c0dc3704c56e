package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client wraps one or more JSON-RPC endpoints behind a single read/submit
// interface. Endpoints are tried in order starting at the last known healthy
// one; a failing endpoint is reconnected lazily on the next attempt.
type Client struct {
	urls    []string
	mu      sync.Mutex
	clients []*ethclient.Client
	current int
}

// NewClient dials all configured RPC URLs. Individual endpoints may be down
// at startup, but at least one must be reachable.
func NewClient(urls []string) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, len(urls))
	healthy := 0
	for i, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		healthy++
	}

	if healthy == 0 {
		return nil, errors.Wrap(ErrNoHealthyEndpoint, "failed to connect to any RPC node")
	}

	return &Client{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close closes all endpoint connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// ChainID returns the chain ID reported by the endpoint.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		chainID, err = cl.ChainID(ctx)
		return err
	})
	return chainID, err
}

// BlockNumber returns the latest mined block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var blockNumber uint64
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		blockNumber, err = cl.BlockNumber(ctx)
		return err
	})
	return blockNumber, err
}

// HeaderByNumber returns the header of the given block, or the latest header
// when number is nil. Used to read the current base fee.
func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		header, err = cl.HeaderByNumber(ctx, number)
		return err
	})
	return header, err
}

// PendingNonceAt returns the next nonce of the address, including pending transactions.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		nonce, err = cl.PendingNonceAt(ctx, address)
		return err
	})
	return nonce, err
}

// SuggestGasTipCap returns the node's suggested priority fee.
func (c *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var tipCap *big.Int
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		tipCap, err = cl.SuggestGasTipCap(ctx)
		return err
	})
	return tipCap, err
}

// BalanceAt returns the native balance of an address at the latest block.
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		balance, err = cl.BalanceAt(ctx, address, nil)
		return err
	})
	return balance, err
}

// CallContract executes a read-only contract call against the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var result []byte
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		result, err = cl.CallContract(ctx, msg, nil)
		return err
	})
	return result, err
}

// SendTransaction broadcasts a signed transaction through the current
// endpoint. Unlike the read paths this does not fail over: re-broadcasting the
// same signed bytes is safe, but the caller decides whether to retry.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	client, err := c.pinned()
	if err != nil {
		return err
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		if IsNonceTooLow(err) {
			return errors.Wrap(ErrNonceTooLow, err.Error())
		}
		return errors.Wrap(err, "failed to send transaction")
	}

	return nil
}

// TransactionReceipt returns the receipt of a mined transaction.
// ethereum.NotFound passes through untouched so callers can poll.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := c.do(ctx, func(cl *ethclient.Client) error {
		var err error
		receipt, err = cl.TransactionReceipt(ctx, txHash)
		return err
	})
	return receipt, err
}

// do runs fn against the endpoints starting at the last healthy one. Semantic
// errors (not-found, reverts) return immediately; transport errors rotate to
// the next endpoint.
func (c *Client) do(ctx context.Context, fn func(*ethclient.Client) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for i := 0; i < len(c.clients); i++ {
		idx := (c.current + i) % len(c.clients)

		if c.clients[idx] == nil {
			client, err := ethclient.Dial(c.urls[idx])
			if err != nil {
				lastErr = err
				continue
			}
			c.clients[idx] = client
		}

		err := fn(c.clients[idx])
		if err == nil || IsNotFound(err) || IsExecutionReverted(err) {
			c.current = idx
			return err
		}

		log.Warn().
			Str("url", c.urls[idx]).
			Err(err).
			Msg("RPC call failed, trying next endpoint")
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return errors.Wrapf(ErrNoHealthyEndpoint, "all endpoints failed: %v", lastErr)
}

// pinned returns the current endpoint without rotating.
func (c *Client) pinned() (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.current
	if c.clients[idx] == nil {
		client, err := ethclient.Dial(c.urls[idx])
		if err != nil {
			return nil, errors.Wrap(ErrNoHealthyEndpoint, err.Error())
		}
		c.clients[idx] = client
	}

	return c.clients[idx], nil
}
