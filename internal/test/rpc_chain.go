package test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// RPCChain is an in-process JSON-RPC endpoint emulating the narrow slice of
// an EVM node the agent talks to. Transactions submitted to it are decoded
// and recorded so tests can assert on exactly what would have hit the wire.
type RPCChain struct {
	Server *httptest.Server

	mu sync.Mutex

	ChainID     int64
	BlockNumber uint64
	BaseFee     *big.Int
	TipCap      *big.Int

	// StartNonce seeds eth_getTransactionCount for every account.
	StartNonce uint64

	// ViewHandler answers eth_call. Tests register per-selector behavior here.
	ViewHandler func(to common.Address, data []byte) ([]byte, error)

	// RevertAll mines every subsequent transaction with a failure receipt.
	RevertAll bool

	// WithholdReceipts makes eth_getTransactionReceipt always report not
	// found, so confirmation waits run into their timeout.
	WithholdReceipts bool

	// RejectNextSend fails the next eth_sendRawTransaction with this message.
	RejectNextSend string

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	accepted uint64
}

// NewRPCChain starts the stub endpoint. The caller owns the returned server
// via t.Cleanup.
func NewRPCChain(t *testing.T, chainID int64) *RPCChain {
	t.Helper()

	c := &RPCChain{
		ChainID:     chainID,
		BlockNumber: 100,
		BaseFee:     big.NewInt(1_000_000_000),
		TipCap:      big.NewInt(1_500_000_000),
		receipts:    map[common.Hash]*types.Receipt{},
	}

	c.Server = httptest.NewServer(http.HandlerFunc(c.handle))
	t.Cleanup(c.Server.Close)

	return c
}

// URL returns the endpoint address for ethclient.Dial.
func (c *RPCChain) URL() string {
	return c.Server.URL
}

// SentTransactions returns the decoded transactions in submission order.
func (c *RPCChain) SentTransactions() []*types.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*types.Transaction, len(c.sent))
	copy(out, c.sent)
	return out
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (c *RPCChain) handle(w http.ResponseWriter, r *http.Request) {
	body := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := body.Decode(&raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// ethclient issues both single and batch requests
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var reqs []rpcRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		responses := make([]json.RawMessage, 0, len(reqs))
		for _, req := range reqs {
			responses = append(responses, c.dispatch(req))
		}
		writeJSON(w, responses)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(c.dispatch(req))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (c *RPCChain) dispatch(req rpcRequest) json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, rpcErr := c.invoke(req)
	if rpcErr != "" {
		return mustMarshal(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32000, "message": rpcErr},
		})
	}

	return mustMarshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

//nolint:gocyclo // method dispatch table
func (c *RPCChain) invoke(req rpcRequest) (interface{}, string) {
	switch req.Method {
	case "eth_chainId":
		return hexutil.EncodeBig(big.NewInt(c.ChainID)), ""

	case "net_version":
		return fmt.Sprintf("%d", c.ChainID), ""

	case "eth_blockNumber":
		return hexutil.EncodeUint64(c.BlockNumber), ""

	case "eth_getBlockByNumber":
		return c.headerJSON(), ""

	case "eth_gasPrice":
		return hexutil.EncodeBig(new(big.Int).Add(c.BaseFee, c.TipCap)), ""

	case "eth_maxPriorityFeePerGas":
		return hexutil.EncodeBig(c.TipCap), ""

	case "eth_getTransactionCount":
		return hexutil.EncodeUint64(c.StartNonce + c.accepted), ""

	case "eth_call":
		return c.handleCall(req.Params)

	case "eth_sendRawTransaction":
		return c.handleSendRaw(req.Params)

	case "eth_getTransactionReceipt":
		return c.handleGetReceipt(req.Params)

	default:
		return nil, fmt.Sprintf("method %s not supported by stub", req.Method)
	}
}

func (c *RPCChain) headerJSON() map[string]interface{} {
	return map[string]interface{}{
		"parentHash":       common.Hash{}.Hex(),
		"sha3Uncles":       types.EmptyUncleHash.Hex(),
		"miner":            common.Address{}.Hex(),
		"stateRoot":        types.EmptyRootHash.Hex(),
		"transactionsRoot": types.EmptyRootHash.Hex(),
		"receiptsRoot":     types.EmptyRootHash.Hex(),
		"logsBloom":        hexutil.Encode(make([]byte, 256)),
		"difficulty":       "0x0",
		"number":           hexutil.EncodeUint64(c.BlockNumber),
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x0",
		"timestamp":        "0x64",
		"extraData":        "0x",
		"mixHash":          common.Hash{}.Hex(),
		"nonce":            "0x0000000000000000",
		"baseFeePerGas":    hexutil.EncodeBig(c.BaseFee),
		"hash":             common.BytesToHash([]byte{0xbb}).Hex(),
	}
}

func (c *RPCChain) handleCall(params []json.RawMessage) (interface{}, string) {
	if len(params) < 1 {
		return nil, "missing call params"
	}

	var msg struct {
		To    *common.Address `json:"to"`
		Data  hexutil.Bytes   `json:"data"`
		Input hexutil.Bytes   `json:"input"`
	}
	if err := json.Unmarshal(params[0], &msg); err != nil {
		return nil, err.Error()
	}
	if msg.To == nil {
		return nil, "contract creation calls not supported"
	}

	if c.ViewHandler == nil {
		return nil, "no view handler registered"
	}

	// ethclient >= v1.14 sends call data as "input"; older versions used "data".
	data := msg.Data
	if len(data) == 0 {
		data = msg.Input
	}

	result, err := c.ViewHandler(*msg.To, data)
	if err != nil {
		return nil, err.Error()
	}

	return hexutil.Encode(result), ""
}

func (c *RPCChain) handleSendRaw(params []json.RawMessage) (interface{}, string) {
	if len(params) < 1 {
		return nil, "missing raw transaction"
	}

	var raw hexutil.Bytes
	if err := json.Unmarshal(params[0], &raw); err != nil {
		return nil, err.Error()
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err.Error()
	}

	if c.RejectNextSend != "" {
		msg := c.RejectNextSend
		c.RejectNextSend = ""
		return nil, msg
	}

	expected := c.StartNonce + c.accepted
	if tx.Nonce() < expected {
		return nil, "nonce too low"
	}

	c.sent = append(c.sent, tx)
	c.accepted++
	c.BlockNumber++

	status := types.ReceiptStatusSuccessful
	if c.RevertAll {
		status = types.ReceiptStatusFailed
	}

	c.receipts[tx.Hash()] = &types.Receipt{
		Type:              tx.Type(),
		Status:            status,
		CumulativeGasUsed: 60_000,
		Bloom:             types.Bloom{},
		Logs:              []*types.Log{},
		TxHash:            tx.Hash(),
		GasUsed:           60_000,
		EffectiveGasPrice: new(big.Int).Add(c.BaseFee, c.TipCap),
		BlockHash:         common.BytesToHash([]byte{0xbb}),
		BlockNumber:       new(big.Int).SetUint64(c.BlockNumber),
		TransactionIndex:  0,
	}

	return tx.Hash().Hex(), ""
}

func (c *RPCChain) handleGetReceipt(params []json.RawMessage) (interface{}, string) {
	if len(params) < 1 {
		return nil, "missing transaction hash"
	}

	var hash common.Hash
	if err := json.Unmarshal(params[0], &hash); err != nil {
		return nil, err.Error()
	}

	if c.WithholdReceipts {
		return nil, ""
	}

	receipt, ok := c.receipts[hash]
	if !ok {
		return nil, ""
	}

	return receiptJSON(receipt), ""
}

func receiptJSON(r *types.Receipt) map[string]interface{} {
	return map[string]interface{}{
		"type":              hexutil.EncodeUint64(uint64(r.Type)),
		"status":            hexutil.EncodeUint64(r.Status),
		"cumulativeGasUsed": hexutil.EncodeUint64(r.CumulativeGasUsed),
		"logsBloom":         hexutil.Encode(r.Bloom.Bytes()),
		"logs":              []interface{}{},
		"transactionHash":   r.TxHash.Hex(),
		"contractAddress":   nil,
		"gasUsed":           hexutil.EncodeUint64(r.GasUsed),
		"effectiveGasPrice": hexutil.EncodeBig(r.EffectiveGasPrice),
		"blockHash":         r.BlockHash.Hex(),
		"blockNumber":       hexutil.EncodeBig(r.BlockNumber),
		"transactionIndex":  hexutil.EncodeUint64(uint64(r.TransactionIndex)),
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Uint256Result ABI-encodes a single uint256 return value.
func Uint256Result(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}

// AddressResult ABI-encodes a single address return value.
func AddressResult(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

// Selector returns the first four bytes of call data, the method selector.
func Selector(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	return hexutil.Encode(data[:4])
}
