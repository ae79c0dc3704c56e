package builder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/contract"
)

// Gas limits are explicit caller-supplied upper bounds; no estimation is
// performed. Values follow the deployed contracts' worst-case usage.
const (
	GasLimitMint      uint64 = 500_000
	GasLimitApprove   uint64 = 500_000
	GasLimitDeposit   uint64 = 1_000_000
	GasLimitVaultCall uint64 = 2_000_000
)

const eip1559FeeMultiplier = 2

// FeeSource provides the two chain reads a fee quote needs.
type FeeSource interface {
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Request is a fully specified unsigned transaction. It is immutable once
// built and self-contained: identical requests serialize to identical
// unsigned payloads.
type Request struct {
	ChainID              int64
	From                 common.Address
	To                   common.Address
	Value                *big.Int
	Nonce                uint64
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Data                 []byte
}

// Unsigned returns the EIP-1559 transaction for this request.
func (r *Request) Unsigned() *types.Transaction {
	to := r.To
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(r.ChainID),
		Nonce:     r.Nonce,
		GasTipCap: r.MaxPriorityFeePerGas,
		GasFeeCap: r.MaxFeePerGas,
		Gas:       r.GasLimit,
		To:        &to,
		Value:     r.Value,
		Data:      r.Data,
	})
}

// FeeQuote is a point-in-time EIP-1559 fee reading.
type FeeQuote struct {
	TipCap *big.Int
	MaxFee *big.Int
}

// Builder turns contract calls into unsigned transaction requests for one chain.
type Builder struct {
	chainID int64
}

func New(chainID int64) *Builder {
	return &Builder{chainID: chainID}
}

// QuoteFees reads the current tip cap and base fee and applies the
// maxFee = baseFee*2 + tipCap policy, which survives one full base fee
// doubling while the transaction is pending.
func (b *Builder) QuoteFees(ctx context.Context, src FeeSource) (*FeeQuote, error) {
	tipCap, err := src.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}

	header, err := src.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}
	if header.BaseFee == nil {
		return nil, errors.New("chain does not support EIP-1559 (baseFee is nil)")
	}

	maxFee := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(eip1559FeeMultiplier)), tipCap)

	return &FeeQuote{TipCap: tipCap, MaxFee: maxFee}, nil
}

// Build encodes a mutating contract call into an unsigned request. View
// methods are rejected: they never need a transaction.
func (b *Builder) Build(
	binding *contract.Binding,
	method string,
	args []interface{},
	from common.Address,
	nonce uint64,
	gasLimit uint64,
	quote *FeeQuote,
) (*Request, error) {
	isView, err := binding.IsView(method)
	if err != nil {
		return nil, err
	}
	if isView {
		return nil, errors.Errorf("%s.%s is a view method and needs no transaction", binding.Name, method)
	}

	data, err := binding.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	return &Request{
		ChainID:              b.chainID,
		From:                 from,
		To:                   binding.Address,
		Value:                new(big.Int),
		Nonce:                nonce,
		GasLimit:             gasLimit,
		MaxFeePerGas:         new(big.Int).Set(quote.MaxFee),
		MaxPriorityFeePerGas: new(big.Int).Set(quote.TipCap),
		Data:                 data,
	}, nil
}
