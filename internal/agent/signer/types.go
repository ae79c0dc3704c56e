package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/prizevault/go-vault-agent/internal/agent/builder"
)

// Service signs unsigned transaction requests with the agent's key.
type Service interface {
	// SignTransaction signs an EIP-1559 transaction request
	SignTransaction(ctx context.Context, req *builder.Request) (*SignedTx, error)
}

// SignedTx is a signed, broadcast-ready transaction.
type SignedTx struct {
	Raw  []byte // RLP-encoded signed transaction
	Hash common.Hash
	Tx   *types.Transaction
}
