package signer

import (
	"context"

	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/agent/account"
	"github/prizevault/go-vault-agent/internal/agent/builder"
)

type service struct {
	account *account.Account
}

// NewService creates a signer bound to the agent account.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(acct *account.Account) (Service, error) {
	if acct == nil {
		return nil, errors.New("account is required")
	}

	return &service{account: acct}, nil
}

// SignTransaction signs an EIP-1559 transaction request
func (s *service) SignTransaction(ctx context.Context, req *builder.Request) (*SignedTx, error) {
	privateKey := s.account.PrivateKeyBytes()

	// Clear private key after use
	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	return s.signEIP1559Transaction(ctx, req, privateKey)
}
