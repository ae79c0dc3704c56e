package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/pkg/errors"
)

var (
	// ErrNoHealthyEndpoint means every configured RPC URL failed for the attempted call.
	ErrNoHealthyEndpoint = errors.New("no healthy RPC endpoint available")

	// ErrNonceTooLow means a transaction with an equal or higher nonce already
	// confirmed for the sender. The caller must re-sync the nonce and rebuild.
	ErrNonceTooLow = errors.New("nonce too low")
)

// IsNotFound reports whether the error is the node's "not found" answer,
// e.g. a receipt that has not been mined yet.
func IsNotFound(err error) bool {
	return errors.Is(err, ethereum.NotFound)
}

// IsNonceTooLow classifies the node's nonce rejection. Geth and its forks
// report this as a plain error string, so matching on the message is the only
// portable check.
func IsNonceTooLow(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNonceTooLow) || strings.Contains(err.Error(), "nonce too low")
}

// IsExecutionReverted classifies an eth_call revert.
func IsExecutionReverted(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "execution reverted")
}
