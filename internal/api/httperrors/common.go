package httperrors

import (
	"net/http"

	"github/prizevault/go-vault-agent/internal/types"
)

var (
	ErrConflictEmptyPrizePool    = NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeGeneric, "Prize pool is empty, nothing to draw.")
	ErrBadRequestInvalidAmount   = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Amount must be a positive decimal number.")
	ErrBadRequestUnknownCommand  = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Command did not match any known action.")
	ErrBadRequestUnknownStrategy = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Unknown strategy name or address.")
	ErrServiceUnavailableChain   = NewHTTPError(http.StatusServiceUnavailable, types.HTTPErrorTypeChainUnavailable, "No healthy RPC endpoint could be reached.")
)
