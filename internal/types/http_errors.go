package types

// Public HTTP error types returned in the "type" field of structured errors.
const (
	PublicHTTPErrorTypeGeneric = "generic"

	// HTTPErrorTypeChainUnavailable indicates that no configured RPC endpoint could be reached.
	HTTPErrorTypeChainUnavailable = "CHAIN_UNAVAILABLE"
	// HTTPErrorTypeTransactionReverted indicates an on-chain revert; gas was consumed, state was not changed.
	HTTPErrorTypeTransactionReverted = "TRANSACTION_REVERTED"
	// HTTPErrorTypeConfirmationTimeout indicates the confirmation wait expired; the transaction may still confirm later.
	HTTPErrorTypeConfirmationTimeout = "CONFIRMATION_TIMEOUT"
	// HTTPErrorTypeSequenceAborted indicates a multi-step sequence stopped after a step failure.
	HTTPErrorTypeSequenceAborted = "SEQUENCE_ABORTED"
)

// HTTPValidationErrorDetail describes a single invalid request field.
type HTTPValidationErrorDetail struct {
	// JSON key of the invalid field
	Key *string `json:"key"`
	// Location of the field, e.g. "body" or "query"
	In *string `json:"in"`
	// Description of the violation
	Error *string `json:"error"`
}
