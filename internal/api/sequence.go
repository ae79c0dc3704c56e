package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
	"github/prizevault/go-vault-agent/internal/agent/waiter"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/types"
)

// SequenceResponseFromResult converts a pipeline run into its API payload.
// Aborted runs keep their partial step results so clients can see exactly
// which on-chain state changes already committed.
func SequenceResponseFromResult(result *pipeline.SequenceResult, message string) *types.SequenceResponse {
	response := &types.SequenceResponse{
		Success:        swag.Bool(result.State == pipeline.SequenceStateComplete),
		SequenceID:     result.ID,
		Message:        message,
		ConfirmedSteps: int64(result.ConfirmedSteps()),
		TotalSteps:     int64(len(result.Steps)),
		Steps:          make([]*types.SequenceStepResult, 0, len(result.Steps)),
	}

	for _, step := range result.Steps {
		item := &types.SequenceStepResult{
			Name:        step.Name,
			State:       string(step.State),
			BlockNumber: int64(step.BlockNumber),
			GasUsed:     int64(step.GasUsed),
		}
		if step.TxHash != (common.Hash{}) {
			item.TxHash = step.TxHash.Hex()
		}
		if step.Err != nil {
			item.Error = step.Err.Error()
		}
		response.Steps = append(response.Steps, item)
	}

	return response
}

// StatusForSubmissionError maps submission failures to response codes.
// Reverts and aborts are upstream contract failures, timeouts are gateway
// timeouts, endpoint exhaustion means the chain is unavailable.
func StatusForSubmissionError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, waiter.ErrConfirmationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, chain.ErrNoHealthyEndpoint):
		return http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrReverted), errors.Is(err, pipeline.ErrSequenceAborted):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// StatusForSequence classifies a sequence failure by the step that actually
// failed, which carries the original cause; the wrapped sequence error only
// says that the run aborted.
func StatusForSequence(result *pipeline.SequenceResult, err error) int {
	if err == nil {
		return http.StatusOK
	}

	if result != nil {
		for _, step := range result.Steps {
			if step.Err != nil {
				return StatusForSubmissionError(step.Err)
			}
		}
	}

	return StatusForSubmissionError(err)
}
