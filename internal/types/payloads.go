package types

import (
	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
)

// PostHarvestPayload requests a simulated yield harvest.
type PostHarvestPayload struct {
	// Human-readable USDC amount, e.g. "150.50"
	Amount *string `json:"amount"`
}

func (p *PostHarvestPayload) Validate(_ strfmt.Registry) error {
	if swag.StringValue(p.Amount) == "" {
		return openapierrors.Required("amount", "body", nil)
	}
	return nil
}

// RebalanceAllocationPayload is one (strategy, amount) target of a rebalance.
type RebalanceAllocationPayload struct {
	// Strategy name from the configured strategy set, or a hex address
	Strategy *string `json:"strategy"`
	// Human-readable USDC amount
	Amount *string `json:"amount"`
}

func (p *RebalanceAllocationPayload) Validate(_ strfmt.Registry) error {
	res := make([]error, 0, 2)
	if swag.StringValue(p.Strategy) == "" {
		res = append(res, openapierrors.Required("strategy", "body", nil))
	}
	if swag.StringValue(p.Amount) == "" {
		res = append(res, openapierrors.Required("amount", "body", nil))
	}
	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// PostRebalancePayload requests an explicit multi-strategy rebalance.
type PostRebalancePayload struct {
	Allocations []*RebalanceAllocationPayload `json:"allocations"`
}

func (p *PostRebalancePayload) Validate(formats strfmt.Registry) error {
	if len(p.Allocations) == 0 {
		return openapierrors.Required("allocations", "body", nil)
	}

	res := make([]error, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		if a == nil {
			res = append(res, openapierrors.Required("allocations", "body", nil))
			continue
		}
		if err := a.Validate(formats); err != nil {
			res = append(res, err)
		}
	}
	if len(res) > 0 {
		return openapierrors.CompositeValidationError(res...)
	}
	return nil
}

// PostCommandPayload carries a free-text agent command.
type PostCommandPayload struct {
	Command *string `json:"command"`
}

func (p *PostCommandPayload) Validate(_ strfmt.Registry) error {
	if swag.StringValue(p.Command) == "" {
		return openapierrors.Required("command", "body", nil)
	}
	return nil
}

// SequenceStepResult reports the outcome of a single orchestrated step.
type SequenceStepResult struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	TxHash      string `json:"txHash,omitempty"`
	BlockNumber int64  `json:"blockNumber,omitempty"`
	GasUsed     int64  `json:"gasUsed,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SequenceResponse reports a full orchestrated submission, including partial
// progress ("2 of 3 confirmed") when a later step failed.
type SequenceResponse struct {
	Success        *bool                 `json:"success"`
	SequenceID     string                `json:"sequenceId,omitempty"`
	Message        string                `json:"message"`
	NoOp           bool                  `json:"noOp,omitempty"`
	ConfirmedSteps int64                 `json:"confirmedSteps"`
	TotalSteps     int64                 `json:"totalSteps"`
	Steps          []*SequenceStepResult `json:"steps,omitempty"`
}

func (r *SequenceResponse) Validate(_ strfmt.Registry) error {
	if r.Success == nil {
		return openapierrors.Required("success", "body", nil)
	}
	return nil
}

// VaultStatusResponse is the protocol status snapshot.
type VaultStatusResponse struct {
	AgentAddress    *string `json:"agentAddress"`
	VaultLiquidUSDC *string `json:"vaultLiquidUsdc"`
	TotalAssetsUSDC *string `json:"totalAssetsUsdc"`
	PrizePoolUSDC   *string `json:"prizePoolUsdc"`
	LastWinner      *string `json:"lastWinner"`
}

func (r *VaultStatusResponse) Validate(_ strfmt.Registry) error {
	if r.VaultLiquidUSDC == nil || r.PrizePoolUSDC == nil {
		return openapierrors.Required("vaultLiquidUsdc", "body", nil)
	}
	return nil
}

// StrategyBalanceItem is one strategy's deployed balance.
type StrategyBalanceItem struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	BalanceUSDC string `json:"balanceUsdc"`
}

// GetStrategiesResponse lists deployed balances across configured strategies.
type GetStrategiesResponse struct {
	Strategies []*StrategyBalanceItem `json:"strategies"`
}

func (r *GetStrategiesResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// LotteryStatusResponse reports the prize pool and the last draw winner.
type LotteryStatusResponse struct {
	PrizePoolUSDC *string `json:"prizePoolUsdc"`
	LastWinner    *string `json:"lastWinner"`
}

func (r *LotteryStatusResponse) Validate(_ strfmt.Registry) error {
	if r.PrizePoolUSDC == nil {
		return openapierrors.Required("prizePoolUsdc", "body", nil)
	}
	return nil
}

// PostDrawResponse reports the outcome of a lottery draw trigger.
type PostDrawResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Winner  string `json:"winner,omitempty"`
	TxHash  string `json:"txHash,omitempty"`
	GasUsed int64  `json:"gasUsed,omitempty"`
}

func (r *PostDrawResponse) Validate(_ strfmt.Registry) error {
	if r.Success == nil {
		return openapierrors.Required("success", "body", nil)
	}
	return nil
}

// CommandResponse reports the planner's dispatched action and its output.
// Note is set when the action came from the fallback recommendation rather
// than a keyword match.
type CommandResponse struct {
	Success *bool  `json:"success"`
	Action  string `json:"action"`
	Output  string `json:"output"`
	Note    string `json:"note,omitempty"`
}

func (r *CommandResponse) Validate(_ strfmt.Registry) error {
	if r.Success == nil {
		return openapierrors.Required("success", "body", nil)
	}
	return nil
}
