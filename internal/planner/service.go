package planner

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Action is the operation a command resolves to.
type Action string

const (
	ActionStatus     Action = "status"
	ActionDeposit    Action = "deposit"
	ActionHarvest    Action = "harvest"
	ActionDraw       Action = "draw"
	ActionRebalance  Action = "rebalance"
	ActionStrategies Action = "strategies"
)

// DefaultHarvestAmount is used when a harvest command names no amount and by
// the fallback recommendation.
var DefaultHarvestAmount = decimal.NewFromInt(150)

// FallbackNote explains a plan that came from the fallback recommendation
// rather than a keyword match.
const FallbackNote = "no action matched the command, recommending the weekly 150 USDC simulated yield harvest"

// ErrUnknownCommand rejects commands with no resolvable text.
var ErrUnknownCommand = errors.New("command did not match any known action")

// Plan is the resolved intent of a free-form command.
type Plan struct {
	Action Action
	Amount decimal.Decimal
	Note   string
}

// Service resolves free-form operator commands into concrete actions using
// keyword rules. Matching is deliberately simple and deterministic; the same
// text always yields the same plan.
type Service interface {
	Resolve(command string) (*Plan, error)
}

type service struct{}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService() Service {
	return &service{}
}

var amountPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// Keyword groups are checked in order; the first group with a hit wins, so
// "harvest and draw" resolves to harvest.
var keywordActions = []struct {
	action   Action
	keywords []string
}{
	{ActionHarvest, []string{"harvest", "yield", "simulate"}},
	{ActionDraw, []string{"draw", "lottery", "winner", "raffle"}},
	{ActionRebalance, []string{"rebalance", "reallocate", "redistribute"}},
	{ActionDeposit, []string{"deposit", "idle", "sweep"}},
	{ActionStrategies, []string{"strategies", "strategy balances", "allocations"}},
	{ActionStatus, []string{"status", "balance", "overview", "state"}},
}

func (s *service) Resolve(command string) (*Plan, error) {
	text := strings.ToLower(strings.TrimSpace(command))
	if text == "" {
		return nil, errors.Wrap(ErrUnknownCommand, "empty command")
	}

	for _, group := range keywordActions {
		for _, keyword := range group.keywords {
			if !strings.Contains(text, keyword) {
				continue
			}

			plan := &Plan{Action: group.action}
			if group.action == ActionHarvest {
				plan.Amount = extractAmount(text)
			}
			return plan, nil
		}
	}

	// No keyword matched: recommend the default weekly harvest instead of
	// failing, so vague instructions still produce a useful action.
	return &Plan{
		Action: ActionHarvest,
		Amount: DefaultHarvestAmount,
		Note:   FallbackNote,
	}, nil
}

// extractAmount pulls the first number out of the command. Without one the
// default harvest amount applies.
func extractAmount(text string) decimal.Decimal {
	match := amountPattern.FindString(text)
	if match == "" {
		return DefaultHarvestAmount
	}

	amount, err := decimal.NewFromString(match)
	if err != nil || !amount.IsPositive() {
		return DefaultHarvestAmount
	}
	return amount
}
