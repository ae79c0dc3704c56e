package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/planner"
)

func TestResolveActions(t *testing.T) {
	svc := planner.NewService()

	tests := []struct {
		command string
		want    planner.Action
	}{
		{"show me the protocol status", planner.ActionStatus},
		{"what's the current balance?", planner.ActionStatus},
		{"deposit idle funds into the strategy", planner.ActionDeposit},
		{"sweep the vault", planner.ActionDeposit},
		{"trigger the lottery draw", planner.ActionDraw},
		{"pick a winner", planner.ActionDraw},
		{"simulate a yield harvest", planner.ActionHarvest},
		{"rebalance the vault", planner.ActionRebalance},
		{"rebalance across strategies", planner.ActionRebalance},
		{"reallocate funds", planner.ActionRebalance},
		{"list strategy balances", planner.ActionStrategies},
	}

	for _, tc := range tests {
		plan, err := svc.Resolve(tc.command)
		require.NoError(t, err, tc.command)
		assert.Equal(t, tc.want, plan.Action, tc.command)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	svc := planner.NewService()

	first, err := svc.Resolve("harvest 42.5 USDC of yield")
	require.NoError(t, err)
	second, err := svc.Resolve("harvest 42.5 USDC of yield")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveHarvestAmountExtraction(t *testing.T) {
	svc := planner.NewService()

	plan, err := svc.Resolve("harvest 42.5 USDC of yield")
	require.NoError(t, err)
	assert.True(t, plan.Amount.Equal(decimal.RequireFromString("42.5")))

	// no amount named: the default applies
	plan, err = svc.Resolve("run a yield harvest")
	require.NoError(t, err)
	assert.True(t, plan.Amount.Equal(planner.DefaultHarvestAmount))
}

func TestResolveHarvestWinsOverDraw(t *testing.T) {
	svc := planner.NewService()

	plan, err := svc.Resolve("harvest yield and then draw the lottery")
	require.NoError(t, err)
	assert.Equal(t, planner.ActionHarvest, plan.Action)
}

func TestResolveFallbackRecommendation(t *testing.T) {
	svc := planner.NewService()

	// no keyword matches: the planner recommends the default weekly harvest
	plan, err := svc.Resolve("please do whatever is best this week")
	require.NoError(t, err)
	assert.Equal(t, planner.ActionHarvest, plan.Action)
	assert.True(t, plan.Amount.Equal(planner.DefaultHarvestAmount))
	assert.Equal(t, planner.FallbackNote, plan.Note)

	// keyword matches carry no note
	plan, err = svc.Resolve("show me the protocol status")
	require.NoError(t, err)
	assert.Empty(t, plan.Note)
}

func TestResolveEmptyCommand(t *testing.T) {
	svc := planner.NewService()

	_, err := svc.Resolve("")
	require.ErrorIs(t, err, planner.ErrUnknownCommand)

	_, err = svc.Resolve("   ")
	require.ErrorIs(t, err, planner.ErrUnknownCommand)
}
