package agent

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	lotterysvc "github/prizevault/go-vault-agent/internal/lottery"
	"github/prizevault/go-vault-agent/internal/planner"
	"github/prizevault/go-vault-agent/internal/types"
	"github/prizevault/go-vault-agent/internal/util"
	vaultsvc "github/prizevault/go-vault-agent/internal/vault"

	pkgerrors "github.com/pkg/errors"
)

func PostCommandRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Agent.POST("/command", postCommandHandler(s))
}

// postCommandHandler resolves a free-text operator command into one of the
// agent's actions and executes it.
func postCommandHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostCommandPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		plan, err := s.Planner.Resolve(swag.StringValue(body.Command))
		if err != nil {
			return httperrors.ErrBadRequestUnknownCommand
		}

		log.Info().Str("action", string(plan.Action)).Msg("Executing planned command")

		output, err := executePlan(c, s, plan)
		if err != nil {
			log.Error().Err(err).Str("action", string(plan.Action)).Msg("Planned command failed")

			response := &types.CommandResponse{
				Success: swag.Bool(false),
				Action:  string(plan.Action),
				Output:  err.Error(),
				Note:    plan.Note,
			}
			return util.ValidateAndReturn(c, api.StatusForSubmissionError(err), response)
		}

		response := &types.CommandResponse{
			Success: swag.Bool(true),
			Action:  string(plan.Action),
			Output:  output,
			Note:    plan.Note,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func executePlan(c echo.Context, s *api.Server, plan *planner.Plan) (string, error) {
	ctx := c.Request().Context()

	switch plan.Action {
	case planner.ActionStatus:
		status, err := s.Vault.Status(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"vault liquid: %s USDC, total assets: %s USDC, prize pool: %s USDC, last winner: %s",
			vaultsvc.FormatUSDC(status.VaultLiquid),
			vaultsvc.FormatUSDC(status.TotalAssets),
			vaultsvc.FormatUSDC(status.PrizePool),
			status.LastWinner.Hex(),
		), nil

	case planner.ActionDeposit:
		outcome, err := s.Vault.DepositIdleFunds(ctx)
		if err != nil {
			return "", err
		}
		if outcome.NoOp {
			return "vault holds no idle USDC, nothing to deposit", nil
		}
		return fmt.Sprintf("deposited %s USDC into strategy", vaultsvc.FormatUSDC(outcome.Amount)), nil

	case planner.ActionHarvest:
		result, err := s.Vault.SimulateYieldHarvest(ctx, plan.Amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("harvested %s USDC of simulated yield in %d transactions",
			plan.Amount.String(), result.ConfirmedSteps()), nil

	case planner.ActionDraw:
		outcome, err := s.Lottery.TriggerDraw(ctx)
		if err != nil {
			if pkgerrors.Is(err, lotterysvc.ErrEmptyPrizePool) {
				return "prize pool is empty, no draw performed", nil
			}
			return "", err
		}
		return fmt.Sprintf("lottery draw confirmed, winner: %s", outcome.Winner.Hex()), nil

	case planner.ActionRebalance:
		// a free-text command carries no allocation targets, so report the
		// current distribution and point at the explicit rebalance operation
		balances, err := s.Vault.StrategyBalances(ctx)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(balances))
		for _, b := range balances {
			parts = append(parts, fmt.Sprintf("%s: %s USDC", b.Name, vaultsvc.FormatUSDC(b.Balance)))
		}
		return fmt.Sprintf(
			"rebalancing needs explicit allocations, submit them to the vault rebalance operation; current distribution: %s",
			strings.Join(parts, ", "),
		), nil

	case planner.ActionStrategies:
		balances, err := s.Vault.StrategyBalances(ctx)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(balances))
		for _, b := range balances {
			parts = append(parts, fmt.Sprintf("%s: %s USDC", b.Name, vaultsvc.FormatUSDC(b.Balance)))
		}
		return strings.Join(parts, ", "), nil
	}

	return "", pkgerrors.Errorf("unhandled action %q", plan.Action)
}
