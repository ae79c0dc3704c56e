package vault

import (
	"fmt"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	"github/prizevault/go-vault-agent/internal/types"
	"github/prizevault/go-vault-agent/internal/util"
	vaultsvc "github/prizevault/go-vault-agent/internal/vault"
)

func PostRebalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Vault.POST("/rebalance", postRebalanceHandler(s))
}

// postRebalanceHandler moves funds across strategies in one vault call.
// Strategies are referenced by configured name or hex address.
func postRebalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostRebalancePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		allocations := make([]vaultsvc.Allocation, 0, len(body.Allocations))
		for _, item := range body.Allocations {
			binding, err := s.Registry.StrategyByName(swag.StringValue(item.Strategy))
			if err != nil {
				return httperrors.NewHTTPValidationError(
					http.StatusBadRequest,
					types.PublicHTTPErrorTypeGeneric,
					"Unknown strategy",
					[]*types.HTTPValidationErrorDetail{
						{
							Key:   swag.String("strategy"),
							In:    swag.String("body"),
							Error: swag.String(err.Error()),
						},
					},
				)
			}

			amount, err := decimal.NewFromString(swag.StringValue(item.Amount))
			if err != nil || !amount.IsPositive() {
				return httperrors.NewHTTPValidationError(
					http.StatusBadRequest,
					types.PublicHTTPErrorTypeGeneric,
					"Invalid amount format",
					[]*types.HTTPValidationErrorDetail{
						{
							Key:   swag.String("amount"),
							In:    swag.String("body"),
							Error: swag.String("must be a positive decimal number"),
						},
					},
				)
			}

			// sub-base-unit precision cannot be represented on chain
			units := amount.Shift(vaultsvc.USDCDecimals)
			if !units.IsInteger() {
				return httperrors.NewHTTPValidationError(
					http.StatusBadRequest,
					types.PublicHTTPErrorTypeGeneric,
					"Invalid amount format",
					[]*types.HTTPValidationErrorDetail{
						{
							Key:   swag.String("amount"),
							In:    swag.String("body"),
							Error: swag.String(fmt.Sprintf("must not have more than %d decimal places", vaultsvc.USDCDecimals)),
						},
					},
				)
			}

			allocations = append(allocations, vaultsvc.Allocation{
				Strategy: binding.Address,
				Amount:   units.BigInt(),
			})
		}

		result, err := s.Vault.Rebalance(ctx, allocations)
		if err != nil {
			log.Error().Err(err).Int("allocations", len(allocations)).Msg("Rebalance failed")

			if result != nil {
				response := api.SequenceResponseFromResult(result, "Rebalance failed")
				return util.ValidateAndReturn(c, api.StatusForSequence(result, err), response)
			}
			return err
		}

		response := api.SequenceResponseFromResult(result, "Rebalance confirmed")

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
