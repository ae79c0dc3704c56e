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
)

func PostHarvestRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Vault.POST("/harvest", postHarvestHandler(s))
}

// postHarvestHandler mints the requested USDC amount to the agent, approves
// the strategy and deposits it as yield, as one receipt-gated sequence.
func postHarvestHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostHarvestPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		amount, err := decimal.NewFromString(swag.StringValue(body.Amount))
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

		result, err := s.Vault.SimulateYieldHarvest(ctx, amount)
		if err != nil {
			log.Error().Err(err).Str("amount", amount.String()).Msg("Yield harvest sequence failed")

			if result != nil {
				response := api.SequenceResponseFromResult(result, "Yield harvest failed")
				return util.ValidateAndReturn(c, api.StatusForSequence(result, err), response)
			}
			return httperrors.ErrBadRequestInvalidAmount
		}

		message := fmt.Sprintf("Harvested %s USDC of simulated yield", amount.String())
		response := api.SequenceResponseFromResult(result, message)

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
