package vault

import (
	"fmt"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/types"
	"github/prizevault/go-vault-agent/internal/util"
	vaultsvc "github/prizevault/go-vault-agent/internal/vault"

	pkgerrors "github.com/pkg/errors"
)

func PostDepositRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Vault.POST("/deposit", postDepositHandler(s))
}

// postDepositHandler moves the vault's idle USDC into the yield strategy.
// An empty vault is a successful no-op, not an error.
func postDepositHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		outcome, err := s.Vault.DepositIdleFunds(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Deposit of idle funds failed")

			if pkgerrors.Is(err, chain.ErrNoHealthyEndpoint) {
				return httperrors.ErrServiceUnavailableChain
			}
			if outcome != nil && outcome.Result != nil {
				response := api.SequenceResponseFromResult(outcome.Result, "Deposit failed")
				return util.ValidateAndReturn(c, api.StatusForSequence(outcome.Result, err), response)
			}
			return err
		}

		if outcome.NoOp {
			response := &types.SequenceResponse{
				Success: swag.Bool(true),
				Message: "Vault holds no idle USDC, nothing to deposit",
				NoOp:    true,
			}
			return util.ValidateAndReturn(c, http.StatusOK, response)
		}

		message := fmt.Sprintf("Deposited %s USDC into strategy", vaultsvc.FormatUSDC(outcome.Amount))
		response := api.SequenceResponseFromResult(outcome.Result, message)

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
