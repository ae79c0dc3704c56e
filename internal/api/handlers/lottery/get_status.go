package lottery

import (
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

func GetStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Lottery.GET("/status", getStatusHandler(s))
}

func getStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		status, err := s.Lottery.Status(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read lottery status")
			if pkgerrors.Is(err, chain.ErrNoHealthyEndpoint) {
				return httperrors.ErrServiceUnavailableChain
			}
			return err
		}

		response := &types.LotteryStatusResponse{
			PrizePoolUSDC: swag.String(vaultsvc.FormatUSDC(status.PrizePool)),
			LastWinner:    swag.String(status.LastWinner.Hex()),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
