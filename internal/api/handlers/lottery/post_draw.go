package lottery

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	"github/prizevault/go-vault-agent/internal/chain"
	lotterysvc "github/prizevault/go-vault-agent/internal/lottery"
	"github/prizevault/go-vault-agent/internal/types"
	"github/prizevault/go-vault-agent/internal/util"

	pkgerrors "github.com/pkg/errors"
)

func PostDrawRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Lottery.POST("/draw", postDrawHandler(s))
}

// postDrawHandler triggers the prize draw. The draw is refused outright while
// the pool is empty, before anything is signed.
func postDrawHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		outcome, err := s.Lottery.TriggerDraw(ctx)
		if err != nil {
			if pkgerrors.Is(err, lotterysvc.ErrEmptyPrizePool) {
				return httperrors.ErrConflictEmptyPrizePool
			}

			log.Error().Err(err).Msg("Lottery draw failed")

			if pkgerrors.Is(err, chain.ErrNoHealthyEndpoint) {
				return httperrors.ErrServiceUnavailableChain
			}
			if outcome != nil && outcome.Result != nil {
				response := &types.PostDrawResponse{
					Success: swag.Bool(false),
					Message: "Draw transaction failed",
				}
				if len(outcome.Result.Steps) > 0 {
					step := outcome.Result.Steps[0]
					response.TxHash = step.TxHash.Hex()
					response.GasUsed = int64(step.GasUsed)
				}
				return util.ValidateAndReturn(c, api.StatusForSequence(outcome.Result, err), response)
			}
			return err
		}

		response := &types.PostDrawResponse{
			Success: swag.Bool(true),
			Message: "Lottery draw confirmed",
			Winner:  outcome.Winner.Hex(),
		}
		if len(outcome.Result.Steps) > 0 {
			step := outcome.Result.Steps[0]
			response.TxHash = step.TxHash.Hex()
			response.GasUsed = int64(step.GasUsed)
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
