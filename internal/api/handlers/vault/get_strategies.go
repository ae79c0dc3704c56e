package vault

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/types"
	"github/prizevault/go-vault-agent/internal/util"
	vaultsvc "github/prizevault/go-vault-agent/internal/vault"

	pkgerrors "github.com/pkg/errors"
)

func GetStrategiesRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Vault.GET("/strategies", getStrategiesHandler(s))
}

func getStrategiesHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		balances, err := s.Vault.StrategyBalances(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read strategy balances")
			if pkgerrors.Is(err, chain.ErrNoHealthyEndpoint) {
				return httperrors.ErrServiceUnavailableChain
			}
			return err
		}

		items := make([]*types.StrategyBalanceItem, 0, len(balances))
		for _, b := range balances {
			items = append(items, &types.StrategyBalanceItem{
				Name:        b.Name,
				Address:     b.Address.Hex(),
				BalanceUSDC: vaultsvc.FormatUSDC(b.Balance),
			})
		}

		// map iteration order is random, keep the response stable
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

		return util.ValidateAndReturn(c, http.StatusOK, &types.GetStrategiesResponse{Strategies: items})
	}
}
