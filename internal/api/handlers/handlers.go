package handlers

import (
	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/handlers/agent"
	"github/prizevault/go-vault-agent/internal/api/handlers/common"
	"github/prizevault/go-vault-agent/internal/api/handlers/lottery"
	"github/prizevault/go-vault-agent/internal/api/handlers/vault"
)

// AttachAllRoutes attaches all registered routes to the server's route groups.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		vault.GetStatusRoute(s),
		vault.GetStrategiesRoute(s),
		vault.PostDepositRoute(s),
		vault.PostHarvestRoute(s),
		vault.PostRebalanceRoute(s),
		lottery.GetStatusRoute(s),
		lottery.PostDrawRoute(s),
		agent.PostCommandRoute(s),
	}
}
