package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// getHealthyHandler is the liveness probe. It only proves the process is
// serving requests; chain reachability is a readiness concern. Secured by the
// management secret since it is not meant for public consumption.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("mgmt-secret") != s.Config.Management.Secret {
			return echo.ErrUnauthorized
		}

		return c.String(http.StatusOK, "OK.")
	}
}
