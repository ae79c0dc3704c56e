package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/api"
)

// Non-standard code signaling "not ready" to orchestrators without colliding
// with regular 5xx handler failures.
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler reports whether the server is fully initialized and able
// to serve requests.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
