package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/handlers"
	"github/prizevault/go-vault-agent/internal/api/middleware"
)

// Init builds the echo instance, attaches the middleware stack and registers
// all routes on the server's route groups.
func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.HTTPErrorHandler = HTTPErrorHandler(HTTPErrorHandlerConfig{
		HideInternalServerErrorDetails: s.Config.Echo.HideInternalServerErrorDetails,
	})

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echomiddleware.Recover())
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echomiddleware.RequestID())
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level: requestLogLevel(s.Config.Logger.RequestLevel),
		}))
	}

	if s.Config.Echo.EnableMetricsMiddleware {
		s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "vault_agent_http",
			Registerer: s.Metrics.Registry,
		}))
		s.Echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: s.Metrics.Registry,
		}))
	}

	s.Router = &api.Router{
		Routes: nil, // filled by handlers.AttachAllRoutes(s)

		Root:         s.Echo.Group(""),
		Management:   s.Echo.Group("/-"),
		APIV1Vault:   s.Echo.Group("/api/v1/vault"),
		APIV1Lottery: s.Echo.Group("/api/v1/lottery"),
		APIV1Agent:   s.Echo.Group("/api/v1/agent"),
	}

	handlers.AttachAllRoutes(s)
}
