package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
)

// HTTPErrorHandlerConfig controls how much internal error detail leaks to
// clients.
type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
}

// HTTPErrorHandler normalizes every error flowing out of a handler into the
// structured HTTPError wire format.
func HTTPErrorHandler(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpError *httperrors.HTTPError

		switch e := err.(type) {
		case *httperrors.HTTPValidationError:
			code := int(*e.Code)
			if err := c.JSON(code, e); err != nil {
				log.Error().Err(err).Msg("Failed to write validation error response")
			}
			return
		case *httperrors.HTTPError:
			httpError = e
		case *echo.HTTPError:
			httpError = httperrors.NewFromEcho(e)
			if e.Internal != nil {
				httpError.Internal = e.Internal
			}
		default:
			httpError = httperrors.NewFromEcho(echo.ErrInternalServerError)
			httpError.Internal = err
		}

		code := int(*httpError.Code)

		if httpError.Internal != nil {
			log.Error().Err(httpError.Internal).Int("status", code).Msg("Request failed with internal error")

			if !config.HideInternalServerErrorDetails && httpError.Detail == "" {
				httpError.Detail = httpError.Internal.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				log.Error().Err(err).Msg("Failed to write error response")
			}
			return
		}

		if err := c.JSON(code, httpError); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
	}
}
