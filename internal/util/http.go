package util

import (
	"net/http"

	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/api/httperrors"
	"github/prizevault/go-vault-agent/internal/types"
)

// BindAndValidateBody binds the request body to the given go-openapi payload
// and runs its validation, converting failures into a structured
// HTTPValidationError.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("failed to access default binder")
	}

	if err := binder.BindBody(c, v); err != nil {
		return err
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the given response payload and writes it as JSON.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		return err
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	var details []*types.HTTPValidationErrorDetail

	switch e := err.(type) {
	case *openapierrors.CompositeError:
		LogFromEchoContext(c).Debug().Errs("validation_errors", e.Errors).Msg("Payload did match schema, returning HTTPValidationError")
		details = formatValidationErrors(e.Errors)
	case *openapierrors.Validation:
		LogFromEchoContext(c).Debug().AnErr("validation_error", e).Msg("Payload did match schema, returning HTTPValidationError")
		details = []*types.HTTPValidationErrorDetail{
			{
				Key:   swag.String(e.Name),
				In:    swag.String(e.In),
				Error: swag.String(e.Error()),
			},
		}
	default:
		LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload, returning generic HTTPValidationError")
		details = []*types.HTTPValidationErrorDetail{
			{
				Key:   swag.String("body"),
				In:    swag.String("body"),
				Error: swag.String(err.Error()),
			},
		}
	}

	return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Payload validation failed", details)
}

func formatValidationErrors(errs []error) []*types.HTTPValidationErrorDetail {
	details := make([]*types.HTTPValidationErrorDetail, 0, len(errs))

	for _, err := range errs {
		switch e := err.(type) {
		case *openapierrors.Validation:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(e.Name),
				In:    swag.String(e.In),
				Error: swag.String(e.Error()),
			})
		case *openapierrors.CompositeError:
			details = append(details, formatValidationErrors(e.Errors)...)
		default:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String("unknown"),
				In:    swag.String("body"),
				Error: swag.String(err.Error()),
			})
		}
	}

	return details
}
