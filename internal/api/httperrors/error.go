package httperrors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/prizevault/go-vault-agent/internal/types"
)

// HTTPError is the wire format for every failure the API returns. Handlers
// construct these instead of leaking internal error values to clients.
type HTTPError struct {
	Code           *int64                 `json:"code"`
	Type           *string                `json:"type"`
	Title          *string                `json:"title"`
	Detail         string                 `json:"detail,omitempty"`
	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  swag.Int64(int64(code)),
		Type:  swag.String(errorType),
		Title: swag.String(title),
	}
}

func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		Code:   swag.Int64(int64(code)),
		Type:   swag.String(errorType),
		Title:  swag.String(title),
		Detail: detail,
	}
}

func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, http.StatusText(e.Code))
}

// Validate implements the Validatable interface for go-openapi.
func (e *HTTPError) Validate(_ strfmt.Registry) error {
	return nil
}

func (e *HTTPError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "HTTPError %d (%s): %s", *e.Code, *e.Type, *e.Title)

	if len(e.Detail) > 0 {
		fmt.Fprintf(&builder, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&builder, ", %v", e.Internal)
	}
	if len(e.AdditionalData) > 0 {
		keys := make([]string, 0, len(e.AdditionalData))
		for k := range e.AdditionalData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		builder.WriteString(". Additional: ")
		for i, k := range keys {
			fmt.Fprintf(&builder, "%s=%v", k, e.AdditionalData[k])
			if i < len(keys)-1 {
				builder.WriteString(", ")
			}
		}
	}

	return builder.String()
}

// HTTPValidationError extends HTTPError with per-field validation failures.
type HTTPValidationError struct {
	HTTPError
	ValidationErrors []*types.HTTPValidationErrorDetail `json:"validationErrors"`
}

func NewHTTPValidationError(code int, errorType string, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		HTTPError: HTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
		ValidationErrors: validationErrors,
	}
}

func (e *HTTPValidationError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "HTTPValidationError %d (%s): %s", *e.Code, *e.Type, *e.Title)

	if len(e.Detail) > 0 {
		fmt.Fprintf(&builder, " - %s", e.Detail)
	}

	builder.WriteString(" - Validation: ")
	for i, ve := range e.ValidationErrors {
		fmt.Fprintf(&builder, "%s (in %s): %s", swag.StringValue(ve.Key), swag.StringValue(ve.In), swag.StringValue(ve.Error))
		if i < len(e.ValidationErrors)-1 {
			builder.WriteString(", ")
		}
	}

	return builder.String()
}
