package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/i18n"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *APIError  `json:"error,omitempty"`
	Errors    []APIError `json:"errors,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

type APIError struct {
	Kind    errs.Kind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, Envelope{Success: true, Data: data, RequestID: requestID(c)})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k errs.Kind) int {
	switch {
	case k == errs.NotFoundKind || k == errs.PolicyNotFoundKind:
		return http.StatusNotFound
	case k == errs.AlreadyProcessedKind:
		return http.StatusConflict
	case k == errs.UnauthorizedKind:
		return http.StatusUnauthorized
	case k == errs.ForbiddenKind:
		return http.StatusForbidden
	case k.IsClientError():
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func localize(c echo.Context, list errs.List) []APIError {
	ctx := c.Request().Context()
	out := make([]APIError, 0, len(list))
	for _, e := range list {
		out = append(out, APIError{Kind: e.Kind, Field: e.Field, Message: i18n.Error(ctx, e)})
	}
	return out
}

// fail renders err. Unclassified errors are logged and hidden behind a
// generic message.
func fail(c echo.Context, err error) error {
	ctx := c.Request().Context()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		err = fromValidator(ve)
	}

	var list errs.List
	if !errors.As(err, &list) {
		var e *errs.Error
		if !errors.As(err, &e) {
			slog.ErrorContext(ctx, "unhandled error", "err", err, "path", c.Path(), "requestId", requestID(c))
			e = errs.New(errs.InternalKind, "internal error")
		}
		list = errs.List{e}
	}

	body := Envelope{RequestID: requestID(c)}
	body.Errors = localize(c, list)
	body.Error = &body.Errors[0]
	code := StatusOf(list[0].Kind)
	if code >= http.StatusInternalServerError {
		body.Errors = nil
	}
	return c.JSON(code, body)
}

func badRequestErr(field, msg string) *errs.Error {
	return errs.Field(errs.ValidationKind, field, msg)
}

func forbiddenErr() *errs.Error { return errs.New(errs.ForbiddenKind, "not allowed") }

func badRequest(c echo.Context, field, msg string) error {
	return fail(c, badRequestErr(field, msg))
}

func forbidden(c echo.Context) error { return fail(c, forbiddenErr()) }
