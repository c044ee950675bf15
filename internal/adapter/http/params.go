package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hr-leave-engine/internal/domain/errs"
)

// parseDate accepts a calendar date or an RFC3339 timestamp. Results are UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// queryInt returns nil when the parameter is absent.
func queryInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errs.Field(errs.ValidationKind, name, name+" must be an integer")
	}
	return &v, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.Field(errs.ValidationKind, name, name+" must be true or false")
	}
	return v, nil
}

// queryDate returns nil when the parameter is absent.
func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, errs.Field(errs.ValidationKind, name, name+" must be a date (YYYY-MM-DD) or RFC3339 timestamp")
	}
	return &t, nil
}
