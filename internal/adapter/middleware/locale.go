package middleware

import (
	"github.com/labstack/echo/v4"

	"hr-leave-engine/internal/i18n"
)

// Locale puts the best Accept-Language match on the request context.
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			loc := i18n.Match(req.Header.Get("Accept-Language"))
			c.SetRequest(req.WithContext(i18n.WithLocale(req.Context(), loc)))
			return next(c)
		}
	}
}
