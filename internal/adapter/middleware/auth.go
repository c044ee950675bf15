package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	PermManageSettings    = "manage_settings"
	PermSubmitLeave       = "submit_leave"
	PermViewLeaveRequests = "view_leave_requests"
	PermApproveLeave      = "approve_leave"
)

const actorKey = "actor"

// Claims are carried in the bearer token. Subject is the actor id.
type Claims struct {
	EmployeeID  string   `json:"employeeId"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller.
type Actor struct {
	ID          string
	EmployeeID  string
	Permissions []string
}

func (a Actor) Has(perm string) bool { return slices.Contains(a.Permissions, perm) }

// IsSelf reports whether employeeID belongs to the caller.
func (a Actor) IsSelf(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

func IssueToken(secret string, a Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		EmployeeID:  a.EmployeeID,
		Permissions: a.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth requires a valid HS256 bearer token and stores the Actor on the context.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return fail(c, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			}
			claims, err := ParseToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return fail(c, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			}
			c.Set(actorKey, Actor{ID: claims.Subject, EmployeeID: claims.EmployeeID, Permissions: claims.Permissions})
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorKey).(Actor)
	return a, ok
}

// RequirePermission passes callers holding any of perms.
func RequirePermission(perms ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return fail(c, http.StatusUnauthorized, "Unauthorized", "authentication required")
			}
			for _, p := range perms {
				if a.Has(p) {
					return next(c)
				}
			}
			return fail(c, http.StatusForbidden, "Forbidden", "missing permission: "+strings.Join(perms, " or "))
		}
	}
}

// fail writes the standard error envelope.
func fail(c echo.Context, code int, kind, msg string) error {
	return c.JSON(code, map[string]any{
		"success":   false,
		"error":     map[string]string{"kind": kind, "message": msg},
		"requestId": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
