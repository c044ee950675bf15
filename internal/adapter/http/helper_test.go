package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"hr-leave-engine/internal/adapter/attachment"
	"hr-leave-engine/internal/adapter/middleware"
	"hr-leave-engine/internal/adapter/repository/memory"
	"hr-leave-engine/internal/domain/employee"
	leaveuc "hr-leave-engine/internal/usecase/leave"
	policyuc "hr-leave-engine/internal/usecase/policy"
)

const testSecret = "test-secret"

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

type testAPI struct {
	e       *echo.Echo
	store   *memory.Store
	uploads string
}

// newTestAPI mounts every route over a seeded in-memory store. Employees:
// E1 (F1, grade 2) and E2 (F2, grade 9).
func newTestAPI(t *testing.T, rdb redis.Cmdable) *testAPI {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	log := slog.New(slog.DiscardHandler)

	pu := policyuc.NewUsecase(s.Policies(), log)
	_, err := pu.Seed(ctx, "seed")
	require.NoError(t, err)
	require.NoError(t, s.Employees().Upsert(ctx, &employee.Employee{EmployeeID: "E1", FacilityID: "F1", GradeLevel: 2, IsActive: true}))
	require.NoError(t, s.Employees().Upsert(ctx, &employee.Employee{EmployeeID: "E2", FacilityID: "F2", GradeLevel: 9, IsActive: true}))

	lu := leaveuc.NewUsecase(leaveuc.Deps{
		Policies:  s.Policies(),
		Requests:  s.Requests(),
		Balances:  s.Balances(),
		Employees: s.Employees(),
		UoW:       s.UnitOfWork(),
		Logger:    log,
	})

	uploads := t.TempDir()
	e := newEchoWithValidator()
	Register(e, RouteDeps{
		Health:         NewHandler(),
		Policies:       NewPolicyHandler(pu),
		Leaves:         NewLeaveHandler(lu, attachment.NewDiskStore(uploads, "https://files.test", 1<<20)),
		JWTSecret:      testSecret,
		Redis:          rdb,
		IdempotencyTTL: time.Hour,
	})
	return &testAPI{e: e, store: s, uploads: uploads}
}

func token(t *testing.T, actorID, employeeID string, perms ...string) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, middleware.Actor{ID: actorID, EmployeeID: employeeID, Permissions: perms}, time.Hour)
	require.NoError(t, err)
	return tok
}

func hrToken(t *testing.T) string {
	return token(t, "hr-1", "", middleware.PermManageSettings, middleware.PermViewLeaveRequests)
}

func managerToken(t *testing.T) string {
	return token(t, "mgr-1", "", middleware.PermApproveLeave, middleware.PermViewLeaveRequests)
}

func e1Token(t *testing.T) string { return token(t, "u-e1", "E1") }

func e2Token(t *testing.T) string { return token(t, "u-e2", "E2") }

func (a *testAPI) do(t *testing.T, method, path, tok string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *APIError  `json:"error"`
	Errors  []APIError `json:"errors"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// dateIn is today+d as YYYY-MM-DD in UTC.
func dateIn(d int) string { return time.Now().UTC().AddDate(0, 0, d).Format(time.DateOnly) }
