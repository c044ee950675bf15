package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"hr-leave-engine/internal/adapter/middleware"
)

type RouteDeps struct {
	Health         *Handler
	Policies       *PolicyHandler
	Leaves         *LeaveHandler
	JWTSecret      string
	Redis          redis.Cmdable // nil disables idempotency keys
	IdempotencyTTL time.Duration
}

// Register mounts health probes and the /api groups on e.
func Register(e *echo.Echo, d RouteDeps) {
	e.GET("/health", d.Health.Health)
	e.GET("/ready", d.Health.Ready)

	api := e.Group("/api", middleware.Locale(), middleware.Auth(d.JWTSecret))
	manage := middleware.RequirePermission(middleware.PermManageSettings)
	view := middleware.RequirePermission(middleware.PermViewLeaveRequests)

	idem := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.Redis != nil {
		idem = middleware.Idempotency(d.Redis, d.IdempotencyTTL)
	}

	p := api.Group("/leave-policy")
	p.GET("", d.Policies.List)
	p.GET("/calculate-entitlement", d.Policies.Entitlement)
	p.POST("/create", d.Policies.Create, manage, idem)
	p.GET("/:leaveType", d.Policies.Get)
	p.PUT("/:leaveType", d.Policies.Update, manage, idem)
	p.POST("/:leaveType/facility-override", d.Policies.UpsertFacilityOverride, manage, idem)
	p.GET("/:leaveType/history", d.Policies.History, manage)

	l := api.Group("/leave")
	l.POST("", d.Leaves.Submit, idem)
	l.POST("/validate", d.Leaves.Validate)
	l.PATCH("/process/:requestId", d.Leaves.Process, middleware.RequirePermission(middleware.PermApproveLeave), idem)
	l.POST("/:requestId/auto-approve", d.Leaves.AutoApprove, manage, idem)
	l.GET("/pending", d.Leaves.ListPending, view)
	l.GET("/overdue", d.Leaves.ListOverdue, view)
	l.GET("/statistics", d.Leaves.Statistics, view)
	l.GET("/employee/:employeeId", d.Leaves.ListByEmployee)
	l.GET("/balances/:employeeId", d.Leaves.Balances)
	l.GET("/:requestId", d.Leaves.Get)
}
