package leave

import (
	"context"
	"time"

	"hr-leave-engine/internal/domain/policy"
)

type ListFilter struct {
	EmployeeID string
	FacilityID string
	LeaveType  policy.LeaveType
	Status     Status
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)
	// GetByRequestIDForUpdate locks the row where the store supports it.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*Request, error)
	// List orders by submission time, newest first.
	List(ctx context.Context, f ListFilter) ([]Request, error)
	// ListPending orders urgent requests first, then oldest submission first.
	ListPending(ctx context.Context, facilityID string, t policy.LeaveType) ([]Request, error)
	ListOverdueUrgent(ctx context.Context, now time.Time) ([]Request, error)
	// TransitionFromPending writes t only if the request is still pending and
	// reports whether it did.
	TransitionFromPending(ctx context.Context, requestID string, t Transition) (bool, error)
	Stats(ctx context.Context, f StatsFilter) (*Stats, error)
}
