package leavemock

import (
	"context"
	"time"

	domain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.Request) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.Request, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.Request, error)
	ListFn                    func(ctx context.Context, f domain.ListFilter) ([]domain.Request, error)
	ListPendingFn             func(ctx context.Context, facilityID string, t policy.LeaveType) ([]domain.Request, error)
	ListOverdueUrgentFn       func(ctx context.Context, now time.Time) ([]domain.Request, error)
	TransitionFromPendingFn   func(ctx context.Context, requestID string, t domain.Transition) (bool, error)
	StatsFn                   func(ctx context.Context, f domain.StatsFilter) (*domain.Stats, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Request, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListPending(ctx context.Context, facilityID string, t policy.LeaveType) ([]domain.Request, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx, facilityID, t)
	}
	return nil, nil
}

func (m *Repo) ListOverdueUrgent(ctx context.Context, now time.Time) ([]domain.Request, error) {
	if m.ListOverdueUrgentFn != nil {
		return m.ListOverdueUrgentFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) TransitionFromPending(ctx context.Context, requestID string, t domain.Transition) (bool, error) {
	if m.TransitionFromPendingFn != nil {
		return m.TransitionFromPendingFn(ctx, requestID, t)
	}
	return false, context.Canceled
}

func (m *Repo) Stats(ctx context.Context, f domain.StatsFilter) (*domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, f)
	}
	return domain.NewStats(), nil
}
