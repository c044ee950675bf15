package policymock

import (
	"context"

	domain "hr-leave-engine/internal/domain/policy"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByTypeFn              func(ctx context.Context, t domain.LeaveType) (*domain.Policy, error)
	ListFn                   func(ctx context.Context, activeOnly bool) ([]domain.Policy, error)
	CreateFn                 func(ctx context.Context, p *domain.Policy) error
	UpdateFn                 func(ctx context.Context, t domain.LeaveType, f domain.UpdatableFields, actor string) (*domain.Policy, error)
	UpsertFacilityOverrideFn func(ctx context.Context, t domain.LeaveType, o domain.FacilityOverride, actor string) (*domain.Policy, error)
	HistoryFn                func(ctx context.Context, t domain.LeaveType) ([]domain.Revision, error)
}

func (m *Repo) GetByType(ctx context.Context, t domain.LeaveType) (*domain.Policy, error) {
	if m.GetByTypeFn != nil {
		return m.GetByTypeFn(ctx, t)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, activeOnly bool) ([]domain.Policy, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, activeOnly)
	}
	return nil, nil
}

func (m *Repo) Create(ctx context.Context, p *domain.Policy) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, t domain.LeaveType, f domain.UpdatableFields, actor string) (*domain.Policy, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, t, f, actor)
	}
	return nil, context.Canceled
}

func (m *Repo) UpsertFacilityOverride(ctx context.Context, t domain.LeaveType, o domain.FacilityOverride, actor string) (*domain.Policy, error) {
	if m.UpsertFacilityOverrideFn != nil {
		return m.UpsertFacilityOverrideFn(ctx, t, o, actor)
	}
	return nil, context.Canceled
}

func (m *Repo) History(ctx context.Context, t domain.LeaveType) ([]domain.Revision, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, t)
	}
	return nil, nil
}
