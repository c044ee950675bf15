package policy

import (
	"context"
	"fmt"

	"hr-leave-engine/internal/domain/errs"
)

// NotFound is the PolicyNotFound error for t, with LeaveType set for localized messages.
func NotFound(t LeaveType) *errs.Error {
	return errs.WithParams(errs.PolicyNotFoundKind, fmt.Sprintf("no policy for leave type %q", t),
		map[string]any{"LeaveType": string(t)})
}

type Repository interface {
	GetByType(ctx context.Context, t LeaveType) (*Policy, error)
	List(ctx context.Context, activeOnly bool) ([]Policy, error)

	// Create fails with DuplicateKind when the leave type already exists.
	// It sets PolicyVersion to 1 and records the first revision.
	Create(ctx context.Context, p *Policy) error

	// Update applies the allow-listed fields, bumps the version by one and
	// stamps LastUpdatedBy.
	Update(ctx context.Context, t LeaveType, f UpdatableFields, actor string) (*Policy, error)

	// UpsertFacilityOverride replaces or appends the override for o.FacilityID.
	// Counts as an update.
	UpsertFacilityOverride(ctx context.Context, t LeaveType, o FacilityOverride, actor string) (*Policy, error)

	// History returns revisions newest first.
	History(ctx context.Context, t LeaveType) ([]Revision, error)
}
