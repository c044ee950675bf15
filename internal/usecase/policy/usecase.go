package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/policy"
)

type Usecase struct {
	repo domain.Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewUsecase(r domain.Repository, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: r, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func checkType(t domain.LeaveType) error {
	if !t.Valid() {
		return errs.Field(errs.ValidationKind, "leaveType", fmt.Sprintf("unknown leave type %q", t))
	}
	return nil
}

// knownType is checkType for lookups: an unknown code simply has no policy.
func knownType(t domain.LeaveType) error {
	if !t.Valid() {
		return domain.NotFound(t)
	}
	return nil
}

// List returns active policies sorted by leave type.
func (u *Usecase) List(ctx context.Context) ([]domain.Policy, error) {
	return u.repo.List(ctx, true)
}

// Get loads the stored policy and layers the caller's facility and grade on top.
func (u *Usecase) Get(ctx context.Context, in GetInput) (*domain.EffectivePolicy, error) {
	if err := knownType(in.LeaveType); err != nil {
		return nil, err
	}
	base, err := u.repo.GetByType(ctx, in.LeaveType)
	if err != nil {
		return nil, err
	}
	ep, err := domain.Resolve(*base, domain.ResolveContext{
		FacilityID:      in.FacilityID,
		GradeLevel:      in.GradeLevel,
		IncludeInactive: in.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}
	return &ep, nil
}

func (u *Usecase) Entitlement(ctx context.Context, in GetInput) (*EntitlementDTO, error) {
	in.IncludeInactive = false
	ep, err := u.Get(ctx, in)
	if err != nil {
		return nil, err
	}
	return entitlementOf(*ep), nil
}

func (u *Usecase) Create(ctx context.Context, in CreateInput, actor string) (*domain.Policy, error) {
	if err := checkType(in.LeaveType); err != nil {
		return nil, err
	}
	p := domain.New(in.LeaveType, in.DisplayName)
	in.UpdatableFields.DisplayName = nil
	in.UpdatableFields.Apply(&p)
	for _, o := range in.FacilityOverrides {
		p.SetFacilityOverride(o)
	}
	p.EffectiveDate = u.now()
	if in.EffectiveDate != nil {
		p.EffectiveDate = in.EffectiveDate.UTC()
	}
	p.LastUpdatedBy = actor
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "policy created", "leaveType", p.LeaveType, "actor", actor)
	return &p, nil
}

func (u *Usecase) Update(ctx context.Context, t domain.LeaveType, f domain.UpdatableFields, actor string) (*domain.Policy, error) {
	if err := knownType(t); err != nil {
		return nil, err
	}
	p, err := u.repo.Update(ctx, t, f, actor)
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "policy updated", "leaveType", t, "version", p.PolicyVersion, "actor", actor)
	return p, nil
}

func (u *Usecase) UpsertFacilityOverride(ctx context.Context, t domain.LeaveType, o domain.FacilityOverride, actor string) (*domain.Policy, error) {
	if err := knownType(t); err != nil {
		return nil, err
	}
	p, err := u.repo.UpsertFacilityOverride(ctx, t, o, actor)
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "facility override saved", "leaveType", t, "facility", o.FacilityID, "version", p.PolicyVersion)
	return p, nil
}

func (u *Usecase) History(ctx context.Context, t domain.LeaveType) (*HistoryDTO, error) {
	if err := knownType(t); err != nil {
		return nil, err
	}
	p, err := u.repo.GetByType(ctx, t)
	if err != nil {
		return nil, err
	}
	revs, err := u.repo.History(ctx, t)
	if err != nil {
		return nil, err
	}
	dto := &HistoryDTO{
		LeaveType:      p.LeaveType,
		CurrentVersion: p.PolicyVersion,
		EffectiveDate:  p.EffectiveDate,
		LastUpdatedBy:  p.LastUpdatedBy,
		LastUpdatedAt:  p.UpdatedAt,
		Notes:          p.Notes,
		Revisions:      make([]RevisionDTO, 0, len(revs)),
	}
	for _, r := range revs {
		snap := r.Snapshot.Data()
		dto.Revisions = append(dto.Revisions, RevisionDTO{Version: r.Version, UpdatedBy: r.UpdatedBy, CreatedAt: r.CreatedAt, Snapshot: &snap})
	}
	return dto, nil
}

// Seed installs the default catalogue, skipping leave types already present.
// It returns how many policies were created.
func (u *Usecase) Seed(ctx context.Context, actor string) (int, error) {
	created := 0
	for _, p := range domain.Defaults() {
		_, err := u.repo.GetByType(ctx, p.LeaveType)
		if err == nil {
			continue
		}
		if !errs.IsNotFound(err) {
			return created, err
		}
		p.EffectiveDate = u.now()
		p.LastUpdatedBy = actor
		if err := u.repo.Create(ctx, &p); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		u.log.InfoContext(ctx, "default policies seeded", "count", created)
	}
	return created, nil
}
