package gormstore

import (
	"context"
	"errors"
	"fmt"

	"hr-leave-engine/internal/domain/errs"
	policyDomain "hr-leave-engine/internal/domain/policy"

	"gorm.io/gorm"
)

// maxVersionRetries bounds optimistic retries when two writers race on a policy.
const maxVersionRetries = 3

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func policyNotFound(t policyDomain.LeaveType) error {
	return policyDomain.NotFound(t)
}

func (r *PolicyRepository) GetByType(ctx context.Context, t policyDomain.LeaveType) (*policyDomain.Policy, error) {
	var out policyDomain.Policy
	err := r.db.WithContext(ctx).Where("leave_type = ?", t).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, policyNotFound(t)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PolicyRepository) List(ctx context.Context, activeOnly bool) ([]policyDomain.Policy, error) {
	var out []policyDomain.Policy
	q := r.db.WithContext(ctx).Order("leave_type ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PolicyRepository) Create(ctx context.Context, p *policyDomain.Policy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&policyDomain.Policy{}).Where("leave_type = ?", p.LeaveType).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errs.New(errs.DuplicateKind, fmt.Sprintf("policy for leave type %q already exists", p.LeaveType))
		}
		p.PolicyVersion = 1
		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.New(errs.DuplicateKind, fmt.Sprintf("policy for leave type %q already exists", p.LeaveType))
			}
			return err
		}
		return tx.Create(policyDomain.NewRevision(*p, p.LastUpdatedBy)).Error
	})
}

func (r *PolicyRepository) Update(ctx context.Context, t policyDomain.LeaveType, f policyDomain.UpdatableFields, actor string) (*policyDomain.Policy, error) {
	return r.mutate(ctx, t, actor, func(p *policyDomain.Policy) error {
		f.Apply(p)
		return p.Validate()
	})
}

func (r *PolicyRepository) UpsertFacilityOverride(ctx context.Context, t policyDomain.LeaveType, o policyDomain.FacilityOverride, actor string) (*policyDomain.Policy, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return r.mutate(ctx, t, actor, func(p *policyDomain.Policy) error {
		p.SetFacilityOverride(o)
		return nil
	})
}

// mutate reloads the policy, applies fn and writes it back guarded by the
// version it read. A concurrent writer makes the guard miss; the read-modify-write
// is then retried on the fresh row.
func (r *PolicyRepository) mutate(ctx context.Context, t policyDomain.LeaveType, actor string, fn func(p *policyDomain.Policy) error) (*policyDomain.Policy, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var out *policyDomain.Policy
		conflict := false
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var cur policyDomain.Policy
			if err := tx.Where("leave_type = ?", t).First(&cur).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return policyNotFound(t)
				}
				return err
			}
			read := cur.PolicyVersion
			if err := fn(&cur); err != nil {
				return err
			}
			cur.PolicyVersion = read + 1
			cur.LastUpdatedBy = actor

			res := tx.Model(&cur).
				Where("policy_version = ?", read).
				Select("*").
				Omit("id", "leave_type", "created_at").
				Updates(&cur)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				conflict = true
				return nil
			}
			if err := tx.Create(policyDomain.NewRevision(cur, actor)).Error; err != nil {
				return err
			}
			out = &cur
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !conflict {
			return out, nil
		}
	}
	return nil, errs.New(errs.AlreadyProcessedKind, fmt.Sprintf("policy %q is being updated concurrently, retry", t))
}

func (r *PolicyRepository) History(ctx context.Context, t policyDomain.LeaveType) ([]policyDomain.Revision, error) {
	var out []policyDomain.Revision
	err := r.db.WithContext(ctx).
		Where("leave_type = ?", t).
		Order("version DESC").
		Find(&out).Error
	return out, err
}
