package policy

import (
	"fmt"

	"hr-leave-engine/internal/domain/errs"
)

type ResolveContext struct {
	FacilityID string
	GradeLevel *int
	// IncludeInactive lets administrative callers inspect disabled policies.
	IncludeInactive bool
}

// EffectivePolicy is a Policy with facility and grade overlays applied, plus
// provenance of which overlays took effect.
type EffectivePolicy struct {
	Policy
	IsFacilityOverride   bool   `json:"_isFacilityOverride"`
	FacilityID           string `json:"_facilityId,omitempty"`
	IsGradeLevelOverride bool   `json:"_isGradeLevelOverride"`
	GradeLevel           *int   `json:"_gradeLevel,omitempty"`
}

// Resolve layers base → facility override → first matching grade rule.
// base is never mutated.
func Resolve(base Policy, rc ResolveContext) (EffectivePolicy, error) {
	if !base.IsActive && !rc.IncludeInactive {
		return EffectivePolicy{}, errs.WithParams(errs.PolicyNotFoundKind,
			fmt.Sprintf("no active policy for leave type %q", base.LeaveType),
			map[string]any{"LeaveType": string(base.LeaveType)})
	}

	ep := EffectivePolicy{Policy: base.Clone()}

	if rc.FacilityID != "" {
		if o, ok := base.FacilityOverride(rc.FacilityID); ok {
			if o.IsPaid != nil {
				ep.IsPaid = *o.IsPaid
			}
			if o.SalaryPercentage != nil {
				ep.SalaryPercentage = *o.SalaryPercentage
			}
			if o.MaxDaysPerYear != nil {
				ep.MaxDaysPerYear = *o.MaxDaysPerYear
			}
			if o.RequiresHRApproval != nil {
				ep.RequiresHRApproval = *o.RequiresHRApproval
			}
			ep.IsFacilityOverride = true
			ep.FacilityID = rc.FacilityID
		}
	}

	if rc.GradeLevel != nil {
		gl := *rc.GradeLevel
		for _, r := range base.GradeLevelRules {
			if !r.Matches(gl) {
				continue
			}
			ep.MaxDaysPerYear = r.MaxDaysPerYear
			ep.SalaryPercentage = r.SalaryPercentage
			ep.IsPaid = r.SalaryPercentage > 0
			ep.IsGradeLevelOverride = true
			ep.GradeLevel = &gl
			break
		}
	}

	if !ep.IsPaid {
		ep.SalaryPercentage = 0
	}
	return ep, nil
}
