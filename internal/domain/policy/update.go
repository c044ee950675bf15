package policy

import (
	"fmt"

	"hr-leave-engine/internal/domain/errs"
)

// UpdatableFields is the allow-list for policy updates. Leave type, timestamps
// and the version counter are not updatable.
type UpdatableFields struct {
	DisplayName *string `json:"displayName,omitempty"`
	Description *string `json:"description,omitempty"`

	IsPaid           *bool `json:"isPaid,omitempty"`
	SalaryPercentage *int  `json:"salaryPercentage,omitempty"`

	HasBalanceLimit      *bool `json:"hasBalanceLimit,omitempty"`
	MaxDaysPerYear       *int  `json:"maxDaysPerYear,omitempty"`
	MaxDaysLifetime      *int  `json:"maxDaysLifetime,omitempty"`
	BalanceResetAnnually *bool `json:"balanceResetAnnually,omitempty"`

	RequiresApproval            *bool `json:"requiresApproval,omitempty"`
	RequiresManagerApproval     *bool `json:"requiresManagerApproval,omitempty"`
	RequiresHRApproval          *bool `json:"requiresHRApproval,omitempty"`
	RequiresUrgentApproval      *bool `json:"requiresUrgentApproval,omitempty"`
	UrgentApprovalDeadlineHours *int  `json:"urgentApprovalDeadlineHours,omitempty"`

	RequiresDocumentation *bool     `json:"requiresDocumentation,omitempty"`
	RequiredDocuments     *[]string `json:"requiredDocuments,omitempty"`

	MinimumNoticeDays *int  `json:"minimumNoticeDays,omitempty"`
	AllowRetroactive  *bool `json:"allowRetroactive,omitempty"`
	MinDaysPerRequest *int  `json:"minDaysPerRequest,omitempty"`
	MaxDaysPerRequest *int  `json:"maxDaysPerRequest,omitempty"`

	IsActive *bool `json:"isActive,omitempty"`

	GradeLevelRules *[]GradeLevelRule `json:"gradeLevelRules,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

func (f UpdatableFields) Apply(p *Policy) {
	setStr(&p.DisplayName, f.DisplayName)
	setStr(&p.Description, f.Description)
	setBool(&p.IsPaid, f.IsPaid)
	setInt(&p.SalaryPercentage, f.SalaryPercentage)
	setBool(&p.HasBalanceLimit, f.HasBalanceLimit)
	setInt(&p.MaxDaysPerYear, f.MaxDaysPerYear)
	setInt(&p.MaxDaysLifetime, f.MaxDaysLifetime)
	setBool(&p.BalanceResetAnnually, f.BalanceResetAnnually)
	setBool(&p.RequiresApproval, f.RequiresApproval)
	setBool(&p.RequiresManagerApproval, f.RequiresManagerApproval)
	setBool(&p.RequiresHRApproval, f.RequiresHRApproval)
	setBool(&p.RequiresUrgentApproval, f.RequiresUrgentApproval)
	setInt(&p.UrgentApprovalDeadlineHours, f.UrgentApprovalDeadlineHours)
	setBool(&p.RequiresDocumentation, f.RequiresDocumentation)
	if f.RequiredDocuments != nil {
		p.RequiredDocuments = append(p.RequiredDocuments[:0:0], (*f.RequiredDocuments)...)
	}
	setInt(&p.MinimumNoticeDays, f.MinimumNoticeDays)
	setBool(&p.AllowRetroactive, f.AllowRetroactive)
	setInt(&p.MinDaysPerRequest, f.MinDaysPerRequest)
	setInt(&p.MaxDaysPerRequest, f.MaxDaysPerRequest)
	setBool(&p.IsActive, f.IsActive)
	if f.GradeLevelRules != nil {
		p.GradeLevelRules = append(p.GradeLevelRules[:0:0], (*f.GradeLevelRules)...)
	}
	setStr(&p.Notes, f.Notes)
}

// Validate checks the policy's numeric ranges. All problems are returned together.
func (p Policy) Validate() error {
	var list errs.List
	if !p.LeaveType.Valid() {
		list = append(list, errs.Field(errs.ValidationKind, "leaveType", fmt.Sprintf("unknown leave type %q", p.LeaveType)))
	}
	if p.DisplayName == "" {
		list = append(list, errs.Field(errs.ValidationKind, "displayName", "is required"))
	}
	list = appendPct(list, "salaryPercentage", p.SalaryPercentage)
	list = appendNonNeg(list, "maxDaysPerYear", p.MaxDaysPerYear)
	list = appendNonNeg(list, "maxDaysLifetime", p.MaxDaysLifetime)
	list = appendNonNeg(list, "minimumNoticeDays", p.MinimumNoticeDays)
	list = appendNonNeg(list, "maxDaysPerRequest", p.MaxDaysPerRequest)
	if p.MinDaysPerRequest < 1 {
		list = append(list, errs.Field(errs.ValidationKind, "minDaysPerRequest", "must be at least 1"))
	}
	if p.MaxDaysPerRequest > 0 && p.MinDaysPerRequest > p.MaxDaysPerRequest {
		list = append(list, errs.Field(errs.ValidationKind, "minDaysPerRequest", "must not exceed maxDaysPerRequest"))
	}
	if p.UrgentApprovalDeadlineHours < 1 {
		list = append(list, errs.Field(errs.ValidationKind, "urgentApprovalDeadlineHours", "must be at least 1"))
	}
	for i, r := range p.GradeLevelRules {
		field := fmt.Sprintf("gradeLevelRules[%d]", i)
		if r.MinGradeLevel > r.MaxGradeLevel {
			list = append(list, errs.Field(errs.ValidationKind, field, "minGradeLevel must not exceed maxGradeLevel"))
		}
		list = appendPct(list, field+".salaryPercentage", r.SalaryPercentage)
		list = appendNonNeg(list, field+".maxDaysPerYear", r.MaxDaysPerYear)
	}
	for i, o := range p.FacilityOverrides {
		if err := o.Validate(); err != nil {
			list = append(list, errs.Field(errs.ValidationKind, fmt.Sprintf("facilityOverrides[%d]", i), err.Error()))
		}
	}
	if len(list) > 0 {
		return list
	}
	return nil
}

func (o FacilityOverride) Validate() error {
	var list errs.List
	if o.FacilityID == "" {
		list = append(list, errs.Field(errs.ValidationKind, "facilityId", "is required"))
	}
	if o.SalaryPercentage != nil {
		list = appendPct(list, "salaryPercentage", *o.SalaryPercentage)
	}
	if o.MaxDaysPerYear != nil {
		list = appendNonNeg(list, "maxDaysPerYear", *o.MaxDaysPerYear)
	}
	if len(list) > 0 {
		return list
	}
	return nil
}

func appendPct(list errs.List, field string, v int) errs.List {
	if v < 0 || v > 100 {
		return append(list, errs.Field(errs.ValidationKind, field, "must be between 0 and 100"))
	}
	return list
}

func appendNonNeg(list errs.List, field string, v int) errs.List {
	if v < 0 {
		return append(list, errs.Field(errs.ValidationKind, field, "must not be negative"))
	}
	return list
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
