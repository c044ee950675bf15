package policy

import (
	"time"

	domain "hr-leave-engine/internal/domain/policy"
)

// CreateInput is the body of a create call. Omitted optional fields take the
// defaults of domain.New.
type CreateInput struct {
	LeaveType   domain.LeaveType `json:"leaveType" validate:"required,leavetype"`
	DisplayName string           `json:"displayName" validate:"required,max=100"`

	domain.UpdatableFields

	FacilityOverrides []domain.FacilityOverride `json:"facilityOverrides,omitempty" validate:"omitempty,dive"`
	EffectiveDate     *time.Time                `json:"effectiveDate,omitempty"`
}

type GetInput struct {
	LeaveType       domain.LeaveType
	FacilityID      string
	GradeLevel      *int
	IncludeInactive bool
}

type RevisionDTO struct {
	Version   int            `json:"version"`
	UpdatedBy string         `json:"updatedBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Snapshot  *domain.Policy `json:"snapshot"`
}

type HistoryDTO struct {
	LeaveType      domain.LeaveType `json:"leaveType"`
	CurrentVersion int              `json:"currentVersion"`
	EffectiveDate  time.Time        `json:"effectiveDate"`
	LastUpdatedBy  string           `json:"lastUpdatedBy,omitempty"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
	Notes          string           `json:"notes,omitempty"`
	Revisions      []RevisionDTO    `json:"revisions"`
}

// EntitlementDTO is the slice of an effective policy an employee sees.
type EntitlementDTO struct {
	LeaveType             domain.LeaveType `json:"leaveType"`
	DisplayName           string           `json:"displayName"`
	IsPaid                bool             `json:"isPaid"`
	SalaryPercentage      int              `json:"salaryPercentage"`
	HasBalanceLimit       bool             `json:"hasBalanceLimit"`
	MaxDaysPerYear        int              `json:"maxDaysPerYear"`
	RequiresApproval      bool             `json:"requiresApproval"`
	MinimumNoticeDays     int              `json:"minimumNoticeDays"`
	RequiresDocumentation bool             `json:"requiresDocumentation"`
	RequiredDocuments     []string         `json:"requiredDocuments"`
	IsFacilityOverride    bool             `json:"isFacilityOverride"`
	IsGradeLevelOverride  bool             `json:"isGradeLevelOverride"`
}

func entitlementOf(ep domain.EffectivePolicy) *EntitlementDTO {
	docs := append([]string{}, ep.RequiredDocuments...)
	return &EntitlementDTO{
		LeaveType:             ep.LeaveType,
		DisplayName:           ep.DisplayName,
		IsPaid:                ep.IsPaid,
		SalaryPercentage:      ep.SalaryPercentage,
		HasBalanceLimit:       ep.HasBalanceLimit,
		MaxDaysPerYear:        ep.MaxDaysPerYear,
		RequiresApproval:      ep.RequiresApproval,
		MinimumNoticeDays:     ep.MinimumNoticeDays,
		RequiresDocumentation: ep.RequiresDocumentation,
		RequiredDocuments:     docs,
		IsFacilityOverride:    ep.IsFacilityOverride,
		IsGradeLevelOverride:  ep.IsGradeLevelOverride,
	}
}
