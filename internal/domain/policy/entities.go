package policy

import (
	"time"

	"gorm.io/datatypes"
)

type LeaveType string

const (
	Annual             LeaveType = "annual"
	Maternity          LeaveType = "maternity"
	Adoptive           LeaveType = "adoptive"
	Examination        LeaveType = "examination"
	Takaba             LeaveType = "takaba"
	Sabbatical         LeaveType = "sabbatical"
	Study              LeaveType = "study"
	Religious          LeaveType = "religious"
	Casual             LeaveType = "casual"
	Absence            LeaveType = "absence"
	OfficialAssignment LeaveType = "official-assignment"
)

var leaveTypes = []LeaveType{
	Annual, Maternity, Adoptive, Examination, Takaba, Sabbatical,
	Study, Religious, Casual, Absence, OfficialAssignment,
}

func LeaveTypes() []LeaveType { return append([]LeaveType(nil), leaveTypes...) }

func (t LeaveType) Valid() bool {
	for _, lt := range leaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// FacilityOverride carries sparse replacements; nil fields leave the base value alone.
type FacilityOverride struct {
	FacilityID         string `json:"facility"`
	IsPaid             *bool  `json:"isPaid,omitempty"`
	SalaryPercentage   *int   `json:"salaryPercentage,omitempty"`
	MaxDaysPerYear     *int   `json:"maxDaysPerYear,omitempty"`
	RequiresHRApproval *bool  `json:"requiresHRApproval,omitempty"`
}

type GradeLevelRule struct {
	MinGradeLevel    int `json:"minGradeLevel"`
	MaxGradeLevel    int `json:"maxGradeLevel"`
	MaxDaysPerYear   int `json:"maxDaysPerYear"`
	SalaryPercentage int `json:"salaryPercentage"`
}

func (r GradeLevelRule) Matches(gl int) bool {
	return gl >= r.MinGradeLevel && gl <= r.MaxGradeLevel
}

// Table: leave_policies, one row per leave type.
type Policy struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	LeaveType   LeaveType `gorm:"column:leave_type;size:32;not null;uniqueIndex:ux_leave_policies_leave_type" json:"leaveType"`
	DisplayName string    `gorm:"column:display_name;size:100;not null" json:"displayName"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	IsPaid           bool `gorm:"column:is_paid" json:"isPaid"`
	SalaryPercentage int  `gorm:"column:salary_percentage" json:"salaryPercentage"`

	HasBalanceLimit      bool `gorm:"column:has_balance_limit" json:"hasBalanceLimit"`
	MaxDaysPerYear       int  `gorm:"column:max_days_per_year" json:"maxDaysPerYear"`
	MaxDaysLifetime      int  `gorm:"column:max_days_lifetime" json:"maxDaysLifetime"`
	BalanceResetAnnually bool `gorm:"column:balance_reset_annually" json:"balanceResetAnnually"`

	RequiresApproval            bool `gorm:"column:requires_approval" json:"requiresApproval"`
	RequiresManagerApproval     bool `gorm:"column:requires_manager_approval" json:"requiresManagerApproval"`
	RequiresHRApproval          bool `gorm:"column:requires_hr_approval" json:"requiresHRApproval"`
	RequiresUrgentApproval      bool `gorm:"column:requires_urgent_approval" json:"requiresUrgentApproval"`
	UrgentApprovalDeadlineHours int  `gorm:"column:urgent_approval_deadline_hours" json:"urgentApprovalDeadlineHours"`

	RequiresDocumentation bool                        `gorm:"column:requires_documentation" json:"requiresDocumentation"`
	RequiredDocuments     datatypes.JSONSlice[string] `gorm:"column:required_documents" json:"requiredDocuments"`

	MinimumNoticeDays int  `gorm:"column:minimum_notice_days" json:"minimumNoticeDays"`
	AllowRetroactive  bool `gorm:"column:allow_retroactive" json:"allowRetroactive"`
	MinDaysPerRequest int  `gorm:"column:min_days_per_request" json:"minDaysPerRequest"`
	MaxDaysPerRequest int  `gorm:"column:max_days_per_request" json:"maxDaysPerRequest"`

	IsActive bool `gorm:"column:is_active;index:idx_leave_policies_active" json:"isActive"`

	FacilityOverrides datatypes.JSONSlice[FacilityOverride] `gorm:"column:facility_overrides" json:"facilityOverrides"`
	GradeLevelRules   datatypes.JSONSlice[GradeLevelRule]   `gorm:"column:grade_level_rules" json:"gradeLevelRules"`

	PolicyVersion int       `gorm:"column:policy_version;not null" json:"policyVersion"`
	EffectiveDate time.Time `gorm:"column:effective_date" json:"effectiveDate"`
	LastUpdatedBy string    `gorm:"column:last_updated_by;size:64" json:"lastUpdatedBy,omitempty"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Policy) TableName() string { return "leave_policies" }

// Clone deep-copies the slice fields so overlays never alias stored data.
func (p Policy) Clone() Policy {
	out := p
	out.RequiredDocuments = append(datatypes.JSONSlice[string]{}, p.RequiredDocuments...)
	out.FacilityOverrides = append(datatypes.JSONSlice[FacilityOverride]{}, p.FacilityOverrides...)
	out.GradeLevelRules = append(datatypes.JSONSlice[GradeLevelRule]{}, p.GradeLevelRules...)
	return out
}

func (p Policy) FacilityOverride(facilityID string) (FacilityOverride, bool) {
	for _, o := range p.FacilityOverrides {
		if o.FacilityID == facilityID {
			return o, true
		}
	}
	return FacilityOverride{}, false
}

// SetFacilityOverride replaces the entry for the same facility or appends a new one.
func (p *Policy) SetFacilityOverride(o FacilityOverride) {
	for i := range p.FacilityOverrides {
		if p.FacilityOverrides[i].FacilityID == o.FacilityID {
			p.FacilityOverrides[i] = o
			return
		}
	}
	p.FacilityOverrides = append(p.FacilityOverrides, o)
}

// Table: leave_policy_revisions, one snapshot per version.
type Revision struct {
	ID        uint64                     `gorm:"primaryKey;column:id" json:"-"`
	LeaveType LeaveType                  `gorm:"column:leave_type;size:32;not null;uniqueIndex:ux_policy_revisions_version,priority:1" json:"leaveType"`
	Version   int                        `gorm:"column:version;not null;uniqueIndex:ux_policy_revisions_version,priority:2" json:"version"`
	UpdatedBy string                     `gorm:"column:updated_by;size:64" json:"updatedBy,omitempty"`
	Snapshot  datatypes.JSONType[Policy] `gorm:"column:snapshot" json:"snapshot"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Revision) TableName() string { return "leave_policy_revisions" }

func NewRevision(p Policy, actor string) *Revision {
	return &Revision{
		LeaveType: p.LeaveType,
		Version:   p.PolicyVersion,
		UpdatedBy: actor,
		Snapshot:  datatypes.NewJSONType(p.Clone()),
	}
}
