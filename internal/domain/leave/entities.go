package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hr-leave-engine/internal/domain/policy"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusAutoApproved Status = "auto-approved"
	StatusRejected     Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusAutoApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s != StatusPending }

// Attachment is file metadata only; the bytes live in external storage.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Table: leave_requests
type Request struct {
	ID         uint64           `gorm:"primaryKey;column:id" json:"-"`
	RequestID  string           `gorm:"column:request_id;size:32;not null;uniqueIndex:ux_leave_requests_request_id" json:"requestId"`
	EmployeeID string           `gorm:"column:employee_id;size:32;not null;index:idx_leave_requests_employee" json:"employeeId"`
	FacilityID string           `gorm:"column:facility_id;size:32;index:idx_leave_requests_facility_status,priority:1" json:"facilityId"`
	GradeLevel int              `gorm:"column:grade_level" json:"gradeLevel"`
	LeaveType  policy.LeaveType `gorm:"column:leave_type;size:32;not null" json:"leaveType"`
	StartDate  time.Time        `gorm:"column:start_date;not null" json:"startDate"`
	EndDate    time.Time        `gorm:"column:end_date;not null" json:"endDate"`
	Days       int              `gorm:"column:days;not null" json:"days"`
	Reason     string           `gorm:"column:reason;type:text" json:"reason"`
	Status     Status           `gorm:"column:status;size:16;not null;index:idx_leave_requests_facility_status,priority:2" json:"status"`

	Attachments datatypes.JSONSlice[Attachment] `gorm:"column:attachments" json:"attachments"`

	SubmittedBy     string     `gorm:"column:submitted_by;size:64" json:"submittedBy"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at;not null" json:"submittedAt"`
	ApprovedBy      string     `gorm:"column:approved_by;size:64" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	ManagerNotes    string     `gorm:"column:manager_notes;type:text" json:"managerNotes,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejectionReason,omitempty"`

	RequiresUrgentApproval bool       `gorm:"column:requires_urgent_approval" json:"requiresUrgentApproval"`
	UrgentDeadline         *time.Time `gorm:"column:urgent_deadline;index:idx_leave_requests_urgent" json:"urgentDeadline,omitempty"`
	IsRetroactive          bool       `gorm:"column:is_retroactive" json:"isRetroactive"`

	// Pay snapshot taken at submission for the payroll consumer.
	SalaryPercentage int             `gorm:"column:salary_percentage" json:"salaryPercentage"`
	PaidDays         decimal.Decimal `gorm:"column:paid_days;type:decimal(8,2)" json:"paidDays"`
	PolicyVersion    int             `gorm:"column:policy_version" json:"policyVersion"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Request) TableName() string { return "leave_requests" }

// IsUrgentOverdue is true for a still-pending urgent request past its deadline.
func (r *Request) IsUrgentOverdue(now time.Time) bool {
	return r.RequiresUrgentApproval && r.Status == StatusPending &&
		r.UrgentDeadline != nil && now.After(*r.UrgentDeadline)
}

// PaidDays is days scaled by the pay percentage, rounded to cents of a day.
func PaidDays(days, salaryPercentage int, isPaid bool) decimal.Decimal {
	if !isPaid || salaryPercentage <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days)).
		Mul(decimal.NewFromInt(int64(salaryPercentage))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}
