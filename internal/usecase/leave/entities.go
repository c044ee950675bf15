package leave

import (
	"time"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
)

type SubmitInput struct {
	EmployeeID  string              `json:"employeeId" form:"employeeId" validate:"required,max=32"`
	LeaveType   policy.LeaveType    `json:"leaveType" form:"leaveType" validate:"required,leavetype"`
	StartDate   time.Time           `json:"startDate" form:"startDate" validate:"required"`
	EndDate     time.Time           `json:"endDate" form:"endDate" validate:"required"`
	Reason      string              `json:"reason" form:"reason" validate:"max=2000"`
	Attachments []domain.Attachment `json:"attachments,omitempty" form:"-" validate:"max=5,dive"`
}

func (in SubmitInput) draft() domain.Draft {
	return domain.Draft{
		LeaveType:   in.LeaveType,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Attachments: in.Attachments,
	}
}

type ProcessInput struct {
	Action       domain.Action `json:"action" validate:"required,oneof=approve reject"`
	ManagerNotes string        `json:"managerNotes" validate:"max=2000"`
}

// RequestDTO is a stored request plus its derived urgency flag.
type RequestDTO struct {
	domain.Request
	UrgentOverdue bool `json:"urgentOverdue"`
}

func toDTO(r domain.Request, now time.Time) RequestDTO {
	return RequestDTO{Request: r, UrgentOverdue: r.IsUrgentOverdue(now)}
}

type ValidationDTO struct {
	Valid         bool                    `json:"valid"`
	RequestedDays int                     `json:"requestedDays"`
	NoticeDays    int                     `json:"noticeDays"`
	Retroactive   bool                    `json:"isRetroactive"`
	Violations    errs.List               `json:"violations"`
	Balances      []balance.Usage         `json:"balances"`
	Policy        *policy.EffectivePolicy `json:"policy"`
}

type BalanceSummaryDTO struct {
	EmployeeID string            `json:"employeeId"`
	Year       int               `json:"year,omitempty"`
	Counters   []balance.Counter `json:"counters"`
}
