package leave

import (
	"fmt"
	"math"
	"time"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/policy"
)

const day = 24 * time.Hour

// Draft is a request that has not been persisted yet.
type Draft struct {
	LeaveType   policy.LeaveType
	StartDate   time.Time
	EndDate     time.Time
	Attachments []Attachment
}

// RequestedDays counts calendar days inclusive of both ends.
func RequestedDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// NoticeDays is whole days from now until start, rounded up. Negative for past dates.
func NoticeDays(start, now time.Time) int {
	return int(math.Ceil(start.Sub(now).Hours() / 24))
}

type Result struct {
	RequestedDays int
	NoticeDays    int
	Retroactive   bool
	Violations    errs.List
}

func (r Result) OK() bool { return len(r.Violations) == 0 }

func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return r.Violations
}

// Validate runs every check and reports all failures together.
// usage is the projected balance for the draft's buckets; nil skips the balance check.
func Validate(p policy.EffectivePolicy, d Draft, now time.Time, usage []balance.Usage) Result {
	var res Result

	if d.LeaveType != "" && d.LeaveType != p.LeaveType {
		res.Violations = append(res.Violations, errs.Field(errs.ValidationKind, "leaveType",
			fmt.Sprintf("leave type %q does not match policy %q", d.LeaveType, p.LeaveType)))
	}
	if d.StartDate.IsZero() {
		res.Violations = append(res.Violations, errs.Field(errs.ValidationKind, "startDate", "is required"))
	}
	if d.EndDate.IsZero() {
		res.Violations = append(res.Violations, errs.Field(errs.ValidationKind, "endDate", "is required"))
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return res
	}
	if d.EndDate.Before(d.StartDate) {
		res.Violations = append(res.Violations, errs.Field(errs.ValidationKind, "endDate", "must be on or after startDate"))
		return res
	}

	res.NoticeDays = NoticeDays(d.StartDate, now)
	res.RequestedDays = RequestedDays(d.StartDate, d.EndDate)
	res.Retroactive = res.NoticeDays < 0

	if !p.AllowRetroactive && res.NoticeDays < p.MinimumNoticeDays {
		res.Violations = append(res.Violations, errs.WithParams(errs.InsufficientNoticeKind,
			fmt.Sprintf("%s requires %d days notice, request gives %d", p.DisplayName, p.MinimumNoticeDays, res.NoticeDays),
			map[string]any{"Policy": p.DisplayName, "Required": p.MinimumNoticeDays, "Given": res.NoticeDays}))
	}

	if p.MaxDaysPerRequest > 0 && res.RequestedDays > p.MaxDaysPerRequest {
		res.Violations = append(res.Violations, errs.WithParams(errs.RequestTooLongKind,
			fmt.Sprintf("%s allows at most %d days per request, requested %d", p.DisplayName, p.MaxDaysPerRequest, res.RequestedDays),
			map[string]any{"Policy": p.DisplayName, "Max": p.MaxDaysPerRequest, "Requested": res.RequestedDays}))
	}
	if p.MinDaysPerRequest > 0 && res.RequestedDays < p.MinDaysPerRequest {
		res.Violations = append(res.Violations, errs.Field(errs.ValidationKind, "endDate",
			fmt.Sprintf("%s requires at least %d days per request", p.DisplayName, p.MinDaysPerRequest)))
	}

	if p.RequiresDocumentation && len(p.RequiredDocuments) > 0 && len(d.Attachments) == 0 {
		res.Violations = append(res.Violations, errs.WithParams(errs.MissingDocumentationKind,
			fmt.Sprintf("%s requires supporting documents: %v", p.DisplayName, []string(p.RequiredDocuments)),
			map[string]any{"Policy": p.DisplayName, "Documents": []string(p.RequiredDocuments)}))
	}

	if p.HasBalanceLimit && usage != nil {
		if e := balance.Check(p, usage, res.RequestedDays); e != nil {
			res.Violations = append(res.Violations, e)
		}
	}
	return res
}
