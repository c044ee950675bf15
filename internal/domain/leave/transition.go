package leave

import (
	"fmt"
	"strings"
	"time"

	"hr-leave-engine/internal/domain/errs"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Transition is the set of columns a decision writes. Repositories apply it
// only while the stored status is still pending.
type Transition struct {
	To              Status
	ApprovedBy      string
	ApprovedAt      *time.Time
	ManagerNotes    string
	RejectionReason string
}

// Decide validates action against r's current state and builds the transition.
func Decide(r *Request, action Action, actor, notes string, now time.Time) (Transition, error) {
	if r.Status.Terminal() {
		return Transition{}, errs.New(errs.AlreadyProcessedKind,
			fmt.Sprintf("leave request %s is already %s", r.RequestID, r.Status))
	}
	notes = strings.TrimSpace(notes)
	at := now.UTC()
	switch action {
	case ActionApprove:
		return Transition{To: StatusApproved, ApprovedBy: actor, ApprovedAt: &at, ManagerNotes: notes}, nil
	case ActionReject:
		if notes == "" {
			return Transition{}, errs.Field(errs.MissingReasonKind, "managerNotes", "a reason is required to reject a leave request")
		}
		return Transition{To: StatusRejected, ApprovedBy: actor, ApprovedAt: &at, ManagerNotes: notes, RejectionReason: notes}, nil
	default:
		return Transition{}, errs.Field(errs.ValidationKind, "action", fmt.Sprintf("unknown action %q", action))
	}
}

// AutoApprove builds the system approval transition.
func AutoApprove(r *Request, actor string, now time.Time) (Transition, error) {
	if r.Status.Terminal() {
		return Transition{}, errs.New(errs.AlreadyProcessedKind,
			fmt.Sprintf("leave request %s is already %s", r.RequestID, r.Status))
	}
	at := now.UTC()
	return Transition{To: StatusAutoApproved, ApprovedBy: actor, ApprovedAt: &at}, nil
}

func (t Transition) ApplyTo(r *Request) {
	r.Status = t.To
	r.ApprovedBy = t.ApprovedBy
	r.ApprovedAt = t.ApprovedAt
	r.ManagerNotes = t.ManagerNotes
	r.RejectionReason = t.RejectionReason
}

// ConsumesBalance is true for transitions that charge the employee's balance.
func (t Transition) ConsumesBalance() bool {
	return t.To == StatusApproved || t.To == StatusAutoApproved
}
