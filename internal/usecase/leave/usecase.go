package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/domain/uow"
	"hr-leave-engine/pkg/id"
)

// SystemActor is recorded as approver on requests that need no human approval.
const SystemActor = "system"

type Deps struct {
	Policies  policy.Repository
	Requests  domain.Repository
	Balances  balance.Repository
	Employees employee.Directory
	UoW       uow.UnitOfWork
	Logger    *slog.Logger
}

type Usecase struct {
	policies  policy.Repository
	requests  domain.Repository
	balances  balance.Repository
	employees employee.Directory
	uow       uow.UnitOfWork
	log       *slog.Logger
	now       func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{
		policies:  d.Policies,
		requests:  d.Requests,
		balances:  d.Balances,
		employees: d.Employees,
		uow:       d.UoW,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type evaluation struct {
	emp    *employee.Employee
	policy policy.EffectivePolicy
	usage  []balance.Usage
	result domain.Result
}

// evaluate resolves the employee's effective policy and runs the validator
// against current usage.
func (u *Usecase) evaluate(ctx context.Context, in SubmitInput, now time.Time) (*evaluation, error) {
	emp, err := u.employees.GetByEmployeeID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	base, err := u.policies.GetByType(ctx, in.LeaveType)
	if err != nil {
		return nil, err
	}
	gl := emp.GradeLevel
	ep, err := policy.Resolve(*base, policy.ResolveContext{FacilityID: emp.FacilityID, GradeLevel: &gl})
	if err != nil {
		return nil, err
	}
	d := in.draft()
	var usage []balance.Usage
	if !d.StartDate.IsZero() {
		if usage, err = balance.NewTracker(u.balances).Usage(ctx, emp.EmployeeID, ep, d.StartDate); err != nil {
			return nil, err
		}
	}
	return &evaluation{emp: emp, policy: ep, usage: usage, result: domain.Validate(ep, d, now, usage)}, nil
}

// CheckEmployee reports NotFound unless employeeID names an active employee.
func (u *Usecase) CheckEmployee(ctx context.Context, employeeID string) error {
	_, err := u.employees.GetByEmployeeID(ctx, employeeID)
	return err
}

// ValidateDraft runs the same checks as Submit without persisting anything.
// Rule violations are reported in the result, not as an error.
func (u *Usecase) ValidateDraft(ctx context.Context, in SubmitInput) (*ValidationDTO, error) {
	ev, err := u.evaluate(ctx, in, u.now())
	if err != nil {
		return nil, err
	}
	return &ValidationDTO{
		Valid:         ev.result.OK(),
		RequestedDays: ev.result.RequestedDays,
		NoticeDays:    ev.result.NoticeDays,
		Retroactive:   ev.result.Retroactive,
		Violations:    ev.result.Violations,
		Balances:      ev.usage,
		Policy:        &ev.policy,
	}, nil
}

// Submit validates and persists a pending request. Leave types that need no
// approval are auto-approved in the same unit of work.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput, actor string) (*RequestDTO, error) {
	now := u.now()
	ev, err := u.evaluate(ctx, in, now)
	if err != nil {
		return nil, err
	}
	if err := ev.result.Err(); err != nil {
		u.log.InfoContext(ctx, "leave request rejected by validation",
			"employeeId", in.EmployeeID, "leaveType", in.LeaveType, "kinds", ev.result.Violations.Kinds())
		return nil, err
	}

	ep := ev.policy
	req := &domain.Request{
		RequestID:        id.NewID32(),
		EmployeeID:       ev.emp.EmployeeID,
		FacilityID:       ev.emp.FacilityID,
		GradeLevel:       ev.emp.GradeLevel,
		LeaveType:        ep.LeaveType,
		StartDate:        in.StartDate.UTC(),
		EndDate:          in.EndDate.UTC(),
		Days:             ev.result.RequestedDays,
		Reason:           in.Reason,
		Status:           domain.StatusPending,
		Attachments:      in.Attachments,
		SubmittedBy:      actor,
		SubmittedAt:      now,
		IsRetroactive:    ev.result.Retroactive,
		SalaryPercentage: ep.SalaryPercentage,
		PaidDays:         domain.PaidDays(ev.result.RequestedDays, ep.SalaryPercentage, ep.IsPaid),
		PolicyVersion:    ep.PolicyVersion,
	}
	if ep.RequiresUrgentApproval {
		deadline := now.Add(time.Duration(ep.UrgentApprovalDeadlineHours) * time.Hour)
		req.RequiresUrgentApproval = true
		req.UrgentDeadline = &deadline
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		if ep.RequiresApproval {
			return nil
		}
		tr, err := domain.AutoApprove(req, SystemActor, now)
		if err != nil {
			return err
		}
		return u.commit(ctx, r, req, ep, tr)
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "leave request submitted",
		"requestId", req.RequestID, "employeeId", req.EmployeeID, "leaveType", req.LeaveType,
		"days", req.Days, "status", req.Status)
	dto := toDTO(*req, now)
	return &dto, nil
}

// commit charges the balance when tr consumes it and writes tr only if req is
// still pending. Must run inside a unit of work.
func (u *Usecase) commit(ctx context.Context, r uow.Repos, req *domain.Request, ep policy.EffectivePolicy, tr domain.Transition) error {
	if tr.ConsumesBalance() {
		if err := balance.NewTracker(r.Balances).CheckAndReserve(ctx, req.EmployeeID, ep, req.StartDate, req.Days); err != nil {
			return err
		}
	}
	ok, err := r.Requests.TransitionFromPending(ctx, req.RequestID, tr)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New(errs.AlreadyProcessedKind, fmt.Sprintf("leave request %s was already processed", req.RequestID))
	}
	tr.ApplyTo(req)
	return nil
}

// policyFor re-resolves the policy a stored request was submitted under.
// Deactivation after submission does not block its decision.
func policyFor(ctx context.Context, r uow.Repos, req *domain.Request) (policy.EffectivePolicy, error) {
	base, err := r.Policies.GetByType(ctx, req.LeaveType)
	if err != nil {
		return policy.EffectivePolicy{}, err
	}
	gl := req.GradeLevel
	return policy.Resolve(*base, policy.ResolveContext{FacilityID: req.FacilityID, GradeLevel: &gl, IncludeInactive: true})
}

func (u *Usecase) decide(ctx context.Context, requestID string, build func(req *domain.Request, now time.Time) (domain.Transition, error)) (*RequestDTO, error) {
	now := u.now()
	var out domain.Request
	err := u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *domain.Request) error {
		tr, err := build(req, now)
		if err != nil {
			return err
		}
		ep, err := policyFor(ctx, r, req)
		if err != nil {
			return err
		}
		if err := u.commit(ctx, r, req, ep, tr); err != nil {
			return err
		}
		out = *req
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "leave request processed",
		"requestId", out.RequestID, "status", out.Status, "by", out.ApprovedBy)
	dto := toDTO(out, now)
	return &dto, nil
}

// Process approves or rejects a pending request. Approval consumes balance.
func (u *Usecase) Process(ctx context.Context, requestID string, in ProcessInput, actor string) (*RequestDTO, error) {
	return u.decide(ctx, requestID, func(req *domain.Request, now time.Time) (domain.Transition, error) {
		return domain.Decide(req, in.Action, actor, in.ManagerNotes, now)
	})
}

func (u *Usecase) AutoApprove(ctx context.Context, requestID, actor string) (*RequestDTO, error) {
	return u.decide(ctx, requestID, func(req *domain.Request, now time.Time) (domain.Transition, error) {
		return domain.AutoApprove(req, actor, now)
	})
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*RequestDTO, error) {
	r, err := u.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*r, u.now())
	return &dto, nil
}

func (u *Usecase) list(rs []domain.Request, err error) ([]RequestDTO, error) {
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]RequestDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toDTO(r, now))
	}
	return out, nil
}

func (u *Usecase) ListByEmployee(ctx context.Context, employeeID string, status domain.Status, t policy.LeaveType) ([]RequestDTO, error) {
	if status != "" && !status.Valid() {
		return nil, errs.Field(errs.ValidationKind, "status", fmt.Sprintf("unknown status %q", status))
	}
	return u.list(u.requests.List(ctx, domain.ListFilter{EmployeeID: employeeID, Status: status, LeaveType: t}))
}

func (u *Usecase) ListPending(ctx context.Context, facilityID string, t policy.LeaveType) ([]RequestDTO, error) {
	return u.list(u.requests.ListPending(ctx, facilityID, t))
}

func (u *Usecase) ListOverdue(ctx context.Context) ([]RequestDTO, error) {
	return u.list(u.requests.ListOverdueUrgent(ctx, u.now()))
}

// Statistics counts requests by outcome and leave type.
func (u *Usecase) Statistics(ctx context.Context, f domain.StatsFilter) (*domain.Stats, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, errs.Field(errs.ValidationKind, "endDate", "endDate must not be before startDate")
	}
	return u.requests.Stats(ctx, f)
}

// Balances lists the employee's counters. A non-zero year keeps that year's
// buckets plus the lifetime ones.
func (u *Usecase) Balances(ctx context.Context, employeeID string, year int) (*BalanceSummaryDTO, error) {
	cs, err := u.balances.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := &BalanceSummaryDTO{EmployeeID: employeeID, Year: year, Counters: make([]balance.Counter, 0, len(cs))}
	period := strconv.Itoa(year)
	for _, c := range cs {
		if year == 0 || c.Period == period || c.Period == balance.Lifetime {
			out.Counters = append(out.Counters, c)
		}
	}
	return out, nil
}
