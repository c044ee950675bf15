package leave

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"hr-leave-engine/internal/adapter/repository/memory"
	"hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/domain/uow"
	"hr-leave-engine/internal/testutil/employeemock"
	"hr-leave-engine/internal/testutil/leavemock"
	"hr-leave-engine/internal/testutil/policymock"
	"hr-leave-engine/internal/testutil/uowmock"
)

func defaultPolicy(t policy.LeaveType) *policy.Policy {
	for _, p := range policy.Defaults() {
		if p.LeaveType == t {
			return &p
		}
	}
	return nil
}

// mockedUsecase wires function mocks over the memory balance repository.
func mockedUsecase(pol *policymock.Repo, req *leavemock.Repo, emp *employeemock.Directory) *Usecase {
	bal := memory.NewStore().Balances()
	u := NewUsecase(Deps{
		Policies:  pol,
		Requests:  req,
		Balances:  bal,
		Employees: emp,
		UoW:       uowmock.Passthrough(uow.Repos{Policies: pol, Requests: req, Balances: bal}),
		Logger:    slog.New(slog.DiscardHandler),
	})
	u.now = func() time.Time { return now }
	return u
}

func stockPolicies() *policymock.Repo {
	return &policymock.Repo{GetByTypeFn: func(_ context.Context, t policy.LeaveType) (*policy.Policy, error) {
		if p := defaultPolicy(t); p != nil {
			return p, nil
		}
		return nil, errs.ErrPolicyNotFound
	}}
}

var e1 = &employeemock.Directory{Employees: map[string]employee.Employee{
	"E1": {EmployeeID: "E1", FacilityID: "F1", GradeLevel: 2, IsActive: true},
}}

func TestSubmit_RepositoryFailures(t *testing.T) {
	boom := errors.New("db down")
	in := SubmitInput{EmployeeID: "E1", LeaveType: policy.Annual, StartDate: day(10, 20), EndDate: day(10, 22)}

	tests := []struct {
		name    string
		pol     *policymock.Repo
		req     *leavemock.Repo
		emp     *employeemock.Directory
		in      SubmitInput
		wantErr error
	}{
		{
			name:    "unknown employee",
			pol:     stockPolicies(),
			req:     &leavemock.Repo{},
			emp:     e1,
			in:      SubmitInput{EmployeeID: "E404", LeaveType: policy.Annual, StartDate: day(10, 20), EndDate: day(10, 22)},
			wantErr: errs.ErrNotFound,
		},
		{
			name:    "policy lookup fails",
			pol:     &policymock.Repo{GetByTypeFn: func(context.Context, policy.LeaveType) (*policy.Policy, error) { return nil, boom }},
			req:     &leavemock.Repo{},
			emp:     e1,
			in:      in,
			wantErr: boom,
		},
		{
			name:    "create fails",
			pol:     stockPolicies(),
			req:     &leavemock.Repo{CreateFn: func(context.Context, *domain.Request) error { return boom }},
			emp:     e1,
			in:      in,
			wantErr: boom,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			u := mockedUsecase(tt.pol, tt.req, tt.emp)
			if _, err := u.Submit(context.Background(), tt.in, "E1"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcess_LostRaceIsAlreadyProcessed(t *testing.T) {
	stored := &domain.Request{
		RequestID: "r1", EmployeeID: "E1", FacilityID: "F1", GradeLevel: 2,
		LeaveType: policy.Casual, StartDate: day(10, 20), EndDate: day(10, 20), Days: 1, Status: domain.StatusPending,
	}
	var transitions int
	req := &leavemock.Repo{
		GetByRequestIDForUpdateFn: func(context.Context, string) (*domain.Request, error) {
			cp := *stored
			return &cp, nil
		},
		// another decider committed between our read and our write
		TransitionFromPendingFn: func(context.Context, string, domain.Transition) (bool, error) {
			transitions++
			return false, nil
		},
	}
	u := mockedUsecase(stockPolicies(), req, e1)

	_, err := u.Process(context.Background(), "r1", ProcessInput{Action: domain.ActionApprove}, "mgr")
	if !errors.Is(err, errs.ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want AlreadyProcessed", err)
	}
	if transitions != 1 {
		t.Fatalf("transitions = %d, want 1", transitions)
	}
}

func TestProcess_RejectDoesNotTouchBalance(t *testing.T) {
	stored := &domain.Request{
		RequestID: "r1", EmployeeID: "E1", LeaveType: policy.Annual,
		StartDate: day(10, 20), EndDate: day(10, 22), Days: 3, Status: domain.StatusPending,
	}
	var got domain.Transition
	req := &leavemock.Repo{
		GetByRequestIDForUpdateFn: func(context.Context, string) (*domain.Request, error) { cp := *stored; return &cp, nil },
		TransitionFromPendingFn: func(_ context.Context, _ string, tr domain.Transition) (bool, error) {
			got = tr
			return true, nil
		},
	}
	u := mockedUsecase(stockPolicies(), req, e1)

	dto, err := u.Process(context.Background(), "r1", ProcessInput{Action: domain.ActionReject, ManagerNotes: "peak season"}, "mgr")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if dto.Status != domain.StatusRejected || got.RejectionReason != "peak season" {
		t.Fatalf("unexpected result: %+v / %+v", dto.Status, got)
	}
	if used, _ := u.balances.Used(context.Background(), "E1", policy.Annual, "2026"); used != 0 {
		t.Fatalf("reject charged balance: used=%d", used)
	}
}

func TestListQueries_PropagateErrors(t *testing.T) {
	boom := errors.New("timeout")
	req := &leavemock.Repo{
		ListFn:              func(context.Context, domain.ListFilter) ([]domain.Request, error) { return nil, boom },
		ListPendingFn:       func(context.Context, string, policy.LeaveType) ([]domain.Request, error) { return nil, boom },
		ListOverdueUrgentFn: func(context.Context, time.Time) ([]domain.Request, error) { return nil, boom },
	}
	u := mockedUsecase(stockPolicies(), req, e1)
	ctx := context.Background()

	if _, err := u.ListByEmployee(ctx, "E1", "", ""); !errors.Is(err, boom) {
		t.Fatalf("ListByEmployee err = %v", err)
	}
	if _, err := u.ListPending(ctx, "F1", ""); !errors.Is(err, boom) {
		t.Fatalf("ListPending err = %v", err)
	}
	if _, err := u.ListOverdue(ctx); !errors.Is(err, boom) {
		t.Fatalf("ListOverdue err = %v", err)
	}
}
