// Package memory is a mutex-guarded in-process implementation of the engine's
// repositories. It backs tests and single-node demo runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/domain/uow"
)

type bucketKey struct {
	employeeID string
	leaveType  policy.LeaveType
	period     string
}

type state struct {
	policies  map[policy.LeaveType]policy.Policy
	revisions []policy.Revision
	requests  map[string]leave.Request
	balances  map[bucketKey]balance.Counter
	employees map[string]employee.Employee
	nextID    uint64
}

func (s *state) clone() state {
	out := state{
		policies:  make(map[policy.LeaveType]policy.Policy, len(s.policies)),
		revisions: append([]policy.Revision(nil), s.revisions...),
		requests:  make(map[string]leave.Request, len(s.requests)),
		balances:  make(map[bucketKey]balance.Counter, len(s.balances)),
		employees: make(map[string]employee.Employee, len(s.employees)),
		nextID:    s.nextID,
	}
	for k, v := range s.policies {
		out.policies[k] = v.Clone()
	}
	for k, v := range s.requests {
		out.requests[k] = v
	}
	for k, v := range s.balances {
		out.balances[k] = v
	}
	for k, v := range s.employees {
		out.employees[k] = v
	}
	return out
}

// Store holds all tables. Transactions are serialized by txMu and rolled back
// by restoring a snapshot, so writes outside a transaction take txMu as well.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		st: state{
			policies:  map[policy.LeaveType]policy.Policy{},
			requests:  map[string]leave.Request{},
			balances:  map[bucketKey]balance.Counter{},
			employees: map[string]employee.Employee{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() uint64 {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) Policies() *PolicyRepository { return &PolicyRepository{s: s} }

func (s *Store) Requests() *LeaveRequestRepository { return &LeaveRequestRepository{s: s} }

func (s *Store) Balances() *BalanceRepository { return &BalanceRepository{s: s} }

func (s *Store) Employees() *EmployeeDirectory { return &EmployeeDirectory{s: s} }

func (s *Store) UnitOfWork() *UoW { return &UoW{s: s} }

func (s *Store) repos() uow.Repos {
	return uow.Repos{
		Policies: &PolicyRepository{s: s, tx: true},
		Requests: &LeaveRequestRepository{s: s, tx: true},
		Balances: &BalanceRepository{s: s, tx: true},
	}
}

// lockWrite holds txMu for a write made outside a transaction. Repos handed to
// a transaction already run under it.
func (s *Store) lockWrite(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

var (
	_ uow.UnitOfWork     = (*UoW)(nil)
	_ policy.Repository  = (*PolicyRepository)(nil)
	_ leave.Repository   = (*LeaveRequestRepository)(nil)
	_ balance.Repository = (*BalanceRepository)(nil)
	_ employee.Directory = (*EmployeeDirectory)(nil)
)

// ---- unit of work ----

type UoW struct{ s *Store }

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()

	u.s.mu.Lock()
	snap := u.s.st.clone()
	u.s.mu.Unlock()

	if err := fn(u.s.repos()); err != nil {
		u.s.mu.Lock()
		u.s.st = snap
		u.s.mu.Unlock()
		return err
	}
	return nil
}

func (u *UoW) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *leave.Request) error) error {
	return u.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}

// ---- policies ----

type PolicyRepository struct {
	s  *Store
	tx bool
}

func (r *PolicyRepository) GetByType(_ context.Context, t policy.LeaveType) (*policy.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.policies[t]
	if !ok {
		return nil, policy.NotFound(t)
	}
	out := p.Clone()
	return &out, nil
}

func (r *PolicyRepository) List(_ context.Context, activeOnly bool) ([]policy.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]policy.Policy, 0, len(r.s.st.policies))
	for _, p := range r.s.st.policies {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveType < out[j].LeaveType })
	return out, nil
}

func (r *PolicyRepository) Create(_ context.Context, p *policy.Policy) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.policies[p.LeaveType]; ok {
		return errs.New(errs.DuplicateKind, fmt.Sprintf("policy for leave type %q already exists", p.LeaveType))
	}
	now := r.s.now()
	p.ID = r.s.id()
	p.PolicyVersion = 1
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.st.policies[p.LeaveType] = p.Clone()
	r.s.addRevision(*p, p.LastUpdatedBy)
	return nil
}

func (s *Store) addRevision(p policy.Policy, actor string) {
	rev := policy.NewRevision(p, actor)
	rev.ID = s.id()
	rev.CreatedAt = s.now()
	s.st.revisions = append(s.st.revisions, *rev)
}

func (r *PolicyRepository) Update(_ context.Context, t policy.LeaveType, f policy.UpdatableFields, actor string) (*policy.Policy, error) {
	return r.mutate(t, actor, func(p *policy.Policy) error {
		f.Apply(p)
		return p.Validate()
	})
}

func (r *PolicyRepository) UpsertFacilityOverride(_ context.Context, t policy.LeaveType, o policy.FacilityOverride, actor string) (*policy.Policy, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return r.mutate(t, actor, func(p *policy.Policy) error {
		p.SetFacilityOverride(o)
		return nil
	})
}

func (r *PolicyRepository) mutate(t policy.LeaveType, actor string, fn func(p *policy.Policy) error) (*policy.Policy, error) {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.policies[t]
	if !ok {
		return nil, policy.NotFound(t)
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.PolicyVersion = cur.PolicyVersion + 1
	next.LastUpdatedBy = actor
	next.UpdatedAt = r.s.now()
	r.s.st.policies[t] = next
	r.s.addRevision(next, actor)
	out := next.Clone()
	return &out, nil
}

func (r *PolicyRepository) History(_ context.Context, t policy.LeaveType) ([]policy.Revision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []policy.Revision
	for i := len(r.s.st.revisions) - 1; i >= 0; i-- {
		if r.s.st.revisions[i].LeaveType == t {
			out = append(out, r.s.st.revisions[i])
		}
	}
	return out, nil
}

// ---- leave requests ----

type LeaveRequestRepository struct {
	s  *Store
	tx bool
}

func (r *LeaveRequestRepository) Create(_ context.Context, req *leave.Request) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.requests[req.RequestID]; ok {
		return errs.New(errs.DuplicateKind, fmt.Sprintf("leave request %s already exists", req.RequestID))
	}
	now := r.s.now()
	req.ID = r.s.id()
	req.CreatedAt, req.UpdatedAt = now, now
	r.s.st.requests[req.RequestID] = *req
	return nil
}

func (r *LeaveRequestRepository) GetByRequestID(_ context.Context, requestID string) (*leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.requests[requestID]
	if !ok {
		return nil, errs.New(errs.NotFoundKind, fmt.Sprintf("leave request %s not found", requestID))
	}
	return &req, nil
}

func (r *LeaveRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*leave.Request, error) {
	return r.GetByRequestID(ctx, requestID)
}

func (r *LeaveRequestRepository) filter(keep func(leave.Request) bool) []leave.Request {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leave.Request
	for _, req := range r.s.st.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	return out
}

func (r *LeaveRequestRepository) List(_ context.Context, f leave.ListFilter) ([]leave.Request, error) {
	out := r.filter(func(req leave.Request) bool {
		return (f.EmployeeID == "" || req.EmployeeID == f.EmployeeID) &&
			(f.FacilityID == "" || req.FacilityID == f.FacilityID) &&
			(f.LeaveType == "" || req.LeaveType == f.LeaveType) &&
			(f.Status == "" || req.Status == f.Status)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *LeaveRequestRepository) ListPending(_ context.Context, facilityID string, t policy.LeaveType) ([]leave.Request, error) {
	out := r.filter(func(req leave.Request) bool {
		return req.Status == leave.StatusPending &&
			(facilityID == "" || req.FacilityID == facilityID) &&
			(t == "" || req.LeaveType == t)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequiresUrgentApproval != out[j].RequiresUrgentApproval {
			return out[i].RequiresUrgentApproval
		}
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LeaveRequestRepository) ListOverdueUrgent(_ context.Context, now time.Time) ([]leave.Request, error) {
	out := r.filter(func(req leave.Request) bool { return req.IsUrgentOverdue(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].UrgentDeadline.Before(*out[j].UrgentDeadline) })
	return out, nil
}

func (r *LeaveRequestRepository) Stats(_ context.Context, f leave.StatsFilter) (*leave.Stats, error) {
	out := leave.NewStats()
	for _, req := range r.filter(f.Match) {
		out.Tally(req.LeaveType, req.Status, 1, req.Days)
	}
	return out, nil
}

func (r *LeaveRequestRepository) TransitionFromPending(_ context.Context, requestID string, t leave.Transition) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.st.requests[requestID]
	if !ok || req.Status != leave.StatusPending {
		return false, nil
	}
	t.ApplyTo(&req)
	req.UpdatedAt = r.s.now()
	r.s.st.requests[requestID] = req
	return true, nil
}

// ---- balances ----

type BalanceRepository struct {
	s  *Store
	tx bool
}

func (r *BalanceRepository) Used(_ context.Context, employeeID string, t policy.LeaveType, period string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.st.balances[bucketKey{employeeID, t, period}].UsedDays, nil
}

func (r *BalanceRepository) Reserve(_ context.Context, employeeID string, t policy.LeaveType, period string, days, limit int) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := bucketKey{employeeID, t, period}
	c, ok := r.s.st.balances[k]
	if !ok {
		c = balance.Counter{ID: r.s.id(), EmployeeID: employeeID, LeaveType: t, Period: period, CreatedAt: r.s.now()}
	}
	if limit > 0 && c.UsedDays+days > limit {
		return false, nil
	}
	c.UsedDays += days
	c.UpdatedAt = r.s.now()
	r.s.st.balances[k] = c
	return true, nil
}

func (r *BalanceRepository) ListByEmployee(_ context.Context, employeeID string) ([]balance.Counter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []balance.Counter
	for k, c := range r.s.st.balances {
		if k.employeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeaveType != out[j].LeaveType {
			return out[i].LeaveType < out[j].LeaveType
		}
		return out[i].Period > out[j].Period
	})
	return out, nil
}

// ---- employees ----

type EmployeeDirectory struct{ s *Store }

func (d *EmployeeDirectory) GetByEmployeeID(_ context.Context, employeeID string) (*employee.Employee, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	e, ok := d.s.st.employees[employeeID]
	if !ok || !e.IsActive {
		return nil, errs.New(errs.NotFoundKind, fmt.Sprintf("employee %s not found", employeeID))
	}
	return &e, nil
}

func (d *EmployeeDirectory) Upsert(_ context.Context, e *employee.Employee) error {
	defer d.s.lockWrite(false)()
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	if cur, ok := d.s.st.employees[e.EmployeeID]; ok {
		e.ID = cur.ID
	} else {
		e.ID = d.s.id()
	}
	d.s.st.employees[e.EmployeeID] = *e
	return nil
}
