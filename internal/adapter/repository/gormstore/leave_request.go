package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr-leave-engine/internal/domain/errs"
	leaveDomain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRequestRepository struct{ db *gorm.DB }

func NewLeaveRequestRepository(db *gorm.DB) *LeaveRequestRepository {
	return &LeaveRequestRepository{db: db}
}

func requestNotFound(id string) error {
	return errs.New(errs.NotFoundKind, fmt.Sprintf("leave request %s not found", id))
}

func (r *LeaveRequestRepository) Create(ctx context.Context, req *leaveDomain.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *LeaveRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*leaveDomain.Request, error) {
	return r.get(r.db.WithContext(ctx), requestID)
}

// GetByRequestIDForUpdate issues SELECT ... FOR UPDATE; the sqlite dialect drops the locking clause.
func (r *LeaveRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*leaveDomain.Request, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), requestID)
}

func (r *LeaveRequestRepository) get(q *gorm.DB, requestID string) (*leaveDomain.Request, error) {
	var out leaveDomain.Request
	err := q.Where("request_id = ?", requestID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, requestNotFound(requestID)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LeaveRequestRepository) List(ctx context.Context, f leaveDomain.ListFilter) ([]leaveDomain.Request, error) {
	q := r.db.WithContext(ctx)
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.FacilityID != "" {
		q = q.Where("facility_id = ?", f.FacilityID)
	}
	if f.LeaveType != "" {
		q = q.Where("leave_type = ?", f.LeaveType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []leaveDomain.Request
	err := q.Order("submitted_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LeaveRequestRepository) ListPending(ctx context.Context, facilityID string, t policy.LeaveType) ([]leaveDomain.Request, error) {
	q := r.db.WithContext(ctx).Where("status = ?", leaveDomain.StatusPending)
	if facilityID != "" {
		q = q.Where("facility_id = ?", facilityID)
	}
	if t != "" {
		q = q.Where("leave_type = ?", t)
	}
	var out []leaveDomain.Request
	err := q.Order("requires_urgent_approval DESC, submitted_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *LeaveRequestRepository) ListOverdueUrgent(ctx context.Context, now time.Time) ([]leaveDomain.Request, error) {
	var out []leaveDomain.Request
	err := r.db.WithContext(ctx).
		Where("status = ? AND requires_urgent_approval = ? AND urgent_deadline < ?", leaveDomain.StatusPending, true, now.UTC()).
		Order("urgent_deadline ASC, id ASC").
		Find(&out).Error
	return out, err
}

// TransitionFromPending is a single conditional UPDATE; the status predicate
// makes the second of two racing deciders affect zero rows.
func (r *LeaveRequestRepository) TransitionFromPending(ctx context.Context, requestID string, t leaveDomain.Transition) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&leaveDomain.Request{}).
		Where("request_id = ? AND status = ?", requestID, leaveDomain.StatusPending).
		Updates(map[string]any{
			"status":           t.To,
			"approved_by":      t.ApprovedBy,
			"approved_at":      t.ApprovedAt,
			"manager_notes":    t.ManagerNotes,
			"rejection_reason": t.RejectionReason,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type statsRow struct {
	LeaveType policy.LeaveType
	Status    leaveDomain.Status
	N         int
	Days      int
}

// Stats groups matching requests by type and status in one query.
func (r *LeaveRequestRepository) Stats(ctx context.Context, f leaveDomain.StatsFilter) (*leaveDomain.Stats, error) {
	q := r.db.WithContext(ctx).Model(&leaveDomain.Request{})
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.FacilityID != "" {
		q = q.Where("facility_id = ?", f.FacilityID)
	}
	if f.From != nil {
		q = q.Where("start_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", f.To.UTC())
	}
	var rows []statsRow
	err := q.Select("leave_type, status, COUNT(*) AS n, COALESCE(SUM(days), 0) AS days").
		Group("leave_type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := leaveDomain.NewStats()
	for _, row := range rows {
		out.Tally(row.LeaveType, row.Status, row.N, row.Days)
	}
	return out, nil
}
