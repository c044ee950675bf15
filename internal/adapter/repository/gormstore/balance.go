package gormstore

import (
	"context"
	"errors"

	balanceDomain "hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct{ db *gorm.DB }

func NewBalanceRepository(db *gorm.DB) *BalanceRepository { return &BalanceRepository{db: db} }

func (r *BalanceRepository) bucket(ctx context.Context, employeeID string, t policy.LeaveType, period string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&balanceDomain.Counter{}).
		Where("employee_id = ? AND leave_type = ? AND period = ?", employeeID, t, period)
}

func (r *BalanceRepository) Used(ctx context.Context, employeeID string, t policy.LeaveType, period string) (int, error) {
	var c balanceDomain.Counter
	err := r.bucket(ctx, employeeID, t, period).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return c.UsedDays, err
}

// Reserve makes sure the bucket row exists, then increments it with the cap in
// the WHERE clause so the check and the write are one statement.
func (r *BalanceRepository) Reserve(ctx context.Context, employeeID string, t policy.LeaveType, period string, days, limit int) (bool, error) {
	seed := &balanceDomain.Counter{EmployeeID: employeeID, LeaveType: t, Period: period}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return false, err
	}

	q := r.bucket(ctx, employeeID, t, period)
	if limit > 0 {
		q = q.Where("used_days + ? <= ?", days, limit)
	}
	res := q.UpdateColumn("used_days", gorm.Expr("used_days + ?", days))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BalanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]balanceDomain.Counter, error) {
	var out []balanceDomain.Counter
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("leave_type ASC, period DESC").
		Find(&out).Error
	return out, err
}
