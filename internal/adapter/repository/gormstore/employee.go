package gormstore

import (
	"context"
	"errors"
	"fmt"

	employeeDomain "hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmployeeDirectory struct{ db *gorm.DB }

func NewEmployeeDirectory(db *gorm.DB) *EmployeeDirectory { return &EmployeeDirectory{db: db} }

func (d *EmployeeDirectory) GetByEmployeeID(ctx context.Context, employeeID string) (*employeeDomain.Employee, error) {
	var out employeeDomain.Employee
	err := d.db.WithContext(ctx).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.NotFoundKind, fmt.Sprintf("employee %s not found", employeeID))
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert inserts the entry or refreshes facility, grade and status by employee_id.
func (d *EmployeeDirectory) Upsert(ctx context.Context, e *employeeDomain.Employee) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"facility_id", "grade_level", "is_active", "updated_at"}),
		}).
		Create(e).Error
}
