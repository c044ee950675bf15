package employee

import (
	"context"
	"time"
)

// Employee is the slice of the HR directory the leave engine reads.
// Table: employees (owned by the directory service).
type Employee struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	EmployeeID string    `gorm:"column:employee_id;size:32;not null;uniqueIndex:ux_employees_employee_id" json:"employeeId"`
	FacilityID string    `gorm:"column:facility_id;size:32;index:idx_employees_facility" json:"facilityId"`
	GradeLevel int       `gorm:"column:grade_level" json:"gradeLevel"`
	IsActive   bool      `gorm:"column:is_active" json:"isActive"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Employee) TableName() string { return "employees" }

type Directory interface {
	// GetByEmployeeID fails with NotFoundKind for unknown or inactive employees.
	GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
}
