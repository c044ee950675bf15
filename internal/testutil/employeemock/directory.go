package employeemock

import (
	"context"

	domain "hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/errs"
)

var _ domain.Directory = (*Directory)(nil)

// Directory serves a fixed set of employees unless GetFn is set.
type Directory struct {
	GetFn     func(ctx context.Context, employeeID string) (*domain.Employee, error)
	Employees map[string]domain.Employee
}

func (m *Directory) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, employeeID)
	}
	if e, ok := m.Employees[employeeID]; ok {
		return &e, nil
	}
	return nil, errs.New(errs.NotFoundKind, "employee "+employeeID+" not found")
}
