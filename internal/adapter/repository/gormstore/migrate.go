package gormstore

import (
	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"

	"gorm.io/gorm"
)

// AutoMigrate creates or evolves every table the engine owns, plus the
// employees read model when it is hosted in the same database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&policy.Policy{},
		&policy.Revision{},
		&leave.Request{},
		&balance.Counter{},
		&employee.Employee{},
	)
}
