package gormstore

import (
	"context"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/employee"
	"hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/domain/uow"

	"gorm.io/gorm"
)

var (
	_ uow.UnitOfWork     = (*GormUoW)(nil)
	_ policy.Repository  = (*PolicyRepository)(nil)
	_ leave.Repository   = (*LeaveRequestRepository)(nil)
	_ balance.Repository = (*BalanceRepository)(nil)
	_ employee.Directory = (*EmployeeDirectory)(nil)
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Policies: &PolicyRepository{db: tx},
		Requests: &LeaveRequestRepository{db: tx},
		Balances: &BalanceRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *leave.Request) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the request row up-front to serialize deciders on mysql/postgres
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}
