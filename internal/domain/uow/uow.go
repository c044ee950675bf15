package uow

import (
	"context"

	"hr-leave-engine/internal/domain/balance"
	"hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
)

// Repos are bound to a single transaction.
type Repos struct {
	Policies policy.Repository
	Requests leave.Repository
	Balances balance.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the leave request first, then pass it in
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *leave.Request) error) error
}
