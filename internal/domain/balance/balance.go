package balance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/policy"
)

// Lifetime is the period key of the never-resetting bucket.
const Lifetime = "lifetime"

// Table: leave_balances, one row per (employee, leave type, period).
type Counter struct {
	ID         uint64           `gorm:"primaryKey;column:id" json:"-"`
	EmployeeID string           `gorm:"column:employee_id;size:32;not null;uniqueIndex:ux_leave_balances_bucket,priority:1" json:"employeeId"`
	LeaveType  policy.LeaveType `gorm:"column:leave_type;size:32;not null;uniqueIndex:ux_leave_balances_bucket,priority:2" json:"leaveType"`
	Period     string           `gorm:"column:period;size:16;not null;uniqueIndex:ux_leave_balances_bucket,priority:3" json:"period"`
	UsedDays   int              `gorm:"column:used_days;not null;default:0" json:"usedDays"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Counter) TableName() string { return "leave_balances" }

type Repository interface {
	Used(ctx context.Context, employeeID string, t policy.LeaveType, period string) (int, error)
	// Reserve adds days to the bucket only if the total stays within limit
	// (limit 0 = unlimited). It returns false when the limit would be crossed.
	Reserve(ctx context.Context, employeeID string, t policy.LeaveType, period string, days, limit int) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Counter, error)
}

// Bucket is one counter a request is charged against. Limit 0 = unlimited.
type Bucket struct {
	Period string `json:"period"`
	Limit  int    `json:"limit"`
}

func YearPeriod(t time.Time) string { return strconv.Itoa(t.UTC().Year()) }

// Buckets lists the counters charged for a request starting at start.
// Annual policies charge the start date's year, plus a lifetime bucket when a
// lifetime cap exists. Non-resetting policies charge only the lifetime bucket,
// capped by maxDaysLifetime or, failing that, maxDaysPerYear.
func Buckets(p policy.EffectivePolicy, start time.Time) []Bucket {
	limit := func(v int) int {
		if !p.HasBalanceLimit {
			return 0
		}
		return v
	}
	if p.BalanceResetAnnually {
		out := []Bucket{{Period: YearPeriod(start), Limit: limit(p.MaxDaysPerYear)}}
		if p.MaxDaysLifetime > 0 {
			out = append(out, Bucket{Period: Lifetime, Limit: limit(p.MaxDaysLifetime)})
		}
		return out
	}
	lifetime := p.MaxDaysLifetime
	if lifetime == 0 {
		lifetime = p.MaxDaysPerYear
	}
	return []Bucket{{Period: Lifetime, Limit: limit(lifetime)}}
}

type Usage struct {
	Bucket
	Used int `json:"used"`
}

// Remaining is -1 for unlimited buckets.
func (u Usage) Remaining() int {
	if u.Limit == 0 {
		return -1
	}
	if r := u.Limit - u.Used; r > 0 {
		return r
	}
	return 0
}

func (u Usage) Exceeds(days int) bool { return u.Limit > 0 && u.Used+days > u.Limit }

func exceededError(t policy.LeaveType, u Usage, days int) *errs.Error {
	return errs.WithParams(errs.BalanceExceededKind,
		fmt.Sprintf("%s balance for %s exhausted: %d of %d days used, %d requested", t, u.Period, u.Used, u.Limit, days),
		map[string]any{"LeaveType": string(t), "Period": u.Period, "Used": u.Used, "Limit": u.Limit, "Days": days})
}

// Tracker computes projected usage and charges approved days.
type Tracker struct{ repo Repository }

func NewTracker(r Repository) *Tracker { return &Tracker{repo: r} }

func (tr *Tracker) Usage(ctx context.Context, employeeID string, p policy.EffectivePolicy, start time.Time) ([]Usage, error) {
	bs := Buckets(p, start)
	out := make([]Usage, 0, len(bs))
	for _, b := range bs {
		used, err := tr.repo.Used(ctx, employeeID, p.LeaveType, b.Period)
		if err != nil {
			return nil, err
		}
		out = append(out, Usage{Bucket: b, Used: used})
	}
	return out, nil
}

// CheckAndReserve charges days against every bucket. Run it inside the caller's
// transaction: a later bucket failing must roll back earlier increments.
func (tr *Tracker) CheckAndReserve(ctx context.Context, employeeID string, p policy.EffectivePolicy, start time.Time, days int) error {
	for _, b := range Buckets(p, start) {
		ok, err := tr.repo.Reserve(ctx, employeeID, p.LeaveType, b.Period, days, b.Limit)
		if err != nil {
			return err
		}
		if !ok {
			used, err := tr.repo.Used(ctx, employeeID, p.LeaveType, b.Period)
			if err != nil {
				return err
			}
			return exceededError(p.LeaveType, Usage{Bucket: b, Used: used}, days)
		}
	}
	return nil
}

// Check reports BalanceExceededKind for the first bucket days would overflow.
func Check(p policy.EffectivePolicy, usage []Usage, days int) *errs.Error {
	for _, u := range usage {
		if u.Exceeds(days) {
			return exceededError(p.LeaveType, u, days)
		}
	}
	return nil
}
