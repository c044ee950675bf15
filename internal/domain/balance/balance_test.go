package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/policy"
)

type fakeRepo struct{ used map[string]int }

func key(emp string, t policy.LeaveType, period string) string {
	return emp + "|" + string(t) + "|" + period
}

func (f *fakeRepo) Used(_ context.Context, emp string, t policy.LeaveType, period string) (int, error) {
	return f.used[key(emp, t, period)], nil
}

func (f *fakeRepo) Reserve(_ context.Context, emp string, t policy.LeaveType, period string, days, limit int) (bool, error) {
	k := key(emp, t, period)
	if limit > 0 && f.used[k]+days > limit {
		return false, nil
	}
	f.used[k] += days
	return true, nil
}

func (f *fakeRepo) ListByEmployee(context.Context, string) ([]Counter, error) { return nil, nil }

func effective(p policy.Policy) policy.EffectivePolicy { return policy.EffectivePolicy{Policy: p} }

var start2026 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestBuckets(t *testing.T) {
	annual := policy.New(policy.Annual, "Annual")
	annual.HasBalanceLimit = true
	annual.MaxDaysPerYear = 21

	withLifetime := annual
	withLifetime.MaxDaysLifetime = 100

	maternity := policy.New(policy.Maternity, "Maternity")
	maternity.HasBalanceLimit = true
	maternity.MaxDaysPerYear = 84
	maternity.BalanceResetAnnually = false

	unlimited := policy.New(policy.Casual, "Casual")

	tests := []struct {
		name string
		p    policy.Policy
		want []Bucket
	}{
		{"annual year bucket", annual, []Bucket{{Period: "2026", Limit: 21}}},
		{"annual plus lifetime", withLifetime, []Bucket{{Period: "2026", Limit: 21}, {Period: Lifetime, Limit: 100}}},
		{"non-resetting falls back to yearly cap", maternity, []Bucket{{Period: Lifetime, Limit: 84}}},
		{"no balance limit is uncapped", unlimited, []Bucket{{Period: "2026", Limit: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Buckets(effective(tt.p), start2026))
		})
	}
}

func TestTracker_CheckAndReserve(t *testing.T) {
	p := policy.New(policy.Annual, "Annual")
	p.HasBalanceLimit = true
	p.MaxDaysPerYear = 14
	ep := effective(p)

	repo := &fakeRepo{used: map[string]int{}}
	tr := NewTracker(repo)
	ctx := context.Background()

	require.NoError(t, tr.CheckAndReserve(ctx, "E1", ep, start2026, 10))
	require.NoError(t, tr.CheckAndReserve(ctx, "E1", ep, start2026, 4))

	err := tr.CheckAndReserve(ctx, "E1", ep, start2026, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBalanceExceeded))

	// next year is a fresh bucket
	require.NoError(t, tr.CheckAndReserve(ctx, "E1", ep, start2026.AddDate(1, 0, 0), 14))

	usage, err := tr.Usage(ctx, "E1", ep, start2026)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 14, usage[0].Used)
	assert.Equal(t, 0, usage[0].Remaining())
}

func TestCheck(t *testing.T) {
	p := policy.New(policy.Annual, "Annual")
	ep := effective(p)

	usage := []Usage{{Bucket: Bucket{Period: "2026", Limit: 14}, Used: 12}}
	assert.Nil(t, Check(ep, usage, 2))
	e := Check(ep, usage, 3)
	require.NotNil(t, e)
	assert.Equal(t, errs.BalanceExceededKind, e.Kind)
	assert.Equal(t, 3, e.Params["Days"])

	assert.Nil(t, Check(ep, []Usage{{Bucket: Bucket{Period: "2026"}, Used: 500}}, 30))
	assert.Equal(t, -1, Usage{Bucket: Bucket{Period: "2026"}}.Remaining())
}
