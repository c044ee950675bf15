package leave

import (
	"sort"
	"time"

	"hr-leave-engine/internal/domain/policy"
)

// StatsFilter narrows Stats. From and To bound the start date, both inclusive.
type StatsFilter struct {
	EmployeeID string
	FacilityID string
	From       *time.Time
	To         *time.Time
}

// Match reports whether r falls inside the filter.
func (f StatsFilter) Match(r Request) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.FacilityID != "" && r.FacilityID != f.FacilityID {
		return false
	}
	if f.From != nil && r.StartDate.Before(*f.From) {
		return false
	}
	if f.To != nil && r.StartDate.After(*f.To) {
		return false
	}
	return true
}

type TypeStats struct {
	LeaveType    policy.LeaveType `json:"leaveType"`
	Total        int              `json:"count"`
	Approved     int              `json:"approvedCount"`
	ApprovedDays int              `json:"approvedDays"`
}

// Stats counts requests by outcome. Approved includes auto-approved.
type Stats struct {
	Total        int         `json:"totalRequests"`
	Approved     int         `json:"approvedRequests"`
	Pending      int         `json:"pendingRequests"`
	Rejected     int         `json:"rejectedRequests"`
	ApprovedDays int         `json:"approvedDays"`
	ByType       []TypeStats `json:"typeBreakdown"`
}

func NewStats() *Stats { return &Stats{ByType: []TypeStats{}} }

// Tally adds n requests of type t in status st covering days in total.
// ByType stays sorted by leave type.
func (s *Stats) Tally(t policy.LeaveType, st Status, n, days int) {
	i := sort.Search(len(s.ByType), func(i int) bool { return s.ByType[i].LeaveType >= t })
	if i == len(s.ByType) || s.ByType[i].LeaveType != t {
		s.ByType = append(s.ByType, TypeStats{})
		copy(s.ByType[i+1:], s.ByType[i:])
		s.ByType[i] = TypeStats{LeaveType: t}
	}
	bt := &s.ByType[i]
	s.Total += n
	bt.Total += n
	switch st {
	case StatusApproved, StatusAutoApproved:
		s.Approved += n
		s.ApprovedDays += days
		bt.Approved += n
		bt.ApprovedDays += days
	case StatusPending:
		s.Pending += n
	case StatusRejected:
		s.Rejected += n
	}
}
