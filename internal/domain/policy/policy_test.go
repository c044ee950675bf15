package policy

import (
	"errors"
	"testing"

	"hr-leave-engine/internal/domain/errs"
)

func TestDefaults_Catalogue(t *testing.T) {
	ds := Defaults()
	if len(ds) != len(LeaveTypes()) {
		t.Fatalf("defaults = %d policies, want %d", len(ds), len(LeaveTypes()))
	}
	seen := map[LeaveType]Policy{}
	for _, p := range ds {
		if err := p.Validate(); err != nil {
			t.Fatalf("%s: invalid default: %v", p.LeaveType, err)
		}
		if _, dup := seen[p.LeaveType]; dup {
			t.Fatalf("duplicate default %s", p.LeaveType)
		}
		seen[p.LeaveType] = p
	}

	if got := seen[Casual].MaxDaysPerRequest; got != 5 {
		t.Fatalf("casual maxDaysPerRequest = %d, want 5", got)
	}
	if got := seen[Maternity]; got.MinimumNoticeDays != 14 || !got.AllowRetroactive || got.BalanceResetAnnually {
		t.Fatalf("maternity defaults off: %+v", got)
	}
	if got := seen[OfficialAssignment]; !got.RequiresUrgentApproval || got.UrgentApprovalDeadlineHours != 24 {
		t.Fatalf("official-assignment urgency off: %+v", got)
	}
	if got := seen[Sabbatical].MinimumNoticeDays; got != 60 {
		t.Fatalf("sabbatical notice = %d, want 60", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(Religious, "Religious Leave")
	if !p.IsPaid || p.SalaryPercentage != 100 || p.HasBalanceLimit {
		t.Fatalf("pay defaults off: %+v", p)
	}
	if !p.BalanceResetAnnually || !p.RequiresApproval || !p.RequiresManagerApproval || p.RequiresHRApproval {
		t.Fatalf("approval defaults off: %+v", p)
	}
	if p.MinDaysPerRequest != 1 || p.MaxDaysPerRequest != 0 || !p.IsActive || p.PolicyVersion != 1 {
		t.Fatalf("request defaults off: %+v", p)
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	p := New("vacation", "")
	p.SalaryPercentage = 120
	p.MaxDaysPerYear = -1
	p.GradeLevelRules = append(p.GradeLevelRules, GradeLevelRule{MinGradeLevel: 9, MaxGradeLevel: 3})

	err := p.Validate()
	var list errs.List
	if !errors.As(err, &list) {
		t.Fatalf("want errs.List, got %T %v", err, err)
	}
	if len(list) < 5 {
		t.Fatalf("want at least 5 violations, got %d: %v", len(list), list)
	}
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("violations should be ValidationKind")
	}
}

func TestUpdatableFields_Apply(t *testing.T) {
	p := New(Casual, "Casual Leave")
	name := "Casual"
	maxDays := 3
	docs := []string{"Note"}
	UpdatableFields{DisplayName: &name, MaxDaysPerRequest: &maxDays, RequiredDocuments: &docs}.Apply(&p)

	if p.DisplayName != "Casual" || p.MaxDaysPerRequest != 3 {
		t.Fatalf("apply did not set fields: %+v", p)
	}
	if len(p.RequiredDocuments) != 1 || p.RequiredDocuments[0] != "Note" {
		t.Fatalf("documents not replaced: %v", p.RequiredDocuments)
	}
	if p.LeaveType != Casual || p.PolicyVersion != 1 {
		t.Fatalf("identity fields must not move: %+v", p)
	}
	docs[0] = "changed"
	if p.RequiredDocuments[0] != "Note" {
		t.Fatalf("documents aliased caller slice")
	}
}

func TestSetFacilityOverride_ReplaceOrAppend(t *testing.T) {
	p := New(Annual, "Annual Leave")
	p.SetFacilityOverride(FacilityOverride{FacilityID: "F1", MaxDaysPerYear: intp(10)})
	p.SetFacilityOverride(FacilityOverride{FacilityID: "F2", MaxDaysPerYear: intp(20)})
	p.SetFacilityOverride(FacilityOverride{FacilityID: "F1", MaxDaysPerYear: intp(11)})

	if len(p.FacilityOverrides) != 2 {
		t.Fatalf("overrides = %d, want 2", len(p.FacilityOverrides))
	}
	o, ok := p.FacilityOverride("F1")
	if !ok || *o.MaxDaysPerYear != 11 {
		t.Fatalf("F1 not replaced: %+v", o)
	}
}
