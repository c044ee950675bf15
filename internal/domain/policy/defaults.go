package policy

import "gorm.io/datatypes"

// New returns a policy for t carrying the standard defaults: paid at 100%,
// annual reset, manager approval, 24h urgent window, one-day minimum request.
func New(t LeaveType, displayName string) Policy {
	return Policy{
		LeaveType:                   t,
		DisplayName:                 displayName,
		IsPaid:                      true,
		SalaryPercentage:            100,
		BalanceResetAnnually:        true,
		RequiresApproval:            true,
		RequiresManagerApproval:     true,
		UrgentApprovalDeadlineHours: 24,
		MinDaysPerRequest:           1,
		IsActive:                    true,
		PolicyVersion:               1,
	}
}

func docs(d ...string) datatypes.JSONSlice[string] { return datatypes.JSONSlice[string](d) }

// Defaults is the stock catalogue installed on first boot.
func Defaults() []Policy {
	annual := New(Annual, "Annual Leave")
	annual.Description = "Yearly vacation leave based on grade level"
	annual.HasBalanceLimit = true
	annual.MaxDaysPerYear = 30
	annual.MinimumNoticeDays = 3
	annual.GradeLevelRules = datatypes.JSONSlice[GradeLevelRule]{
		{MinGradeLevel: 1, MaxGradeLevel: 3, MaxDaysPerYear: 14, SalaryPercentage: 100},
		{MinGradeLevel: 4, MaxGradeLevel: 6, MaxDaysPerYear: 21, SalaryPercentage: 100},
		{MinGradeLevel: 7, MaxGradeLevel: 17, MaxDaysPerYear: 30, SalaryPercentage: 100},
	}
	annual.Notes = "Annual leave entitlement varies by grade level"

	maternity := New(Maternity, "Maternity Leave")
	maternity.Description = "Leave for pregnancy and childbirth"
	maternity.HasBalanceLimit = true
	maternity.MaxDaysPerYear = 84
	maternity.BalanceResetAnnually = false
	maternity.RequiresHRApproval = true
	maternity.RequiresDocumentation = true
	maternity.RequiredDocuments = docs("Medical certificate", "Expected delivery date confirmation")
	maternity.MinimumNoticeDays = 14
	maternity.AllowRetroactive = true
	maternity.MaxDaysPerRequest = 84
	maternity.Notes = "12 weeks (84 days) paid maternity leave"

	adoptive := New(Adoptive, "Adoptive Leave")
	adoptive.Description = "Adoptive Leave"
	adoptive.HasBalanceLimit = true
	adoptive.MaxDaysPerYear = 112
	adoptive.BalanceResetAnnually = false
	adoptive.RequiresHRApproval = true
	adoptive.RequiresDocumentation = true
	adoptive.RequiredDocuments = docs("Adoption papers", "Court order")
	adoptive.MinimumNoticeDays = 7
	adoptive.MaxDaysPerRequest = 112
	adoptive.Notes = "16 weeks (112 days) paid adoptive leave"

	takaba := New(Takaba, "Takaba Leave")
	takaba.Description = "Takaba leave for eligible employees"
	takaba.HasBalanceLimit = true
	takaba.MaxDaysPerYear = 112
	takaba.BalanceResetAnnually = false
	takaba.RequiresHRApproval = true
	takaba.MinimumNoticeDays = 7
	takaba.MaxDaysPerRequest = 112
	takaba.Notes = "16 weeks (112 days) paid takaba leave"

	sabbatical := New(Sabbatical, "Sabbatical Leave")
	sabbatical.Description = "Extended leave for rest, study, or personal development"
	sabbatical.HasBalanceLimit = true
	sabbatical.MaxDaysPerYear = 365
	sabbatical.BalanceResetAnnually = false
	sabbatical.RequiresHRApproval = true
	sabbatical.RequiresDocumentation = true
	sabbatical.RequiredDocuments = docs("Sabbatical proposal", "Return plan")
	sabbatical.MinimumNoticeDays = 60
	sabbatical.MaxDaysPerRequest = 365
	sabbatical.Notes = "Default is fully paid; may be changed to partial or unpaid through a policy update"

	examination := New(Examination, "Examination Leave")
	examination.Description = "Leave for medical examinations, tests, and appointments"
	examination.RequiresDocumentation = true
	examination.RequiredDocuments = docs("Medical appointment letter/card")
	examination.MinimumNoticeDays = 1
	examination.AllowRetroactive = true
	examination.Notes = "Open leave type - no balance limit"

	study := New(Study, "Study Leave")
	study.Description = "Leave for educational purposes and training"
	study.RequiresHRApproval = true
	study.RequiresDocumentation = true
	study.RequiredDocuments = docs("Admission letter", "Training schedule")
	study.MinimumNoticeDays = 14
	study.Notes = "Open leave type - requires HR approval for extended study periods"

	religious := New(Religious, "Religious Leave")
	religious.Description = "Leave for religious observances and pilgrimages"
	religious.MinimumNoticeDays = 7
	religious.Notes = "Open leave type - for religious observances"

	casual := New(Casual, "Casual Leave")
	casual.Description = "Leave for casual and short-term personal matters"
	casual.MinimumNoticeDays = 1
	casual.AllowRetroactive = true
	casual.MaxDaysPerRequest = 5
	casual.Notes = "Open leave type - for short-term personal matters, max 5 days per request"

	absence := New(Absence, "Leave of Absence")
	absence.Description = "Leave for emergencies or unforeseen challenges"
	absence.RequiresHRApproval = true
	absence.AllowRetroactive = true
	absence.Notes = "Default is fully paid; may be changed to partial or unpaid through a policy update"

	official := New(OfficialAssignment, "Official Assignment")
	official.Description = "Leave for official duties preventing facility check-in/checkout"
	official.RequiresUrgentApproval = true
	official.UrgentApprovalDeadlineHours = 24
	official.RequiresDocumentation = true
	official.RequiredDocuments = docs("Official assignment letter/memo")
	official.AllowRetroactive = true
	official.Notes = "Must be approved the same day"

	return []Policy{
		annual, maternity, adoptive, takaba, sabbatical, examination,
		study, religious, casual, absence, official,
	}
}
