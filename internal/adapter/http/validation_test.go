package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"hr-leave-engine/internal/domain/errs"
)

func validationList(t *testing.T, err error) errs.List {
	t.Helper()
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validator.ValidationErrors, got %T %v", err, err)
	}
	return fromValidator(ve)
}

func TestEmployeeIDValidation(t *testing.T) {
	type P struct {
		EmployeeID string `json:"employeeId" validate:"omitempty,employeeid"`
	}
	cv := NewValidator()

	for _, s := range []string{"", "E1", "EMP_0042", "a-b", strings.Repeat("x", 32)} {
		if err := cv.Validate(P{EmployeeID: s}); err != nil {
			t.Fatalf("expected %q to be valid, got err: %v", s, err)
		}
	}

	for _, s := range []string{
		"../escaped",
		"..",
		"a/b",
		`a\b`,
		"E 1",
		strings.Repeat("x", 33),
	} {
		list := validationList(t, cv.Validate(P{EmployeeID: s}))
		if len(list) != 1 || list[0].Field != "employeeId" || !strings.Contains(list[0].Message, "letters, digits") {
			t.Fatalf("unexpected errors for %q: %+v", s, list)
		}
	}
}

func TestLeaveTypeValidation(t *testing.T) {
	type P struct {
		LeaveType string `json:"leaveType" validate:"required,leavetype"`
	}
	cv := NewValidator()

	for _, s := range []string{"annual", "official-assignment", "casual"} {
		if err := cv.Validate(P{LeaveType: s}); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	tests := []struct {
		in   string
		want string
	}{
		{"", "is required"},
		{"sick", "must be a known leave type"},
		{"Annual", "must be a known leave type"},
	}
	for _, tt := range tests {
		list := validationList(t, cv.Validate(P{LeaveType: tt.in}))
		if list[0].Kind != errs.ValidationKind || !strings.Contains(list[0].Message, tt.want) {
			t.Fatalf("%q: got %+v", tt.in, list)
		}
	}
}

func TestIsoDateValidation(t *testing.T) {
	type P struct {
		StartDate string `json:"startDate" validate:"isodate"`
	}
	cv := NewValidator()
	for _, s := range []string{"2026-10-20", "2026-10-20T00:00:00Z", "2026-10-20T08:00:00+07:00"} {
		if err := cv.Validate(P{StartDate: s}); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	for _, s := range []string{"20-10-2026", "tomorrow", "2026-13-01"} {
		list := validationList(t, cv.Validate(P{StartDate: s}))
		if list[0].Field != "startDate" {
			t.Fatalf("%q: got %+v", s, list)
		}
	}
}
