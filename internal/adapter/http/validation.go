package http

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"hr-leave-engine/internal/domain/errs"
	"hr-leave-engine/internal/domain/policy"
)

var reEmployeeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("employeeid", func(fl validator.FieldLevel) bool {
		return reEmployeeID.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("leavetype", func(fl validator.FieldLevel) bool {
		return policy.LeaveType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "employeeid":
		return "must be 1-32 letters, digits, '-' or '_'"
	case "leavetype":
		return "must be a known leave type"
	case "isodate":
		return "must be a date (YYYY-MM-DD) or RFC3339 timestamp"
	case "oneof":
		return "must be one of: " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return e.Tag() + " validation failed"
	}
}

// fromValidator maps validator failures to ValidationKind errors keyed by json field.
func fromValidator(ve validator.ValidationErrors) errs.List {
	out := make(errs.List, 0, len(ve))
	for _, e := range ve {
		out = append(out, errs.Field(errs.ValidationKind, e.Field(), e.Field()+" "+fieldMessage(e)))
	}
	return out
}
