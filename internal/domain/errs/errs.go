package errs

import (
	"errors"
	"strings"
)

type Kind string

const (
	PolicyNotFoundKind       Kind = "PolicyNotFound"
	NotFoundKind             Kind = "NotFound"
	DuplicateKind            Kind = "Duplicate"
	InsufficientNoticeKind   Kind = "InsufficientNotice"
	RequestTooLongKind       Kind = "RequestTooLong"
	MissingDocumentationKind Kind = "MissingDocumentation"
	BalanceExceededKind      Kind = "BalanceExceeded"
	MissingReasonKind        Kind = "MissingReason"
	AlreadyProcessedKind     Kind = "AlreadyProcessed"
	ValidationKind           Kind = "Validation"
	UnauthorizedKind         Kind = "Unauthorized"
	ForbiddenKind            Kind = "Forbidden"
	InternalKind             Kind = "Internal"
)

// Error is a classified domain failure. Params feed message localization.
type Error struct {
	Kind    Kind           `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
	Params  map[string]any `json:"-"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// Is matches on kind only, so errors.Is(err, ErrPolicyNotFound) holds for any
// PolicyNotFoundKind error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func WithParams(kind Kind, msg string, params map[string]any) *Error {
	return &Error{Kind: kind, Message: msg, Params: params}
}

func Field(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Message: msg}
}

// Sentinels for errors.Is checks.
var (
	ErrPolicyNotFound       = &Error{Kind: PolicyNotFoundKind}
	ErrNotFound             = &Error{Kind: NotFoundKind}
	ErrDuplicate            = &Error{Kind: DuplicateKind}
	ErrInsufficientNotice   = &Error{Kind: InsufficientNoticeKind}
	ErrRequestTooLong       = &Error{Kind: RequestTooLongKind}
	ErrMissingDocumentation = &Error{Kind: MissingDocumentationKind}
	ErrBalanceExceeded      = &Error{Kind: BalanceExceededKind}
	ErrMissingReason        = &Error{Kind: MissingReasonKind}
	ErrAlreadyProcessed     = &Error{Kind: AlreadyProcessedKind}
	ErrValidation           = &Error{Kind: ValidationKind}
)

// List aggregates independent violations. errors.Is on a List checks every member.
type List []*Error

func (l List) Error() string {
	parts := make([]string, 0, len(l))
	for _, e := range l {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (l List) Unwrap() []error {
	out := make([]error, 0, len(l))
	for _, e := range l {
		out = append(out, e)
	}
	return out
}

// Kinds lists the distinct kinds in order of first appearance.
func (l List) Kinds() []Kind {
	seen := map[Kind]bool{}
	var out []Kind
	for _, e := range l {
		if !seen[e.Kind] {
			seen[e.Kind] = true
			out = append(out, e.Kind)
		}
	}
	return out
}

// KindOf returns the kind of the first classified error in err's chain,
// or InternalKind for anything unclassified.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var l List
	if errors.As(err, &l) && len(l) > 0 {
		return l[0].Kind
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InternalKind
}

// IsNotFound reports both the generic and the policy-specific not-found kinds.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPolicyNotFound)
}

// IsClientError is true for kinds caused by caller input (400 family).
func (k Kind) IsClientError() bool {
	switch k {
	case DuplicateKind, InsufficientNoticeKind, RequestTooLongKind, MissingDocumentationKind,
		BalanceExceededKind, MissingReasonKind, ValidationKind:
		return true
	}
	return false
}
