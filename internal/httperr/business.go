package httperr

import "errors"

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidInput       Kind = "invalid_input"
	KindPreconditionFailed Kind = "precondition_failed"
)

// BusinessError is a recoverable, request-scoped validation failure.
// Details carries whatever the caller needs to render a correction
// (the colliding appointment, the overlapping service, ...).
type BusinessError struct {
	Kind    Kind
	Code    string
	Details map[string]any
}

func (e BusinessError) Error() string {
	return e.Code
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ConflictErr(code string, details map[string]any) error {
	return BusinessError{Kind: KindConflict, Code: code, Details: details}
}

func InvalidInputErr(code string, details map[string]any) error {
	return BusinessError{Kind: KindInvalidInput, Code: code, Details: details}
}

func PreconditionErr(code string) error {
	return BusinessError{Kind: KindPreconditionFailed, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the error's kind, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
