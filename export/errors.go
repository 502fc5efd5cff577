package export

import (
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind classifies export failures.
type ErrorKind string

const (
	// KindValidation covers bad configuration: geometry, backend or input format.
	KindValidation ErrorKind = "validation"
	// KindRender covers failures of the PDF backend while drawing or writing.
	KindRender   ErrorKind = "render"
	KindInternal ErrorKind = "internal"
)

// Error wraps an underlying error with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var exportErr *Error
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return KindInternal
}

// AsGoError maps an error into a go-errors error for callers that report
// through that package.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}
	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}
	msg := err.Error()
	switch KindFromError(err) {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode(string(KindValidation))
	case KindRender:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode(string(KindRender))
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode(string(KindInternal))
	}
}
