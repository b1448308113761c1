package errs

import "errors"

// Kind groups errors into the classes callers act on.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindConflict
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	case KindInternal:
		return "internal"
	}
	return "internal"
}

// KindOf classifies err by the sentinel it wraps. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccessDenied):
		return KindAuthorization
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrDependencyFailed):
		return KindDependency
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	}
	return KindInternal
}
