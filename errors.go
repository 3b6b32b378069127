// errors.go - caller-facing error kinds

package amplitude

import "fmt"

// ErrorKind enumerates the exit codes surfaced to callers (spec.md §6/§7).
// T-audio never unwinds on these; they are only returned from T-game-facing
// calls (engine setup, command submission validation).
type ErrorKind int

const (
	Success ErrorKind = iota
	ErrInvalidParameter
	ErrFileNotFound
	ErrOutOfMemory
	ErrDecoderFailure
	ErrAlreadyInitialized
	ErrNotInitialized
)

func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "Success"
	case ErrInvalidParameter:
		return "InvalidParameter"
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrDecoderFailure:
		return "DecoderFailure"
	case ErrAlreadyInitialized:
		return "AlreadyInitialized"
	case ErrNotInitialized:
		return "NotInitialized"
	default:
		return "Unknown"
	}
}

// Error wraps an ErrorKind with a human-readable message. It implements the
// standard error interface; callers match on Kind with errors.As (or IsKind).
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
