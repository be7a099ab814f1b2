package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map kinds to HTTP statuses;
// nothing above the service layer matches on store or driver errors.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindDuplicate
	KindInvalidInput
	KindWrongRole
	KindAlreadyCompleted
	KindUnsupportedShape
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindInvalidInput:
		return "invalid_input"
	case KindWrongRole:
		return "wrong_role"
	case KindAlreadyCompleted:
		return "already_completed"
	case KindUnsupportedShape:
		return "unsupported_shape"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the typed service error. Err carries the underlying cause for
// logs; Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets two service errors match on kind, so sentinels below work with
// errors.Is regardless of message or wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from any error chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Common sentinels used by services and matched by handlers.
var (
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrCourseNotFound     = &Error{Kind: KindNotFound, Message: "course not found"}
	ErrModuleNotFound     = &Error{Kind: KindNotFound, Message: "module not found"}
	ErrLessonNotFound     = &Error{Kind: KindNotFound, Message: "lesson not found"}
	ErrAssignmentNotFound = &Error{Kind: KindNotFound, Message: "assignment not found"}
	ErrSubmissionNotFound = &Error{Kind: KindNotFound, Message: "submission not found"}
	ErrQuizNotFound       = &Error{Kind: KindNotFound, Message: "quiz not found"}
	ErrQuestionNotFound   = &Error{Kind: KindNotFound, Message: "question not found"}
	ErrEnrollmentNotFound = &Error{Kind: KindNotFound, Message: "enrollment not found"}

	ErrDuplicateEmail      = &Error{Kind: KindDuplicate, Message: "email already registered"}
	ErrAlreadyEnrolled     = &Error{Kind: KindDuplicate, Message: "student already enrolled in course"}
	ErrAlreadySubmitted    = &Error{Kind: KindDuplicate, Message: "assignment already submitted"}
	ErrQuizAlreadyTaken    = &Error{Kind: KindDuplicate, Message: "quiz already taken"}
	ErrModuleHasQuiz       = &Error{Kind: KindDuplicate, Message: "module already has a quiz"}
	ErrAlreadyReviewed     = &Error{Kind: KindDuplicate, Message: "course already reviewed by student"}
	ErrNotATeacher         = &Error{Kind: KindWrongRole, Message: "user is not a teacher"}
	ErrNotAStudent         = &Error{Kind: KindWrongRole, Message: "user is not a student"}
	ErrEnrollmentCompleted = &Error{Kind: KindAlreadyCompleted, Message: "enrollment already completed"}
)
