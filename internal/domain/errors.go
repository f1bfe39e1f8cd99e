package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service layer wraps exactly one of
// these so the transport can map it to a status code.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrInvalidRole         = kind(ErrInvalidInput, "invalid role")
	ErrWeakPassword        = kind(ErrInvalidInput, "the password must be at least 8 characters and contain 1 letter and 1 number")
	ErrPasswordTooLong     = kind(ErrInvalidInput, "the password must be at most 72 bytes")
	ErrNegativeAmount      = kind(ErrInvalidInput, "amount must not be negative")
	ErrInvalidDueDate      = kind(ErrInvalidInput, "malformed due date")
	ErrSelfDeletion        = kind(ErrInvalidInput, "an admin cannot delete their own account")
	ErrInvalidBlobCategory = kind(ErrInvalidInput, "unknown file category")
	ErrNegativeGrade       = kind(ErrInvalidInput, "grade must not be negative")
	ErrNegativePoints      = kind(ErrInvalidInput, "points must not be negative")
	ErrNegativeScore       = kind(ErrInvalidInput, "score must not be negative")
	ErrNotATeacher         = kind(ErrInvalidInput, "teacher_id must reference a teacher")
	ErrSignupRole          = kind(ErrInvalidInput, "role must be student or teacher")

	ErrWrongCredentials = kind(ErrUnauthenticated, "wrong username or password")
	ErrNoSession        = kind(ErrUnauthenticated, "missing or expired session")

	ErrRoleNotAllowed = kind(ErrForbidden, "role not allowed")
	ErrNotModuleOwner = kind(ErrForbidden, "not the teacher of this module")

	ErrPersonNotFound     = kind(ErrNotFound, "person not found")
	ErrModuleNotFound     = kind(ErrNotFound, "module not found")
	ErrTaskNotFound       = kind(ErrNotFound, "task not found")
	ErrSubmissionNotFound = kind(ErrNotFound, "submission not found")
	ErrActivityNotFound   = kind(ErrNotFound, "activity not found")
	ErrBlobNotFound       = kind(ErrNotFound, "file not found")

	ErrUsernameTaken       = kind(ErrConflict, "username already taken")
	ErrEmailTaken          = kind(ErrConflict, "email already registered")
	ErrAlreadyJoined       = kind(ErrConflict, "already a member of this module")
	ErrDuplicateSubmission = kind(ErrConflict, "task already delivered")
	ErrTrophyExists        = kind(ErrConflict, "trophy name already exists")
	ErrActivityExists      = kind(ErrConflict, "activity name already exists")
)

type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

type detailError struct {
	err   error
	field string
	value any
}

// WithDetail attaches the offending field (or id) to err.
func WithDetail(err error, field string, value any) error {
	return &detailError{err: err, field: field, value: value}
}

func (e *detailError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.err, e.field, e.value)
}

func (e *detailError) Unwrap() error { return e.err }

// Details collects every field/value pair attached along the chain.
func Details(err error) map[string]any {
	details := map[string]any{}
	for err != nil {
		var de *detailError
		if !errors.As(err, &de) {
			break
		}
		if _, seen := details[de.field]; !seen {
			details[de.field] = de.value
		}
		err = de.err
	}
	if len(details) == 0 {
		return nil
	}

	return details
}

// Message returns the client-facing text of the first domain error in the
// chain, without call-site prefixes.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	for _, k := range []error{ErrInvalidInput, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}

	return err.Error()
}
