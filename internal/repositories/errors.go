package repositories

import "errors"

// Store error sentinels. The postgres implementations translate driver
// errors onto these so callers never match on gorm or pgx types directly.
var (
	// ErrNotFound marks a lookup whose id resolved to no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate marks a write rejected by a unique constraint. The
	// constraint is the actual correctness guarantee under concurrent
	// writers; application-level existence checks only improve the message.
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFoundError reports whether err is a missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
