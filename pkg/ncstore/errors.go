package ncstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrInvalidInput wraps every format error; nothing is written.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate reports an NC number that already exists.
	ErrDuplicate = errors.New("duplicate NC number")
	// ErrNotFound reports a lookup of an unknown NC number.
	ErrNotFound = errors.New("NC not found")
	// ErrCancelled reports a save the operator declined to overwrite.
	ErrCancelled = errors.New("save cancelled")
)

// isUniqueViolation recognizes duplicate key errors whether or not the
// dialector translates them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
