package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by repository implementations. The gorm driver
// translates vendor errors (TranslateError is enabled), so implementations
// only need to wrap these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFoundError reports whether err indicates a missing record
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err indicates a unique constraint violation
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
