package vfs

import (
	"fmt"

	"github.com/pkg/errors"
)

type OutOfRange struct {
	index    VolumePtr
	maxIndex VolumePtr
}

func (o OutOfRange) Error() string {
	return fmt.Sprintf("index out of range [%d], maximal index is [%d]", o.index, o.maxIndex)
}

// ValidationError reports bad user input: flags, sizes, names.
type ValidationError struct {
	Reason string
}

func (v ValidationError) Error() string {
	return v.Reason
}

// CapacityError reports that the image cannot hold what was asked of it.
type CapacityError struct {
	Reason string
}

func (c CapacityError) Error() string {
	return c.Reason
}

type InvalidMagic struct {
	Found uint32
}

func (i InvalidMagic) Error() string {
	return fmt.Sprintf("invalid file system magic number 0x%08X, expected 0x%08X", i.Found, Magic)
}

func validationErrorf(format string, args ...interface{}) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func capacityErrorf(format string, args ...interface{}) error {
	return CapacityError{Reason: fmt.Sprintf(format, args...)}
}

// NewValidationError and NewCapacityError are used by the packages built on
// top of vfs so every failure carries one of the three classes.
func NewValidationError(format string, args ...interface{}) error {
	return validationErrorf(format, args...)
}

func NewCapacityError(format string, args ...interface{}) error {
	return capacityErrorf(format, args...)
}

const (
	ClassValidation = "validation"
	ClassCapacity   = "capacity"
	ClassIO         = "io"
)

// ErrorClass maps an error to validation, capacity or io. Anything that is
// not one of the typed errors is an I/O failure.
func ErrorClass(err error) string {
	switch errors.Cause(err).(type) {
	case ValidationError, *ValidationError:
		return ClassValidation
	case CapacityError, *CapacityError:
		return ClassCapacity
	default:
		return ClassIO
	}
}

func IsCapacityError(err error) bool {
	return ErrorClass(err) == ClassCapacity
}

func IsValidationError(err error) bool {
	return ErrorClass(err) == ClassValidation
}
