package msgs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify failures.
var (
	// ErrFieldOutOfRange is returned when a field value does not fit in its
	// declared width.
	ErrFieldOutOfRange = errors.New("field value out of range")

	// ErrInvalidLayout is returned when a field table cannot be laid out.
	ErrInvalidLayout = errors.New("invalid message layout")

	// ErrInvalidConfig is returned when a width configuration is unusable.
	ErrInvalidConfig = errors.New("invalid width config")

	// ErrWidthMismatch is returned when a raw vector has bits set above the
	// width of the message it is decoded as, or when a message built under
	// one width configuration reaches a consumer using another.
	ErrWidthMismatch = errors.New("message width mismatch")

	// ErrMalformed is returned when a decoded vector carries a derived field
	// (len, test) with a value its encoder would never produce.
	ErrMalformed = errors.New("malformed message")
)

// FieldOutOfRangeError describes the offending field of a rejected encode.
type FieldOutOfRangeError struct {
	Message string
	Field   string
	Value   uint64
	Width   uint
}

func (e *FieldOutOfRangeError) Error() string {
	return fmt.Sprintf("%s.%s: value 0x%x does not fit in %d bits",
		e.Message, e.Field, e.Value, e.Width)
}

// Unwrap makes the error match ErrFieldOutOfRange.
func (e *FieldOutOfRangeError) Unwrap() error {
	return ErrFieldOutOfRange
}
