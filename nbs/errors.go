package nbs

import (
	"errors"
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

var (
	// ErrInvalidFormat is returned when the data does not fit the layout of its format.
	ErrInvalidFormat = errors.New("nbs: data does not match the target format")

	// ErrInvalidString is returned when a string field is not valid UTF-8.
	ErrInvalidString = errors.New("nbs: string is not valid UTF-8")

	// ErrMissingField is returned when encoding a field the target format requires but the model leaves unset.
	ErrMissingField = errors.New("nbs: missing required field for target format")
)

// MissingFieldError names the unset field that stopped an encode.
// It matches both ErrMissingField and ErrInvalidFormat with errors.Is.
type MissingFieldError struct {
	Field  string
	Format Format
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("nbs: %s is required by %v but is not set", e.Field, e.Format)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField || target == ErrInvalidFormat
}

func missing(field string, f Format) error {
	return fault.Wrap(&MissingFieldError{Field: field, Format: f}, ftag.With(ftag.InvalidArgument))
}

// invalidf builds an ErrInvalidFormat error tagged as an invalid argument.
func invalidf(format string, args ...any) error {
	return fault.Wrap(ErrInvalidFormat,
		fmsg.With(fmt.Sprintf(format, args...)),
		ftag.With(ftag.InvalidArgument))
}

// badString builds an ErrInvalidString error tagged as an invalid argument.
func badString(format string, args ...any) error {
	return fault.Wrap(ErrInvalidString,
		fmsg.With(fmt.Sprintf(format, args...)),
		ftag.With(ftag.InvalidArgument))
}

// stage adds the name of the codec stage that failed to err.
func stage(err error, name string) error {
	return fault.Wrap(err, fmsg.With(name))
}
