package record

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord matches every *Error via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// ErrorKind classifies malformed records.
type ErrorKind int

const (
	// ErrorFieldCount indicates the wrong number of fields for the tag.
	ErrorFieldCount ErrorKind = iota
	// ErrorNumeric indicates a field that failed numeric conversion.
	ErrorNumeric
	// ErrorTag indicates a tag whose embedded index could not be parsed.
	ErrorTag
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorFieldCount:
		return "field_count"
	case ErrorNumeric:
		return "numeric"
	case ErrorTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Error is a malformed record. The offending line should be dropped.
type Error struct {
	Kind ErrorKind
	// Tag is the record tag, without braces.
	Tag string
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("{%s}: %s: %v", e.Tag, e.Msg, e.Err)
	}
	return fmt.Sprintf("{%s}: %s", e.Tag, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every *Error match ErrMalformedRecord.
func (e *Error) Is(target error) bool {
	return target == ErrMalformedRecord
}

// IsMalformed returns true if err is a malformed record error.
func IsMalformed(err error) bool {
	var recErr *Error
	return errors.As(err, &recErr)
}

// IsMalformedFrameStart returns true if err is a malformed {State} record.
// The line still marks a frame boundary.
func IsMalformedFrameStart(err error) bool {
	var recErr *Error
	return errors.As(err, &recErr) && recErr.Tag == tagState
}

func fieldCountError(tag string, got int, want string) *Error {
	return &Error{
		Kind: ErrorFieldCount,
		Tag:  tag,
		Msg:  fmt.Sprintf("got %d fields, want %s", got, want),
	}
}

func numericError(tag, field string, err error) *Error {
	return &Error{
		Kind: ErrorNumeric,
		Tag:  tag,
		Msg:  fmt.Sprintf("invalid %s", field),
		Err:  err,
	}
}
