package openlibrary

import (
	"errors"
	"fmt"
)

// Kind classifies why a dump line could not be turned into a record.
type Kind string

const (
	KindMalformedLine        Kind = "malformed_line"
	KindInvalidJSON          Kind = "invalid_json"
	KindMissingRequiredField Kind = "missing_required_field"
	KindInvalidArrayElement  Kind = "invalid_array_element"
	KindDateParseError       Kind = "date_parse_error"
	KindIOFailure            Kind = "io_failure"
	KindStoreFailure         Kind = "store_failure"
)

// Sentinels matched by errors.Is against any *LineError of the same kind.
var (
	ErrMalformedLine        = errors.New("no JSON object found in line")
	ErrInvalidJSON          = errors.New("line does not hold a valid JSON object")
	ErrMissingRequiredField = errors.New("required field missing")
	ErrInvalidArrayElement  = errors.New("invalid array element")
	ErrDateParse            = errors.New("timestamp does not match expected format")
	ErrIOFailure            = errors.New("dump could not be read")
	ErrStoreFailure         = errors.New("storage operation failed")
)

var sentinels = map[Kind]error{
	KindMalformedLine:        ErrMalformedLine,
	KindInvalidJSON:          ErrInvalidJSON,
	KindMissingRequiredField: ErrMissingRequiredField,
	KindInvalidArrayElement:  ErrInvalidArrayElement,
	KindDateParseError:       ErrDateParse,
	KindIOFailure:            ErrIOFailure,
	KindStoreFailure:         ErrStoreFailure,
}

// LineError is returned by the extractor, the mappers and the resolver.
// Field names the offending JSON path when there is one.
type LineError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *LineError) Error() string {
	msg := sentinels[e.Kind].Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMissingRequiredField) match without comparing causes.
func (e *LineError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newLineError(kind Kind, field string, err error) *LineError {
	return &LineError{Kind: kind, Field: field, Err: err}
}

// KindOf reports the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var le *LineError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
