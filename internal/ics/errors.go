package ics

import (
	"errors"
	"fmt"
)

// Kind classifies a ParseError. Every kind is fatal to the record.
type Kind int

const (
	// KindStructural covers malformed lines and missing delimiters.
	KindStructural Kind = iota + 1
	// KindSemantic covers values that are present but do not match their
	// expected pattern or bound.
	KindSemantic
	// KindLookup covers timezone tokens missing from the cross-reference.
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindSemantic:
		return "semantic"
	case KindLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

var (
	ErrMissingDelimiter = errors.New("missing ':' delimiter")
	ErrMissingCN        = errors.New("missing CN= parameter")
	ErrEmptyName        = errors.New("empty CN= name")
	ErrMissingMailto    = errors.New("missing MAILTO: address")
	ErrFieldTooLong     = errors.New("field exceeds length bound")
	ErrBadDateTime      = errors.New("date-time does not match YYYYMMDDTHHMMSS[Z]")
	ErrUnknownTimezone  = errors.New("no timezone cross-reference match")
)

// ParseError reports a fatal condition together with the literal input
// fragment that caused it.
type ParseError struct {
	Kind     Kind
	Property string
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s error: %v in %q", e.Kind, e.Err, e.Fragment)
	}
	return fmt.Sprintf("%s: %s error: %v in %q", e.Property, e.Kind, e.Err, e.Fragment)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func structuralError(fragment string, err error) *ParseError {
	return &ParseError{Kind: KindStructural, Fragment: fragment, Err: err}
}

func semanticError(fragment string, err error) *ParseError {
	return &ParseError{Kind: KindSemantic, Fragment: fragment, Err: err}
}

func lookupError(fragment string, err error) *ParseError {
	return &ParseError{Kind: KindLookup, Fragment: fragment, Err: err}
}

// withProperty tags err with the property it was raised for, if it is a
// ParseError that has no property yet.
func withProperty(err error, property string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Property == "" {
		pe.Property = property
	}
	return err
}
