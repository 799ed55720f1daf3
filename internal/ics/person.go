package ics

import (
	"fmt"
	"strings"
	"unicode"

	ical "github.com/arran4/golang-ical"

	"vcalview/internal/model"
)

const (
	maxNameLen  = 63
	maxEmailLen = 127
)

var (
	cnMarker     = string(ical.ParameterCn) + "="
	mailtoMarker = ":MAILTO:"
	// Outlook marks mandatory attendees with ROLE=REQ-PARTICIPANT.
	requiredMarker = string(ical.ParticipationRoleReqParticipant)
)

// ParsePerson extracts the display name and address from the parameter and
// value text of an ORGANIZER or ATTENDEE property, e.g.
// `ROLE=REQ-PARTICIPANT;CN=Jane Doe:mailto:jane@example.com`.
//
// The name runs from CN= to the next ':' and must be followed by MAILTO: in
// any letter case. Both fields are bounded; an over-long field is an error,
// never truncated.
func ParsePerson(src string) (model.Person, error) {
	idx := strings.Index(src, cnMarker)
	if idx < 0 {
		return model.Person{}, structuralError(src, ErrMissingCN)
	}
	rest := src[idx+len(cnMarker):]

	end := strings.IndexByte(rest, ':')
	if end < 0 {
		return model.Person{}, structuralError(src, ErrMissingMailto)
	}
	name := rest[:end]
	if strings.Trim(strings.TrimSpace(name), `"`) == "" {
		return model.Person{}, structuralError(src, ErrEmptyName)
	}
	if len(name) > maxNameLen {
		return model.Person{}, semanticError(src, fmt.Errorf("%w: name longer than %d bytes", ErrFieldTooLong, maxNameLen))
	}

	rest = rest[end:]
	if len(rest) < len(mailtoMarker) || !strings.EqualFold(rest[:len(mailtoMarker)], mailtoMarker) {
		return model.Person{}, structuralError(src, ErrMissingMailto)
	}
	rest = rest[len(mailtoMarker):]

	email := rest
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		email = rest[:i]
	}
	if email == "" {
		return model.Person{}, structuralError(src, ErrMissingMailto)
	}
	if len(email) > maxEmailLen {
		return model.Person{}, semanticError(src, fmt.Errorf("%w: address longer than %d bytes", ErrFieldTooLong, maxEmailLen))
	}

	return model.Person{
		Name:  strings.Trim(strings.TrimSpace(name), `"`),
		Email: email,
	}, nil
}

// ParseAttendee is ParsePerson plus the required-participant flag, which is
// set whenever REQ-PARTICIPANT occurs anywhere in src.
func ParseAttendee(src string) (model.Attendee, error) {
	p, err := ParsePerson(src)
	if err != nil {
		return model.Attendee{}, err
	}
	return model.Attendee{
		Person:   p,
		Required: strings.Contains(src, requiredMarker),
	}, nil
}
