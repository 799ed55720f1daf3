package model

import (
	"slices"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Person is a display name plus e-mail address, as carried by ORGANIZER.
type Person struct {
	Name  string
	Email string
}

// String renders the person as "Name <email>".
func (p Person) String() string {
	return p.Name + " <" + p.Email + ">"
}

// Attendee is one ATTENDEE property. Attendees are immutable once parsed.
type Attendee struct {
	Person
	Required bool
}

// Field records which properties have been seen while parsing an event.
type Field uint

const (
	FieldStart Field = 1 << iota
	FieldEnd
	FieldSummary
	FieldLocation
	FieldOrganizer
	FieldDescription
	FieldScheduled
	FieldMethod
	FieldRecurrence
)

// Event accumulates the properties of a single VEVENT.
//
// Start, End and Scheduled are absolute instants. Start and End carry the
// zone they were resolved in so recurrences can be expanded on the event's
// own wall clock; callers convert to a display zone with In.
type Event struct {
	Present Field

	Start     time.Time
	End       time.Time
	Scheduled time.Time // DTSTAMP

	Organizer   Person
	Summary     string
	Location    string
	Description string

	Method ical.Method
	RRule  string // raw RRULE value

	// Attendees are kept in input order; see SortedAttendees for display order.
	Attendees []Attendee
}

// Has reports whether the given field was present in the input.
func (e *Event) Has(f Field) bool {
	return e.Present&f != 0
}

// Set marks f as present.
func (e *Event) Set(f Field) {
	e.Present |= f
}

// Cancelled reports whether the event arrived in a CANCEL message.
func (e *Event) Cancelled() bool {
	return e.Has(FieldMethod) && strings.EqualFold(string(e.Method), string(ical.MethodCancel))
}

// SortedAttendees returns a copy of the attendees ordered case-insensitively
// by name. Attendees with equal names keep their input order.
func SortedAttendees(in []Attendee) []Attendee {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Attendee) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// Occurrence is a single concrete instance of a (possibly recurring) event,
// converted into the display timezone.
type Occurrence struct {
	// InstanceKey identifies the occurrence, derived from its UTC start.
	InstanceKey string

	Start time.Time
	End   time.Time
}
