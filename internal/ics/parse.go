package ics

import (
	"errors"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "vcalview/internal/log"
	"vcalview/internal/model"
)

var (
	tzidParam = ";" + string(ical.ParameterTzid) + "="

	prefixStartTZ = string(ical.PropertyDtstart) + tzidParam
	prefixEndTZ   = string(ical.PropertyDtend) + tzidParam
	prefixStart   = string(ical.PropertyDtstart) + ":"
	prefixEnd     = string(ical.PropertyDtend) + ":"
	prefixStamp   = string(ical.PropertyDtstamp) + ":"
	prefixOrg     = string(ical.PropertyOrganizer) + ";"
	prefixAttend  = string(ical.PropertyAttendee) + ";"
)

// Parser turns an Outlook vCalendar stream into a model.Event.
type Parser struct {
	zones *Zones

	// components tracks BEGIN/END nesting; properties of VTIMEZONE, VALARM
	// and friends are not event properties.
	components []string
}

// NewParser returns a Parser resolving timezones with zones, or with the
// compiled-in table when zones is nil.
func NewParser(zones *Zones) *Parser {
	if zones == nil {
		zones = NewZones()
	}
	return &Parser{zones: zones}
}

// Parse reads r to the end and returns the event it describes. Any
// malformed recognized property aborts the parse; no partial event is
// returned.
func Parse(r io.Reader) (*model.Event, error) {
	return NewParser(nil).Parse(r)
}

func (p *Parser) Parse(r io.Reader) (*model.Event, error) {
	p.components = p.components[:0]

	ev := &model.Event{}
	u := NewUnfolder(r)
	lines := 0
	for {
		line, err := u.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lines++
		if err := p.apply(ev, line); err != nil {
			return nil, err
		}
	}

	appLog.Debug("vcalendar parse completed",
		"lines", lines,
		"attendees", len(ev.Attendees),
		"has_start", ev.Has(model.FieldStart),
	)
	return ev, nil
}

// inEvent reports whether properties at the current nesting level belong to
// the event (or to the enclosing calendar, or to a bare property list).
func (p *Parser) inEvent() bool {
	if len(p.components) == 0 {
		return true
	}
	switch p.components[len(p.components)-1] {
	case "VEVENT", "VCALENDAR":
		return true
	default:
		return false
	}
}

func (p *Parser) track(line string) bool {
	switch {
	case strings.HasPrefix(line, "BEGIN:"):
		p.components = append(p.components, strings.ToUpper(strings.TrimSpace(line[len("BEGIN:"):])))
		return true
	case strings.HasPrefix(line, "END:"):
		if n := len(p.components); n > 0 {
			p.components = p.components[:n-1]
		}
		return true
	}
	return false
}

// apply routes one content line to its sub-parser and records the result.
// Unrecognized properties are ignored.
func (p *Parser) apply(ev *model.Event, line string) error {
	if p.track(line) || !p.inEvent() {
		return nil
	}

	cl, hasValue := splitContentLine(line)
	name := propertyName(cl.Name)

	var err error
	switch {
	case strings.HasPrefix(line, prefixStartTZ):
		err = p.setTime(&ev.Start, ev, model.FieldStart, line[len(prefixStartTZ):])
	case strings.HasPrefix(line, prefixStart):
		if !utcValue(line[len(prefixStart):]) {
			appLog.Debug("floating date-time ignored", "name", name, "value", cl.Value)
			return nil
		}
		err = p.setTime(&ev.Start, ev, model.FieldStart, line[len(prefixStart)-1:])
	case strings.HasPrefix(line, prefixEndTZ):
		err = p.setTime(&ev.End, ev, model.FieldEnd, line[len(prefixEndTZ):])
	case strings.HasPrefix(line, prefixEnd):
		if !utcValue(line[len(prefixEnd):]) {
			appLog.Debug("floating date-time ignored", "name", name, "value", cl.Value)
			return nil
		}
		err = p.setTime(&ev.End, ev, model.FieldEnd, line[len(prefixEnd)-1:])
	case strings.HasPrefix(line, prefixStamp):
		// The converter expects the colon in front of the value.
		err = p.setTime(&ev.Scheduled, ev, model.FieldScheduled, line[len(prefixStamp)-1:])

	case strings.HasPrefix(line, prefixOrg):
		var org model.Person
		if org, err = ParsePerson(line[len(prefixOrg):]); err == nil {
			ev.Organizer = org
			ev.Set(model.FieldOrganizer)
		}
	case strings.HasPrefix(line, prefixAttend):
		var a model.Attendee
		if a, err = ParseAttendee(line[len(prefixAttend):]); err == nil {
			ev.Attendees = append(ev.Attendees, a)
		}

	case name == string(ical.PropertyLocation):
		err = setText(&ev.Location, ev, model.FieldLocation, cl, hasValue)
	case name == string(ical.PropertySummary):
		err = setText(&ev.Summary, ev, model.FieldSummary, cl, hasValue)
	case name == string(ical.PropertyDescription):
		err = setText(&ev.Description, ev, model.FieldDescription, cl, hasValue)
		if err == nil {
			ev.Description = trimEnd(strings.TrimLeft(ev.Description, " \t"))
		}

	case name == string(ical.PropertyMethod) && hasValue:
		ev.Method = ical.Method(strings.ToUpper(strings.TrimSpace(cl.Value)))
		ev.Set(model.FieldMethod)
	case name == string(ical.PropertyRrule) && hasValue:
		ev.RRule = strings.TrimSpace(cl.Value)
		ev.Set(model.FieldRecurrence)

	default:
		appLog.Debug("property ignored", "name", name)
		return nil
	}

	if err != nil {
		return withProperty(err, name)
	}
	appLog.Debug("property recognized", "name", name)
	return nil
}

func (p *Parser) setTime(dst *time.Time, ev *model.Event, f model.Field, raw string) error {
	t, err := ParseDateTime(raw, p.zones)
	if err != nil {
		return err
	}
	*dst = t
	ev.Set(f)
	return nil
}

func setText(dst *string, ev *model.Event, f model.Field, cl ContentLine, hasValue bool) error {
	if !hasValue {
		return structuralError(cl.Raw, ErrMissingDelimiter)
	}
	*dst = Unescape(cl.Value)
	ev.Set(f)
	return nil
}

// utcValue reports whether v is a UTC date-time. Unparameterized DTSTART
// and DTEND are only taken in that form; floating values carry no zone.
func utcValue(v string) bool {
	m := dateTimePattern.FindStringSubmatch(v)
	return m != nil && m[7] == "Z"
}

// propertyName strips parameters from the name part of a content line.
func propertyName(nameWithParams string) string {
	if i := strings.IndexByte(nameWithParams, ';'); i >= 0 {
		return nameWithParams[:i]
	}
	return nameWithParams
}
