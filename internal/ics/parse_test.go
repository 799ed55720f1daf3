package ics

import (
	"os"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcalview/internal/model"
)

func TestParseOutlookInvitation(t *testing.T) {
	f, err := os.Open("testdata/outlook.ics")
	require.NoError(t, err)
	defer f.Close()

	ev, err := Parse(f)
	require.NoError(t, err)

	assert.True(t, time.Date(2021, 4, 6, 14, 0, 0, 0, time.UTC).Equal(ev.Start), "start %v", ev.Start)
	assert.True(t, time.Date(2021, 4, 6, 15, 0, 0, 0, time.UTC).Equal(ev.End), "end %v", ev.End)
	assert.True(t, time.Date(2021, 4, 5, 17, 30, 0, 0, time.UTC).Equal(ev.Scheduled), "stamp %v", ev.Scheduled)

	assert.Equal(t, model.Person{Name: "Jane Doe", Email: "jane.doe@example.com"}, ev.Organizer)
	assert.Equal(t, "Quarterly review", ev.Summary)
	assert.Equal(t, "Conference Room 4", ev.Location)
	assert.Equal(t, "Agenda:\n\tReview numbers, plan Q3.", ev.Description)
	assert.Equal(t, ical.MethodRequest, ev.Method)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=3;BYDAY=TU", ev.RRule)
	assert.False(t, ev.Cancelled())

	wantAttendees := []model.Attendee{
		{Person: model.Person{Name: "bob Smith", Email: "bob.smith@example.com"}, Required: true},
		{Person: model.Person{Name: "Alice Jones", Email: "alice.jones@example.com"}},
	}
	if diff := cmp.Diff(wantAttendees, ev.Attendees); diff != "" {
		t.Errorf("attendees mismatch (-want +got):\n%s", diff)
	}

	for _, f := range []model.Field{
		model.FieldStart, model.FieldEnd, model.FieldScheduled, model.FieldSummary,
		model.FieldLocation, model.FieldOrganizer, model.FieldDescription,
		model.FieldMethod, model.FieldRecurrence,
	} {
		assert.True(t, ev.Has(f), "field %d", f)
	}
}

func TestParseBareProperties(t *testing.T) {
	in := strings.Join([]string{
		`DTSTART;TZID="Central Standard Time":20210406T090000`,
		`DTEND;TZID="(UTC-06:00) Central Time (US & Canada)":20210406T093000`,
		`SUMMARY;LANGUAGE=en-US:Planning\, round 2`,
		`X-MICROSOFT-CDO-BUSYSTATUS:BUSY`,
	}, "\n")

	ev, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.True(t, time.Date(2021, 4, 6, 14, 0, 0, 0, time.UTC).Equal(ev.Start))
	assert.True(t, time.Date(2021, 4, 6, 14, 30, 0, 0, time.UTC).Equal(ev.End))
	assert.Equal(t, "Planning, round 2", ev.Summary)
	assert.False(t, ev.Has(model.FieldOrganizer))
	assert.False(t, ev.Has(model.FieldScheduled))
	assert.Empty(t, ev.Attendees)
}

func TestParseLastWriteWins(t *testing.T) {
	in := "SUMMARY;X=1:first\nSUMMARY;X=1:second\nDTSTAMP:20210101T000000Z\nDTSTAMP:20210102T000000Z\n"

	ev, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "second", ev.Summary)
	assert.True(t, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC).Equal(ev.Scheduled))
}

func TestParseUTCStartWithoutTZID(t *testing.T) {
	ev, err := Parse(strings.NewReader("DTSTART:20210406T150000Z\nDTEND:20210406T160000Z\n"))
	require.NoError(t, err)
	assert.True(t, time.Date(2021, 4, 6, 15, 0, 0, 0, time.UTC).Equal(ev.Start))
	assert.True(t, time.Date(2021, 4, 6, 16, 0, 0, 0, time.UTC).Equal(ev.End))
}

func TestParseIgnoresFloatingAndDateOnlyTimes(t *testing.T) {
	in := strings.Join([]string{
		"BEGIN:VEVENT",
		"DTSTART:20210406T090000",
		"DTEND:20210406T100000",
		"DTSTART;VALUE=DATE:20210406",
		"SUMMARY;X=1:hello",
		"END:VEVENT",
	}, "\n")

	ev, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "hello", ev.Summary)
	assert.False(t, ev.Has(model.FieldStart))
	assert.False(t, ev.Has(model.FieldEnd))
}

func TestParseAUSEasternStart(t *testing.T) {
	ev, err := Parse(strings.NewReader("DTSTART;TZID=AUS Eastern Standard Time:20210406T090000\n"))
	require.NoError(t, err)
	assert.True(t, time.Date(2021, 4, 5, 23, 0, 0, 0, time.UTC).Equal(ev.Start), "start %v", ev.Start.UTC())
	assert.Equal(t, "Australia/Sydney", ev.Start.Location().String())
}

func TestParseIgnoresNestedComponents(t *testing.T) {
	in := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VTIMEZONE",
		"BEGIN:STANDARD",
		"DTSTART:16010101T020000",
		"RRULE:FREQ=YEARLY;BYDAY=1SU;BYMONTH=11",
		"END:STANDARD",
		"END:VTIMEZONE",
		"BEGIN:VEVENT",
		"DESCRIPTION;LANGUAGE=en-US:Real description",
		"BEGIN:VALARM",
		"DESCRIPTION:REMINDER",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	ev, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Real description", ev.Description)
	assert.False(t, ev.Has(model.FieldStart))
	assert.False(t, ev.Has(model.FieldRecurrence))
}

func TestParseCancelled(t *testing.T) {
	ev, err := Parse(strings.NewReader("BEGIN:VCALENDAR\nMETHOD:cancel\nEND:VCALENDAR\n"))
	require.NoError(t, err)
	assert.True(t, ev.Cancelled())
}

func TestParseFatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		err      error
		kind     Kind
		property string
		fragment string
	}{
		{
			name:     "unresolvable timezone",
			in:       "SUMMARY;X=1:ok\nDTSTART;TZID=Mars/Phobos:20210406T090000\n",
			err:      ErrUnknownTimezone,
			kind:     KindLookup,
			property: "DTSTART",
			fragment: "Mars/Phobos",
		},
		{
			name:     "attendee without CN",
			in:       "ATTENDEE;ROLE=REQ-PARTICIPANT:nobody\n",
			err:      ErrMissingCN,
			kind:     KindStructural,
			property: "ATTENDEE",
			fragment: "ROLE=REQ-PARTICIPANT:nobody",
		},
		{
			name:     "organizer without mailto",
			in:       "ORGANIZER;CN=Jane:jane@example.com\n",
			err:      ErrMissingMailto,
			kind:     KindStructural,
			property: "ORGANIZER",
			fragment: "CN=Jane:jane@example.com",
		},
		{
			name:     "bad date",
			in:       "DTEND;TZID=Central Standard Time:2021-04-06T09:00\n",
			err:      ErrBadDateTime,
			kind:     KindSemantic,
			property: "DTEND",
			fragment: "2021-04-06T09:00",
		},
		{
			name:     "location without value",
			in:       "LOCATION;LANGUAGE=en-US\n",
			err:      ErrMissingDelimiter,
			kind:     KindStructural,
			property: "LOCATION",
			fragment: "LOCATION;LANGUAGE=en-US",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Parse(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Nil(t, ev, "no partial record on failure")
			assert.ErrorIs(t, err, tc.err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.kind, pe.Kind)
			assert.Equal(t, tc.property, pe.Property)
			assert.Contains(t, pe.Fragment, tc.fragment)
			assert.Contains(t, err.Error(), tc.fragment)
		})
	}
}

func TestParserUsesExtraZones(t *testing.T) {
	p := NewParser(NewZones(TZXRef{MS: "Mars/Phobos:", Posix: "Asia/Tokyo"}))

	ev, err := p.Parse(strings.NewReader("DTSTART;TZID=Mars/Phobos:20210406T090000\n"))
	require.NoError(t, err)
	assert.True(t, time.Date(2021, 4, 6, 0, 0, 0, 0, time.UTC).Equal(ev.Start))

	// A Parser is reusable; nesting state does not leak between runs.
	_, err = p.Parse(strings.NewReader("BEGIN:VTIMEZONE\n"))
	require.NoError(t, err)
	ev, err = p.Parse(strings.NewReader("SUMMARY;X=1:again\n"))
	require.NoError(t, err)
	assert.Equal(t, "again", ev.Summary)
}
