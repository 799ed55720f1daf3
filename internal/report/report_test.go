package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcalview/internal/config"
	"vcalview/internal/model"
)

func sampleEvent() *model.Event {
	ev := &model.Event{
		Start:       time.Date(2021, 4, 6, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2021, 4, 6, 15, 0, 0, 0, time.UTC),
		Scheduled:   time.Date(2021, 4, 5, 12, 30, 0, 0, time.UTC),
		Summary:     "Quarterly review",
		Location:    "Room 4",
		Organizer:   model.Person{Name: "Jane Doe", Email: "jane@example.com"},
		Description: "Agenda:\n\tNumbers",
		Attendees: []model.Attendee{
			{Person: model.Person{Name: "zed", Email: "z@example.com"}},
			{Person: model.Person{Name: "Bob", Email: "bob@example.com"}, Required: true},
		},
	}
	for _, f := range []model.Field{
		model.FieldStart, model.FieldEnd, model.FieldScheduled, model.FieldSummary,
		model.FieldLocation, model.FieldOrganizer, model.FieldDescription,
	} {
		ev.Set(f)
	}
	return ev
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleEvent(), Options{Location: time.UTC, TimeFormat: "2006-01-02 15:04 MST"})
	require.NoError(t, err)

	want := "Event start: 2021-04-06 14:00 UTC\n" +
		"  Event end: 2021-04-06 15:00 UTC\n" +
		"\nSummary: As of 2021-04-05 12:30 UTC\n\tQuarterly review\n" +
		"\nEvent location: Room 4\n" +
		"\nEvent organizer: Jane Doe <jane@example.com>\n" +
		"\nDescription:\n\tAgenda:\n\tNumbers\n" +
		"\nAttendees:\n" +
		"\t*Bob <bob@example.com>\n" +
		"\tzed <z@example.com>\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteStyled(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleEvent(), Options{Location: time.UTC, Styled: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, ansiRev+"Event start:"+ansiNormal)
	assert.Contains(t, out, "\t"+ansiBold+"Bob"+ansiNormal+" <bob@example.com>")
	assert.NotContains(t, out, "*Bob")
}

func TestWriteOmitsAbsentFields(t *testing.T) {
	ev := &model.Event{Summary: "only summary"}
	ev.Set(model.FieldSummary)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ev, Options{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\nSummary: \n\tonly summary"))
	assert.NotContains(t, out, "Event start")
	assert.NotContains(t, out, "Attendees")
}

func TestWriteCancelledAndRecurrence(t *testing.T) {
	ev := sampleEvent()
	ev.Method = ical.MethodCancel
	ev.Set(model.FieldMethod)
	ev.RRule = "FREQ=WEEKLY;COUNT=2"
	ev.Set(model.FieldRecurrence)

	occ := []model.Occurrence{
		{Start: time.Date(2021, 4, 6, 14, 0, 0, 0, time.UTC)},
		{Start: time.Date(2021, 4, 13, 14, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ev, Options{Location: time.UTC, TimeFormat: "Jan 2", Occurrences: occ}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "*** CANCELLED ***\n\n"))
	assert.Contains(t, out, "\nRecurrence: FREQ=WEEKLY;COUNT=2\n\tApr 6\n\tApr 13\n")
}

func TestStyled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, Styled(config.StyleAlways, &buf))
	assert.False(t, Styled(config.StyleNever, os.Stdout))
	assert.False(t, Styled(config.StyleAuto, &buf))
}
