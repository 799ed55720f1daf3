package ics

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "vcalview/internal/log"
	"vcalview/internal/model"
)

const (
	defaultOccurrenceCount = 5
	maxOccurrenceCount     = 500
)

// ExpandConfig controls how an event is expanded into occurrences.
type ExpandConfig struct {
	// DisplayLocation is the timezone occurrences are converted to.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// From is the earliest start returned. Zero means the event's own start.
	From time.Time

	// Count caps the number of occurrences returned. If zero,
	// defaultOccurrenceCount is used.
	Count int
}

// Expand lists the occurrences of ev starting at cfg.From. Non-recurring
// events yield their single occurrence. Recurrences are evaluated on the
// wall clock of the zone DTSTART was resolved in, so a weekly 09:00 meeting
// stays at 09:00 across DST changes in that zone.
func Expand(ev *model.Event, cfg ExpandConfig) ([]model.Occurrence, error) {
	if ev == nil || !ev.Has(model.FieldStart) {
		return nil, errors.New("expand: event has no start")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.Count <= 0 {
		cfg.Count = defaultOccurrenceCount
	}
	if cfg.Count > maxOccurrenceCount {
		cfg.Count = maxOccurrenceCount
	}

	var dur time.Duration
	if ev.Has(model.FieldEnd) && ev.End.After(ev.Start) {
		dur = ev.End.Sub(ev.Start)
	}

	if !ev.Has(model.FieldRecurrence) || ev.RRule == "" {
		if !cfg.From.IsZero() && ev.Start.Add(dur).Before(cfg.From) {
			return nil, nil
		}
		return []model.Occurrence{makeOccurrence(ev.Start, dur, cfg.DisplayLocation)}, nil
	}

	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		return nil, fmt.Errorf("expand: parse RRULE %q: %w", ev.RRule, err)
	}
	r.DTStart(ev.Start)

	cursor := cfg.From
	inclusive := true
	if cursor.IsZero() {
		cursor = ev.Start
	}

	out := make([]model.Occurrence, 0, cfg.Count)
	for len(out) < cfg.Count {
		next := r.After(cursor, inclusive)
		if next.IsZero() {
			break
		}
		out = append(out, makeOccurrence(next, dur, cfg.DisplayLocation))
		cursor = next
		inclusive = false
	}
	appLog.Debug("recurrence expanded", "rrule", ev.RRule, "occurrences", len(out))
	return out, nil
}

// makeOccurrence converts a start instant plus duration into a
// model.Occurrence normalized into displayLoc.
func makeOccurrence(start time.Time, dur time.Duration, displayLoc *time.Location) model.Occurrence {
	return model.Occurrence{
		InstanceKey: start.UTC().Format(time.RFC3339),
		Start:       start.In(displayLoc),
		End:         start.Add(dur).In(displayLoc),
	}
}
