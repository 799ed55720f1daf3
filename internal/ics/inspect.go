package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
)

// CalendarInfo summarizes a well-formed VCALENDAR as seen by a strict
// RFC 5545 parser.
type CalendarInfo struct {
	Method ical.Method
	UIDs   []string // one per VEVENT, in input order; empty UIDs are skipped
	Events int
}

// Inspect parses body with golang-ical. Outlook fragments and bare property
// lists that the strict parser rejects return an error; the line-oriented
// Parser is the authority on the event itself, Inspect only reports the
// calendar's shape (how many events it holds, which METHOD it was sent with).
func Inspect(body []byte) (CalendarInfo, error) {
	if len(body) == 0 {
		return CalendarInfo{}, errors.New("empty calendar body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return CalendarInfo{}, fmt.Errorf("inspect calendar: %w", err)
	}

	var info CalendarInfo
	for _, p := range cal.CalendarProperties {
		if strings.EqualFold(p.IANAToken, string(ical.PropertyMethod)) {
			info.Method = ical.Method(strings.ToUpper(strings.TrimSpace(p.Value)))
		}
	}
	for _, ve := range cal.Events() {
		info.Events++
		if id := ve.Id(); id != "" {
			info.UIDs = append(info.UIDs, id)
		}
	}
	return info, nil
}
