package ics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateTimePattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})(Z?)`)

// ParseDateTime converts the parameters-and-value text of a date-time
// property (everything after `DTSTART;TZID=` and friends, or `:...` for
// unparameterized properties) into an absolute instant.
//
// When raw holds a double quote the value follows the `":` that closes the
// quoted TZID; otherwise it follows the first ':'. A trailing 'Z' marks UTC
// and bypasses zone resolution. Local values are resolved against zones
// using the whole of raw, and the returned time carries that location.
func ParseDateTime(raw string, zones *Zones) (time.Time, error) {
	var value string
	if strings.Contains(raw, `"`) {
		i := strings.Index(raw, `":`)
		if i < 0 {
			return time.Time{}, structuralError(raw, ErrMissingDelimiter)
		}
		value = raw[i+2:]
	} else {
		i := strings.IndexByte(raw, ':')
		if i < 0 {
			return time.Time{}, structuralError(raw, ErrMissingDelimiter)
		}
		value = raw[i+1:]
	}

	m := dateTimePattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, semanticError(value, ErrBadDateTime)
	}

	var f [6]int
	for i := range f {
		// Digits only, guaranteed by the pattern.
		f[i], _ = strconv.Atoi(m[i+1])
	}
	year, month, day, hour, minute, sec := f[0], f[1], f[2], f[3], f[4], f[5]
	if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) ||
		hour > 23 || minute > 59 || sec > 60 {
		return time.Time{}, semanticError(value, ErrBadDateTime)
	}

	if m[7] == "Z" {
		return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC), nil
	}

	loc, err := zones.Location(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
