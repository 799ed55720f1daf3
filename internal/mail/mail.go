// Package mail pulls a vCalendar part out of an invitation e-mail.
package mail

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DusanKasan/parsemail"

	appLog "vcalview/internal/log"
)

const calendarType = "text/calendar"

// ErrNoCalendar is returned when a message carries no text/calendar part.
var ErrNoCalendar = errors.New("no text/calendar part found in message")

// ExtractCalendar parses an RFC 5322 message and returns the body of its
// first text/calendar part. Inline parts (as Outlook sends them inside
// multipart/alternative) are preferred over attachments.
func ExtractCalendar(r io.Reader) ([]byte, error) {
	m, err := parsemail.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse email: %w", err)
	}

	for _, ef := range m.EmbeddedFiles {
		if isCalendar(ef.ContentType) {
			appLog.Debug("calendar part found", "kind", "embedded", "subject", m.Subject)
			return io.ReadAll(ef.Data)
		}
	}
	for _, a := range m.Attachments {
		if isCalendar(a.ContentType) || strings.HasSuffix(strings.ToLower(a.Filename), ".ics") {
			appLog.Debug("calendar part found", "kind", "attachment", "filename", a.Filename, "subject", m.Subject)
			return io.ReadAll(a.Data)
		}
	}
	return nil, ErrNoCalendar
}

func isCalendar(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), calendarType)
}
