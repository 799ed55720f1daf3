// Package report renders a parsed event as the human-readable summary
// printed by vcalview.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"vcalview/internal/config"
	"vcalview/internal/model"
)

const (
	ansiBold   = "\x1b[1m"
	ansiRev    = "\x1b[7m"
	ansiNormal = "\x1b[0m"
)

// Options controls rendering.
type Options struct {
	// Location is the display timezone. If nil, time.Local is used.
	Location *time.Location
	// TimeFormat is a Go layout; config.DefaultTimeFormat if empty.
	TimeFormat string
	// Styled enables reverse-video headings and bold required attendees.
	Styled bool
	// Occurrences are listed under the recurrence heading, if any.
	Occurrences []model.Occurrence
}

// Styled decides whether output to w gets terminal emphasis for the given
// config.Style value.
func Styled(style string, w io.Writer) bool {
	switch style {
	case config.StyleAlways:
		return true
	case config.StyleNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type printer struct {
	w    io.Writer
	opts Options
	err  error

	rev, bold, normal string
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) heading(label string) string {
	return p.rev + label + p.normal
}

func (p *printer) time(t time.Time) string {
	return t.In(p.opts.Location).Format(p.opts.TimeFormat)
}

// Write renders ev to w. Only fields present in the input are printed.
// Attendees are listed sorted case-insensitively by name; required ones are
// bold when styled and prefixed with '*' otherwise.
func Write(w io.Writer, ev *model.Event, opts Options) error {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = config.DefaultTimeFormat
	}

	p := &printer{w: w, opts: opts}
	if opts.Styled {
		p.rev, p.bold, p.normal = ansiRev, ansiBold, ansiNormal
	}

	if ev.Cancelled() {
		p.printf("%s\n\n", p.heading("*** CANCELLED ***"))
	}

	if ev.Has(model.FieldStart) {
		p.printf("%s %s\n", p.heading("Event start:"), p.time(ev.Start))
	}
	if ev.Has(model.FieldEnd) {
		p.printf("%s %s\n", p.heading("  Event end:"), p.time(ev.End))
	}

	if ev.Has(model.FieldSummary) {
		asOf := ""
		if ev.Has(model.FieldScheduled) {
			asOf = "As of " + p.time(ev.Scheduled)
		}
		p.printf("\n%s %s\n\t%s\n", p.heading("Summary:"), asOf, ev.Summary)
	}

	if ev.Has(model.FieldLocation) {
		p.printf("\n%s %s\n", p.heading("Event location:"), ev.Location)
	}

	if ev.Has(model.FieldOrganizer) {
		p.printf("\n%s %s\n", p.heading("Event organizer:"), ev.Organizer)
	}

	if ev.Has(model.FieldDescription) {
		p.printf("\n%s\n\t%s\n", p.heading("Description:"), ev.Description)
	}

	if ev.Has(model.FieldRecurrence) {
		p.printf("\n%s %s\n", p.heading("Recurrence:"), ev.RRule)
		for _, occ := range opts.Occurrences {
			p.printf("\t%s\n", p.time(occ.Start))
		}
	}

	if len(ev.Attendees) > 0 {
		p.printf("\n%s\n", p.heading("Attendees:"))
		marker := "*"
		if opts.Styled {
			marker = p.bold
		}
		for _, a := range model.SortedAttendees(ev.Attendees) {
			if a.Required {
				p.printf("\t%s%s%s <%s>\n", marker, a.Name, p.normal, a.Email)
			} else {
				p.printf("\t%s <%s>\n", a.Name, a.Email)
			}
		}
	}

	return p.err
}
