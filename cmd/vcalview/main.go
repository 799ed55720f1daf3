package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"vcalview/internal/config"
	"vcalview/internal/ics"
	appLog "vcalview/internal/log"
	"vcalview/internal/mail"
	"vcalview/internal/model"
	"vcalview/internal/report"
)

const version = "0.1.0"

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath  string
	displayTZ   string
	mail        bool
	showVersion bool
	source      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		// -h/-help prints usage and fails, like a malformed command line.
		return 1
	}
	if flags.showVersion {
		fmt.Fprintf(stdout, "vcalview v%s\n", version)
		return 0
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return 1
	}
	if flags.displayTZ != "" {
		conf.DisplayTimezone = flags.displayTZ
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		appLog.Warn("invalid log level, using INFO", "log_level", conf.LogLevel)
	}
	appLog.SetLevel(level)

	displayLoc := time.Local
	if conf.DisplayTimezone != "" {
		displayLoc, err = time.LoadLocation(conf.DisplayTimezone)
		if err != nil {
			appLog.Error("invalid display timezone", err, "timezone", conf.DisplayTimezone)
			return 1
		}
	}

	appLog.Debug("effective config",
		"display_timezone", displayLoc.String(),
		"time_format", conf.TimeFormat,
		"style", conf.Style,
		"occurrences", conf.Occurrences,
		"extra_timezones", len(conf.Timezones),
		"mail", flags.mail,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := ics.Source{Path: flags.source}
	body, err := ics.NewFetcher().WithStdin(stdin).Read(ctx, src)
	if err != nil {
		appLog.Error("failed to read input", err, "source", src.String())
		return 1
	}

	if flags.mail {
		body, err = mail.ExtractCalendar(bytes.NewReader(body))
		if err != nil {
			appLog.Error("failed to extract calendar from message", err, "source", src.String())
			return 1
		}
	}

	zones := ics.NewZones(extraZones(conf.Timezones)...)
	ev, err := ics.NewParser(zones).Parse(bytes.NewReader(body))
	if err != nil {
		kv := []any{"source", src.String()}
		var pe *ics.ParseError
		if errors.As(err, &pe) {
			kv = append(kv, "kind", pe.Kind.String(), "fragment", pe.Fragment)
		}
		appLog.Error("failed to parse vcalendar", err, kv...)
		return 1
	}

	if info, ierr := ics.Inspect(body); ierr != nil {
		appLog.Debug("strict calendar parse skipped", "source", src.String(), "reason", ierr.Error())
	} else if info.Events > 1 {
		appLog.Warn("calendar holds several events; their properties were merged",
			"source", src.String(), "events", info.Events, "uids", strings.Join(info.UIDs, ","))
	}

	opts := report.Options{
		Location:   displayLoc,
		TimeFormat: conf.TimeFormat,
		Styled:     report.Styled(conf.Style, stdout),
	}
	// Without a resolved start (e.g. an all-day DTSTART;VALUE=DATE) the rule
	// is reported as-is, with no occurrence list.
	if ev.Has(model.FieldRecurrence) && ev.Has(model.FieldStart) {
		opts.Occurrences, err = ics.Expand(ev, ics.ExpandConfig{
			DisplayLocation: displayLoc,
			Count:           conf.Occurrences,
		})
		if err != nil {
			appLog.Error("failed to expand recurrence", err, "source", src.String(), "fragment", "RRULE:"+ev.RRule)
			return 1
		}
	}

	if err := report.Write(stdout, ev, opts); err != nil {
		appLog.Error("failed to write report", err)
		return 1
	}
	return 0
}

func extraZones(in []config.TimezoneMapping) []ics.TZXRef {
	out := make([]ics.TZXRef, 0, len(in))
	for _, m := range in {
		out = append(out, ics.TZXRef{MS: m.MS, Posix: m.Posix})
	}
	return out
}

func parseFlags(args []string, stderr io.Writer) (flagConfig, error) {
	var cfg flagConfig

	fs := flag.NewFlagSet("vcalview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: vcalview [flags] [file|URL|-]\n\n")
		fmt.Fprintf(fs.Output(), "Print a summary of one Outlook vCalendar event. Reads stdin when no input is given.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (created with defaults if missing)")
	fs.StringVar(&cfg.displayTZ, "tz", "", "IANA timezone for the report (overrides config)")
	fs.BoolVar(&cfg.mail, "mail", false, "Input is an e-mail message; parse its text/calendar part")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return cfg, fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}
	cfg.source = fs.Arg(0)

	return cfg, nil
}
