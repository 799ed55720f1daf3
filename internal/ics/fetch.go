package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	appLog "vcalview/internal/log"
)

// maxBodySize bounds remote downloads; invitations are a few kilobytes.
const maxBodySize = 8 << 20

// Source names where a vCalendar record is read from: standard input,
// a file path, or an http(s) URL.
type Source struct {
	// Path is a file path, an http(s) URL, or "-"/"" for standard input.
	Path string
}

func (s Source) IsStdin() bool {
	return s.Path == "" || s.Path == "-"
}

func (s Source) IsURL() bool {
	return strings.HasPrefix(s.Path, "http://") || strings.HasPrefix(s.Path, "https://")
}

func (s Source) String() string {
	switch {
	case s.IsStdin():
		return "stdin"
	case s.IsURL():
		return redactURL(s.Path)
	default:
		return s.Path
	}
}

// Fetcher reads sources, using an HTTP client for URLs.
type Fetcher struct {
	client *http.Client
	stdin  io.Reader
}

// NewFetcher creates a Fetcher with a 15 second HTTP timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		stdin: os.Stdin,
	}
}

// WithStdin replaces the reader used for standard input.
func (f *Fetcher) WithStdin(r io.Reader) *Fetcher {
	f.stdin = r
	return f
}

// Read returns the complete contents of src.
func (f *Fetcher) Read(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.IsStdin():
		return io.ReadAll(f.stdin)
	case src.IsURL():
		return f.fetchURL(ctx, src)
	default:
		return os.ReadFile(src.Path)
	}
}

func (f *Fetcher) fetchURL(ctx context.Context, src Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar, */*;q=0.5")

	appLog.Info("vcalendar fetch start", "url", src)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %w", src, errors.New(resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", src, maxBodySize)
	}

	appLog.Info("vcalendar fetch success", "url", src, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// redactURL hides sensitive parts of a URL for logging purposes.
//
//	https://example.com/path/to/private.ics?token=abcd
//	-> https://example.com/...(redacted)
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	i += 3

	j := strings.IndexAny(u[i:], "/?#")
	if j == -1 {
		return u + redactedSuffix
	}
	return u[:i+j] + redactedSuffix
}
