package ics

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
)

// ContentLine is one logical, unfolded property line.
//
// Name holds the property name together with its parameters
// (e.g. `DTSTART;TZID="Central Standard Time"`), Value everything after the
// first ':' that is not inside a double-quoted parameter value.
type ContentLine struct {
	Raw   string
	Name  string
	Value string
}

// splitContentLine splits raw at the first unquoted ':'. ok is false when
// there is no such delimiter.
func splitContentLine(raw string) (ContentLine, bool) {
	quoted := false
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			quoted = !quoted
		case ':':
			if !quoted {
				return ContentLine{Raw: raw, Name: raw[:i], Value: raw[i+1:]}, true
			}
		}
	}
	return ContentLine{Raw: raw, Name: raw}, false
}

// Unfolder yields logical content lines from a folded stream. Physical lines
// beginning with a single space continue the previous line; the space is
// dropped and nothing is inserted in its place.
type Unfolder struct {
	b    *bufio.Reader
	done bool
}

func NewUnfolder(r io.Reader) *Unfolder {
	return &Unfolder{b: bufio.NewReader(r)}
}

// ReadLine returns the next logical line with trailing whitespace removed.
// It returns io.EOF once the stream is exhausted; a final line without a
// terminating newline is still returned.
func (u *Unfolder) ReadLine() (string, error) {
	if u.done {
		return "", io.EOF
	}

	first, err := u.b.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) {
		u.done = true
		if first == "" {
			return "", io.EOF
		}
	}

	line := trimEnd(first)

	for !u.done {
		p, perr := u.b.Peek(1)
		if errors.Is(perr, io.EOF) || len(p) == 0 {
			break
		}
		if perr != nil {
			return "", perr
		}
		if p[0] != ' ' {
			break
		}
		_, _ = u.b.Discard(1)

		cont, cerr := u.b.ReadString('\n')
		if cerr != nil && !errors.Is(cerr, io.EOF) {
			return "", cerr
		}
		if errors.Is(cerr, io.EOF) {
			u.done = true
		}
		line = trimEnd(line + cont)
	}

	return line, nil
}

func trimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
