// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package versiontag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is the sentinel wrapped by every version or build spec parse
// failure.
var ErrParse = errors.New("parse error")

// ParseError reports the raw input that could not be parsed and why.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Tag is a trimmed sequence of version components. The zero value is the
// version "0".
type Tag struct {
	parts []int
}

// Parse converts a dotted version string into a Tag.
func Parse(raw string) (Tag, error) {
	if raw == "" {
		return Tag{}, &ParseError{Input: raw, Reason: "empty version"}
	}

	fields := strings.Split(raw, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		// Atoi accepts a leading sign, which is never valid here.
		if f == "" || strings.ContainsAny(f, "+-") {
			return Tag{}, &ParseError{Input: raw, Reason: fmt.Sprintf("bad component %q", f)}
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Tag{}, &ParseError{Input: raw, Reason: fmt.Sprintf("bad component %q", f)}
		}
		parts = append(parts, n)
	}

	return New(parts...), nil
}

// MustParse is Parse for known-good literals. It panics on error.
func MustParse(raw string) Tag {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a Tag from components, dropping trailing zeros.
func New(parts ...int) Tag {
	n := len(parts)
	for n > 0 && parts[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Tag{}
	}
	trimmed := make([]int, n)
	copy(trimmed, parts[:n])
	return Tag{parts: trimmed}
}

// Synthesize builds the stand-in tag 0.0.<delta> used for legacy builds that
// only carry a delta counter.
func Synthesize(delta int) Tag {
	return New(0, 0, delta)
}

// Compare returns -1, 0 or +1 as a is older than, equal to, or newer than b.
func Compare(a, b Tag) int {
	n := max(len(a.parts), len(b.parts))
	for i := range n {
		x, y := a.at(i), b.at(i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// Equal reports whether t and o denote the same version.
func (t Tag) Equal(o Tag) bool {
	return Compare(t, o) == 0
}

// Less reports whether t is older than o.
func (t Tag) Less(o Tag) bool {
	return Compare(t, o) < 0
}

// Parts returns a copy of the trimmed components.
func (t Tag) Parts() []int {
	return append([]int(nil), t.parts...)
}

// String renders the canonical, trimmed dotted form.
func (t Tag) String() string {
	if len(t.parts) == 0 {
		return "0"
	}
	s := make([]string, len(t.parts))
	for i, p := range t.parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Tag) at(i int) int {
	if i < len(t.parts) {
		return t.parts[i]
	}
	return 0
}
