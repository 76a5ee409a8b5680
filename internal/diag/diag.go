// Package diag models build diagnostics as plain data: a stable code, a
// severity, a rendered message and an optional source location.
package diag

import (
	"fmt"
	"sort"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location is a 1-based position in a file. The zero value means "no location".
type Location struct {
	File   string
	Line   int
	Column int
}

// IsNone reports whether l carries no position.
func (l Location) IsNone() bool {
	return l.File == ""
}

func (l Location) String() string {
	if l.IsNone() {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Descriptor is the static part of a diagnostic.
type Descriptor struct {
	Code     string
	Title    string
	Format   string
	Severity Severity
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Location Location
}

// New renders d's message with args at loc.
func New(d Descriptor, loc Location, args ...any) Diagnostic {
	msg := d.Format
	if len(args) > 0 {
		msg = fmt.Sprintf(d.Format, args...)
	}
	return Diagnostic{
		Code:     d.Code,
		Severity: d.Severity,
		Message:  msg,
		Location: loc,
	}
}

func (d Diagnostic) String() string {
	if d.Location.IsNone() {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Location, d.Severity, d.Code, d.Message)
}

// Bag collects diagnostics in report order. The zero value is ready to use.
type Bag struct {
	items []Diagnostic
}

// Report appends a diagnostic.
func (b *Bag) Report(d Diagnostic) {
	b.items = append(b.items, d)
}

// Items returns the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with severity s.
func Count(ds []Diagnostic, s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file, line, column and code. Location-less
// diagnostics come first. Report order is kept for ties.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Location, ds[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return ds[i].Code < ds[j].Code
	})
}
