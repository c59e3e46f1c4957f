// Package diag implements the TIL compiler's diagnostic collection and
// rendering (spec §6, §7). Parsing and evaluation are error-collecting, not
// short-circuiting: each stage appends to a shared Collector and continues
// past the first error in a declaration, recovering to the next boundary.
package diag

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/til/internal/span"
	"github.com/dekarrin/til/internal/tilerr"
)

// Severity is the level of a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// SecondaryLabel attaches an explanatory label to a secondary span, e.g. the
// span of a prior conflicting declaration.
type SecondaryLabel struct {
	Span  span.Span
	Label string
}

// Diagnostic is a single compiler-reported issue: a severity, a message, the
// primary span the message refers to, and any number of secondary spans with
// their own labels (spec §6).
type Diagnostic struct {
	Severity   Severity
	Category   tilerr.Category
	Message    string
	Primary    span.Span
	Secondary  []SecondaryLabel
	SourceText string // full source file the spans are within, for rendering
}

// Collector accumulates diagnostics produced across the compile pipeline.
// It is not safe for concurrent use by multiple goroutines without external
// synchronization; the elaboration of independent namespaces (spec §5) must
// collect into per-namespace Collectors and Merge them under the project
// orchestrator's single lock.
type Collector struct {
	diags []Diagnostic
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Errorf appends an Error-severity diagnostic built from a category and
// message, anchored at primary.
func (c *Collector) Errorf(cat tilerr.Category, primary span.Span, source, format string, args ...interface{}) {
	c.Add(Diagnostic{
		Severity:   Error,
		Category:   cat,
		Message:    fmt.Sprintf(format, args...),
		Primary:    primary,
		SourceText: source,
	})
}

// Warnf appends a Warning-severity diagnostic.
func (c *Collector) Warnf(cat tilerr.Category, primary span.Span, source, format string, args ...interface{}) {
	c.Add(Diagnostic{
		Severity:   Warning,
		Category:   cat,
		Message:    fmt.Sprintf(format, args...),
		Primary:    primary,
		SourceText: source,
	})
}

// Merge appends all diagnostics from o to c, preserving deterministic
// ordering: callers merging per-namespace collectors must do so in namespace
// declaration order, per spec §5's "deterministic diagnostic order when
// serialized" requirement.
func (c *Collector) Merge(o *Collector) {
	c.diags = append(c.diags, o.diags...)
}

// HasErrors reports whether any Error-severity diagnostic has been recorded.
// Per spec §7, any such diagnostic fails the overall compile run.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns the collected diagnostics, sorted by file then primary-span
// start offset, matching spec §7's "spans point to the first offending
// token" ordering expectation.
func (c *Collector) All() []Diagnostic {
	sorted := make([]Diagnostic, len(c.diags))
	copy(sorted, c.diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Primary, sorted[j].Primary
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
	return sorted
}

// Render formats a single diagnostic for display as a "span: severity:
// message" header (the category is not shown), wrapped to width using rosed
// the way tunascript's SyntaxError.FullMessage does. If source text is
// available, the offending source line with a cursor under the column is
// placed above the header.
func Render(d Diagnostic, width int) string {
	header := fmt.Sprintf("%s: %s: %s", d.Primary, d.Severity, d.Message)
	if width > 0 {
		header = rosed.Edit(header).Wrap(width).String()
	}

	line := sourceLineWithCursor(d.SourceText, d.Primary)
	if line == "" {
		return header
	}
	return line + "\n" + header
}

// sourceLineWithCursor returns the exact source line containing sp.Start
// with a '^' cursor under the offending column, matching
// tunascript.SyntaxError.SourceLineWithCursor.
func sourceLineWithCursor(source string, sp span.Span) string {
	if source == "" || sp.Line == 0 {
		return ""
	}

	lineStart := sp.Start - (sp.Col - 1)
	if lineStart < 0 || lineStart > len(source) {
		return ""
	}
	lineEnd := lineStart
	for lineEnd < len(source) && source[lineEnd] != '\n' {
		lineEnd++
	}
	line := source[lineStart:lineEnd]

	cursor := ""
	for i := 0; i < sp.Col-1; i++ {
		cursor += " "
	}
	cursor += "^"

	return line + "\n" + cursor
}
