package actions

import (
	"errors"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

// StatementsMarker introduces the statements block of an action's documentation
const StatementsMarker = "Accepted statements:"

// ErrNoStatementsMarker is returned when documentation has no statements block
var ErrNoStatementsMarker = errors.New("documentation has no accepted statements marker")

// Doc generates the documentation of an action from its table entry
func Doc(a *models.Action) string {
	var b strings.Builder
	b.WriteString(a.Summary)
	b.WriteString("\n\n")
	if a.NeedsPayload {
		b.WriteString("Reads a fenced payload following a step ending in ':'.\n\n")
	}
	b.WriteString(StatementsMarker)
	b.WriteString("\n")
	for _, s := range a.Statements {
		b.WriteString("    ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if len(a.Samples) > 0 {
		b.WriteString("\nSample input:\n")
		for _, s := range a.Samples {
			b.WriteString("    - ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ExtractStatements scans documentation for the statements block. The first
// line containing "accepted statements" (any case) is the marker; the lines
// after it, up to the first blank line or the end of the text, are the
// statements, trimmed of surrounding whitespace.
func ExtractStatements(doc string) ([]string, error) {
	lines := strings.Split(doc, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), "accepted statements") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoStatementsMarker
	}

	var statements []string
	for _, line := range lines[start+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		statements = append(statements, line)
	}
	return statements, nil
}
