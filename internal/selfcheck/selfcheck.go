// Package selfcheck validates the action catalog before any guide is read.
package selfcheck

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/internal/matcher"
	"github.com/themobileprof/buildok/pkg/models"
)

// Entry statuses
const (
	StatusOK         = "ok"
	StatusDuplicated = "duplicated"
	StatusMalformed  = "malformed"
)

// terminalClass matches the end of a statement: a character class holding
// at least one of . ? ! followed by the end anchor.
var terminalClass = regexp.MustCompile(`\[[^\]]*[.?!][^\]]*\]\$$`)

// Entry is one statement of the catalog
type Entry struct {
	ID        string // "<action>.<statement>", both 1-based
	Group     string // action name
	Statement string
	Status    string
}

// Report collects everything the check found
type Report struct {
	Entries  []Entry
	Errors   []string
	Warnings []string
}

// Err returns the validation errors as a single error, or nil
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("registry validation failed:\n- %s", strings.Join(r.Errors, "\n- "))
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Run validates every action of the registry
func Run(reg *actions.Registry) *Report {
	report := &Report{}
	seen := make(map[string]string)

	for i, a := range reg.Actions() {
		if a.Handler == nil {
			report.errorf("action '%s': handler is not invokable", a.Name)
		}
		if len(a.Statements) == 0 {
			report.errorf("action '%s': no accepted statements", a.Name)
		}

		extracted, err := actions.ExtractStatements(actions.Doc(a))
		if err != nil {
			report.errorf("action '%s': %v", a.Name, err)
		} else if len(a.Statements) > 0 && !reflect.DeepEqual(extracted, a.Statements) {
			report.errorf("action '%s': documented statements differ from declared ones", a.Name)
		}

		for j, s := range a.Statements {
			entry := Entry{
				ID:        fmt.Sprintf("%d.%d", i+1, j+1),
				Group:     a.Name,
				Statement: s,
				Status:    StatusOK,
			}
			if problem := checkStatement(s); problem != "" {
				entry.Status = StatusMalformed
				report.errorf("action '%s' statement %d: %s", a.Name, j+1, problem)
			} else if owner, dup := seen[s]; dup {
				entry.Status = StatusDuplicated
				report.warnf("action '%s' statement %d duplicates a statement of '%s'", a.Name, j+1, owner)
			} else {
				seen[s] = a.Name
			}
			report.Entries = append(report.Entries, entry)
		}
	}

	// Sample checks need every statement to compile
	if len(report.Errors) > 0 {
		return report
	}
	checkSamples(reg, report)
	return report
}

func checkStatement(s string) string {
	if s != strings.TrimSpace(s) || s == "" {
		return "blank or padded statement"
	}
	if !strings.HasPrefix(s, "^") {
		return "statement must be anchored at line start"
	}
	if !terminalClass.MatchString(s) {
		return "statement must end with a [.?!] terminal class"
	}
	if _, err := actions.Compile(s); err != nil {
		return err.Error()
	}
	return ""
}

// checkSamples makes sure each sample pairs with its own action and with no
// other, so registration order never decides between two actions.
func checkSamples(reg *actions.Registry, report *Report) {
	patterns, err := reg.Patterns()
	if err != nil {
		report.errorf("%v", err)
		return
	}

	for _, a := range reg.Actions() {
		if len(a.Samples) == 0 {
			report.warnf("action '%s': no sample input", a.Name)
			continue
		}
		for _, sample := range a.Samples {
			if a.NeedsPayload && !strings.HasSuffix(sample, models.Args.String()) {
				report.errorf("action '%s': sample %q must end with ':' to carry a payload", a.Name, sample)
				continue
			}
			text, err := sampleText(sample)
			if err != nil {
				report.errorf("action '%s': %v", a.Name, err)
				continue
			}

			matched := false
			for _, p := range patterns {
				if !p.Expr.MatchString(text) {
					continue
				}
				if p.Action == a {
					matched = true
					continue
				}
				report.errorf("action '%s': sample %q also matches '%s' statement %q", a.Name, sample, p.Action.Name, p.Statement)
			}
			if !matched {
				report.errorf("action '%s': sample %q matches none of its statements", a.Name, sample)
			}
		}
	}
}

// sampleText turns a sample instruction into the text the matcher sees
func sampleText(sample string) (string, error) {
	if sample == "" {
		return "", fmt.Errorf("empty sample")
	}
	p, err := models.ParsePunctuation(sample[len(sample)-1:])
	if err != nil {
		return "", fmt.Errorf("sample %q: %w", sample, err)
	}
	return matcher.Text(sample[:len(sample)-1], p), nil
}

// Table renders the statement analysis table
func (r *Report) Table() string {
	idW, groupW, stmtW, statusW := 0, len("Group"), len("Statement"), 0
	for _, e := range r.Entries {
		idW = max(idW, len(e.ID))
		groupW = max(groupW, len(e.Group))
		stmtW = max(stmtW, len(e.Statement))
		statusW = max(statusW, len(e.Status))
	}
	row := fmt.Sprintf("| %%-%ds | %%-%ds | %%-%ds | %%-%ds |\n", idW, groupW, stmtW, statusW)

	var b strings.Builder
	header := fmt.Sprintf(row, "", "Group", "Statement", "")
	sep := strings.Repeat("-", len(header)-1) + "\n"
	b.WriteString(header)
	b.WriteString(sep)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, row, e.ID, e.Group, e.Statement, e.Status)
	}
	b.WriteString(sep)
	return b.String()
}
