package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/themobileprof/buildok/internal/intent"
	"github.com/themobileprof/buildok/internal/reader"
	"github.com/themobileprof/buildok/pkg/models"
)

// RenderPreview prints annotated guide lines, cut or padded to width
func RenderPreview(w io.Writer, lines []reader.PreviewLine, width int) {
	if width < 10 {
		width = 10
	}
	for _, l := range lines {
		text := fit(l.Text, width)
		if l.Kind == reader.KindText {
			fmt.Fprintf(w, "%4d | %s\n", l.Number, strings.TrimRight(text, " "))
			continue
		}
		fmt.Fprintf(w, "%4d | %s <--- %s (%s)\n", l.Number, text, l.Kind, l.Topic)
	}
}

// fit cuts s to width runes or pads it with spaces
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}

// PrintUnsupported warns about steps no action accepts and lists the
// closest actions for each.
func PrintUnsupported(w io.Writer, steps []*models.Instruction, s *intent.Suggester) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d unsupported instruction(s):\n", len(steps))
	for _, inst := range steps {
		fmt.Fprintf(w, "  line %d: %s\n", inst.Line, inst.Text())
		if inst.Unpaired != "" {
			fmt.Fprintf(w, "    %s\n", inst.Unpaired)
		}
		if s == nil {
			continue
		}
		for _, sug := range s.Suggest(inst.Step, 3) {
			if sug.Sample != "" {
				fmt.Fprintf(w, "    did you mean %s, e.g. %q (%.2f)\n", sug.Action, sug.Sample, sug.Score)
			} else {
				fmt.Fprintf(w, "    did you mean %s (%.2f)\n", sug.Action, sug.Score)
			}
		}
	}
}

// PrintReport prints the final outcome of a run
func PrintReport(w io.Writer, r *models.RunReport) {
	fmt.Fprintln(w, "\n=== Report ===")
	fmt.Fprintf(w, "Topic:      %s\n", r.Topic)
	fmt.Fprintf(w, "Steps:      %d/%d\n", r.CompletedSteps, r.TotalSteps)
	fmt.Fprintf(w, "Runtime:    %s\n", r.Duration.Round(time.Millisecond))
	if r.LastError != "" {
		fmt.Fprintf(w, "Last error: %s\n", r.LastError)
	}
	if r.DryRun {
		fmt.Fprintln(w, "Mode:       dry run")
	}
	if r.Terminated {
		fmt.Fprintln(w, "Terminated: yes")
	}
	fmt.Fprintf(w, "Status:     %s\n", r.Status)
}

// PrintHistory lists past runs, newest first
func PrintHistory(w io.Writer, runs []models.RunReport) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	fmt.Fprintf(w, "\nRecent runs (%d):\n\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(w, "• %s | %s | Status: %s | Steps: %d/%d | Duration: %dms\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Topic, r.Status,
			r.CompletedSteps, r.TotalSteps, r.DurationMs)
		if r.RunID != "" {
			fmt.Fprintf(w, "  ID: %s\n", r.RunID)
		}
		if r.LastError != "" {
			fmt.Fprintf(w, "  Error: %s\n", r.LastError)
		}
	}
}

// PrintRun prints one recorded run with its steps
func PrintRun(w io.Writer, r *models.RunReport) {
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	if r.GuidePath != "" {
		fmt.Fprintf(w, "Guide:      %s\n", r.GuidePath)
	}
	fmt.Fprintf(w, "Started:    %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	PrintReport(w, r)

	if len(r.Steps) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSteps:")
	for _, s := range r.Steps {
		mark := "✓"
		if !s.Success {
			mark = "✗"
		}
		action := s.Action
		if action == "" {
			action = "-"
		}
		fmt.Fprintf(w, "  [%d] %s %s%s (%s, %s)\n", s.Order, mark, s.Step, s.Punct, action, s.Decision)
		if s.Error != "" {
			fmt.Fprintf(w, "      error: %s\n", s.Error)
		} else if s.Output != "" {
			fmt.Fprintf(w, "      %s\n", s.Output)
		}
	}
}
