package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/internal/intent"
	"github.com/themobileprof/buildok/internal/reader"
	"github.com/themobileprof/buildok/pkg/models"
)

func TestRenderPreview(t *testing.T) {
	lines := []reader.PreviewLine{
		{Number: 1, Text: "# Demo", Kind: reader.KindText, Topic: "n/a"},
		{Number: 2, Text: "## how to build", Kind: reader.KindTopic, Topic: "build"},
		{Number: 3, Text: "- run `make`.", Kind: reader.KindInstruction, Topic: "build"},
		{Number: 4, Text: "- dance a jig.", Kind: reader.KindUnsupported, Topic: "build"},
	}

	var buf bytes.Buffer
	RenderPreview(&buf, lines, 20)
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	expected := []string{
		"   1 | # Demo",
		"   2 | ## how to build      <--- topic (build)",
		"   3 | - run `make`.        <--- instruction (build)",
		"   4 | - dance a jig.       <--- unsupported instruction (build)",
	}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(expected), len(got), buf.String())
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i+1, expected[i], got[i])
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcde", 5, "abcde"},
		{"abcdefgh", 5, "ab..."},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d): expected %q, got %q", tt.in, tt.width, tt.want, got)
		}
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, &models.RunReport{
		Topic:          "deploy",
		TotalSteps:     3,
		CompletedSteps: 2,
		LastError:      "exit status 1",
		Status:         models.StatusFailed,
		Duration:       1500 * time.Millisecond,
	})

	for _, want := range []string{
		"Topic:      deploy",
		"Steps:      2/3",
		"Runtime:    1.5s",
		"Last error: exit status 1",
		"Status:     Failed",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %q in report:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "dry run") {
		t.Error("Did not expect dry run marker")
	}
}

func TestPrintUnsupported(t *testing.T) {
	var buf bytes.Buffer
	PrintUnsupported(&buf, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}

	steps := []*models.Instruction{
		{Line: 7, Step: "copy everything `a` somewhere", Punct: models.End},
	}
	s := intent.NewSuggester(actions.Builtin().Actions())
	PrintUnsupported(&buf, steps, s)

	out := buf.String()
	if !strings.Contains(out, "1 unsupported instruction(s):") {
		t.Errorf("Expected header, got:\n%s", out)
	}
	if !strings.Contains(out, "line 7: copy everything `a` somewhere.") {
		t.Errorf("Expected step line, got:\n%s", out)
	}
	if !strings.Contains(out, "did you mean copy") {
		t.Errorf("Expected copy suggestion, got:\n%s", out)
	}
}

func TestPrintUnsupportedReason(t *testing.T) {
	var buf bytes.Buffer
	PrintUnsupported(&buf, []*models.Instruction{{
		Line:     3,
		Step:     "run the following script",
		Punct:    models.End,
		Unpaired: "script needs a ':' step followed by a fenced payload",
	}}, nil)

	if !strings.Contains(buf.String(), "    script needs a ':' step followed by a fenced payload\n") {
		t.Errorf("Expected reason line, got:\n%s", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	PrintHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No runs recorded yet.") {
		t.Errorf("Unexpected empty history output %q", buf.String())
	}

	buf.Reset()
	PrintHistory(&buf, []models.RunReport{
		{Topic: "build", Status: models.StatusOK, TotalSteps: 2, CompletedSteps: 2, DurationMs: 12},
		{Topic: "deploy", Status: models.StatusFailed, TotalSteps: 3, CompletedSteps: 1, LastError: "boom"},
	})
	out := buf.String()
	if !strings.Contains(out, "Recent runs (2):") {
		t.Errorf("Expected count, got:\n%s", out)
	}
	if !strings.Contains(out, "build | Status: OK | Steps: 2/2 | Duration: 12ms") {
		t.Errorf("Expected build row, got:\n%s", out)
	}
	if !strings.Contains(out, "Error: boom") {
		t.Errorf("Expected error line, got:\n%s", out)
	}
}

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	PrintRun(&buf, &models.RunReport{
		RunID:          "abc",
		Topic:          "build",
		GuidePath:      "/src/README.md",
		TotalSteps:     2,
		CompletedSteps: 2,
		Status:         models.StatusFailed,
		Steps: []models.StepResult{
			{Order: 1, Step: "create folder `out`", Punct: ";", Action: "mkdir", Success: true, Output: "Created new directory => out", Decision: "continue"},
			{Order: 2, Step: "dance a jig", Punct: ";", Error: "no action matches instruction", Decision: "abort"},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"Run abc",
		"Guide:      /src/README.md",
		"Status:     Failed",
		"[1] ✓ create folder `out`; (mkdir, continue)",
		"      Created new directory => out",
		"[2] ✗ dance a jig; (-, abort)",
		"      error: no action matches instruction",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}
