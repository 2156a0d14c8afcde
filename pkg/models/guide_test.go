package models

import (
	"path/filepath"
	"testing"
)

func TestParsePunctuation(t *testing.T) {
	tests := []struct {
		input    string
		expected Punctuation
		name     string
		wantErr  bool
	}{
		{input: ".", expected: End, name: "END"},
		{input: ";", expected: And, name: "AND"},
		{input: "?", expected: Xor, name: "XOR"},
		{input: ":", expected: Args, name: "ARGS"},
		{input: "!", expected: Sudo, name: "SUDO"},
		{input: ",", wantErr: true},
		{input: "..", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePunctuation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", tt.input, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, p)
			}
			if p.Name() != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, p.Name())
			}
			if p.String() != tt.input {
				t.Errorf("Expected string %q, got %q", tt.input, p.String())
			}
		})
	}
}

func TestTopicAddStepAssignsOrder(t *testing.T) {
	topic := &Topic{Title: "deploy"}
	topic.AddStep(&Instruction{Step: "go to `/tmp`", Punct: End})
	topic.AddStep(&Instruction{Step: "run `ls`", Punct: And})

	for i, step := range topic.Steps {
		if step.Order != i+1 {
			t.Errorf("Step %d: expected order %d, got %d", i, i+1, step.Order)
		}
	}
	if topic.Steps[1].Text() != "run `ls`;" {
		t.Errorf("Unexpected text: %q", topic.Steps[1].Text())
	}
}

func TestGuideFind(t *testing.T) {
	guide := &Guide{}
	guide.AddTopic(&Topic{Title: "build"})
	guide.AddTopic(&Topic{Title: "deploy"})

	if _, ok := guide.Find(" deploy "); !ok {
		t.Error("Expected to find topic 'deploy'")
	}
	if _, ok := guide.Find("dep"); ok {
		t.Error("Find must not match partial titles")
	}
	titles := guide.Titles()
	if len(titles) != 2 || titles[0] != "build" {
		t.Errorf("Unexpected titles: %v", titles)
	}
}

func TestExecutionContextResolve(t *testing.T) {
	ctx := &ExecutionContext{Dir: "/srv/app"}

	if got := ctx.Resolve("bin"); got != filepath.Join("/srv/app", "bin") {
		t.Errorf("Expected joined path, got %s", got)
	}
	if got := ctx.Resolve("/etc/hosts"); got != "/etc/hosts" {
		t.Errorf("Absolute paths must be kept, got %s", got)
	}

	var empty *ExecutionContext
	if got := empty.Resolve("bin"); got != "bin" {
		t.Errorf("Nil context must keep path, got %s", got)
	}
}

func TestRunReportSucceeded(t *testing.T) {
	tests := []struct {
		name     string
		report   RunReport
		expected bool
	}{
		{name: "ok", report: RunReport{Status: StatusOK}, expected: true},
		{name: "failed", report: RunReport{Status: StatusFailed}, expected: false},
		{name: "fault", report: RunReport{Status: StatusExit, LastError: "boom"}, expected: false},
		{
			name:     "terminated on success",
			report:   RunReport{Status: StatusExit, Terminated: true, Steps: []StepResult{{Success: true}}},
			expected: true,
		},
		{
			name:     "terminated on failure",
			report:   RunReport{Status: StatusExit, Terminated: true, Steps: []StepResult{{Success: false}}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Succeeded(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
