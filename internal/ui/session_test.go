package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/internal/engine"
	"github.com/themobileprof/buildok/internal/matcher"
	"github.com/themobileprof/buildok/internal/mocks"
	"github.com/themobileprof/buildok/internal/reader"
	"github.com/themobileprof/buildok/pkg/models"
)

const sessionGuide = `# Demo project

## how to build
- create folder ` + "`out`" + `;
- dance a jig.

## how to deploy
- go to ` + "`out`" + `.
`

func setupGuide(t *testing.T, content string) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "buildok-ui-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	if err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write guide: %v", err)
	}
	return tmpDir
}

func newTestSession(t *testing.T, input string, runner *mocks.MockTopicRunner, out io.Writer) *Session {
	t.Helper()
	r, err := reader.New(reader.Options{})
	if err != nil {
		t.Fatalf("reader.New failed: %v", err)
	}
	m, err := matcher.New(actions.Builtin())
	if err != nil {
		t.Fatalf("matcher.New failed: %v", err)
	}
	prompter := NewPrompter(strings.NewReader(input), out, 3)
	return NewSession(r, m, runner, prompter, nil, out, nil)
}

func TestSessionPromptsForTopic(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	runner := &mocks.MockTopicRunner{}
	var out bytes.Buffer
	s := newTestSession(t, "2\n", runner, &out)

	report, err := s.Run(context.Background(), Options{Guide: dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report == nil || report.Status != models.StatusOK {
		t.Fatalf("Expected OK report, got %+v", report)
	}
	if len(runner.Topics) != 1 || runner.Topics[0] != "deploy" {
		t.Errorf("Expected deploy to run, got %v", runner.Topics)
	}

	abs, _ := filepath.Abs(dir)
	if runner.Context.Dir != abs {
		t.Errorf("Expected run dir %s, got %s", abs, runner.Context.Dir)
	}
	if runner.Context.GuidePath != filepath.Join(dir, "README.md") {
		t.Errorf("Unexpected guide path %s", runner.Context.GuidePath)
	}
	if !strings.Contains(out.String(), "Status:     OK") {
		t.Errorf("Expected report in output:\n%s", out.String())
	}
}

func TestSessionSelectorSkipsPrompt(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	runner := &mocks.MockTopicRunner{}
	var out bytes.Buffer
	s := newTestSession(t, "", runner, &out)

	_, err := s.Run(context.Background(), Options{
		Guide:    dir,
		Selector: reader.Selector{Title: "build"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(runner.Topics) != 1 || runner.Topics[0] != "build" {
		t.Errorf("Expected build to run, got %v", runner.Topics)
	}
	if strings.Contains(out.String(), "Found the following topics") {
		t.Error("Did not expect a prompt")
	}
	if !strings.Contains(out.String(), "line 5: dance a jig.") {
		t.Errorf("Expected unsupported warning, got:\n%s", out.String())
	}
}

func TestSessionErrors(t *testing.T) {
	tests := []struct {
		name    string
		guide   string
		input   string
		opts    Options
		wantErr error
	}{
		{"blank answer exits", sessionGuide, "\n", Options{}, ErrExit},
		{"no selection", sessionGuide, "x\ny\nz\n", Options{}, ErrNoSelection},
		{"unknown topic", sessionGuide, "", Options{Selector: reader.Selector{Title: "release"}}, reader.ErrTopicNotFound},
		{"structural error", "- orphan step.\n", "", Options{}, reader.ErrNoTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupGuide(t, tt.guide)
			runner := &mocks.MockTopicRunner{}
			s := newTestSession(t, tt.input, runner, io.Discard)

			tt.opts.Guide = dir
			report, err := s.Run(context.Background(), tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if report != nil {
				t.Errorf("Expected no report, got %+v", report)
			}
			if len(runner.Topics) != 0 {
				t.Errorf("Expected nothing to run, got %v", runner.Topics)
			}
		})
	}
}

func TestSessionNoTopics(t *testing.T) {
	dir := setupGuide(t, "# Just a title\n\nSome text.\n")
	s := newTestSession(t, "", &mocks.MockTopicRunner{}, io.Discard)

	if _, err := s.Run(context.Background(), Options{Guide: dir}); err == nil {
		t.Error("Expected error for a guide without topics")
	}
}

func TestSessionMissingGuide(t *testing.T) {
	s := newTestSession(t, "", &mocks.MockTopicRunner{}, io.Discard)
	if _, err := s.Run(context.Background(), Options{Guide: "/nonexistent/buildok"}); err == nil {
		t.Error("Expected error for a missing guide")
	}
}

func TestSessionPreview(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	var out bytes.Buffer
	s := newTestSession(t, "1\n", &mocks.MockTopicRunner{}, &out)

	if _, err := s.Run(context.Background(), Options{Guide: dir, Preview: true, PreviewWidth: 40}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, want := range []string{
		"<--- topic (build)",
		"<--- instruction (build)",
		"<--- unsupported instruction (build)",
		"<--- instruction (deploy)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in preview:\n%s", want, out.String())
		}
	}
}

func TestSessionConvert(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	runner := &mocks.MockTopicRunner{}
	var out, errOut bytes.Buffer
	s := newTestSession(t, "", runner, &out)
	s.SetErrOutput(&errOut)

	target := filepath.Join(dir, "scripts", "build.sh")
	report, err := s.Run(context.Background(), Options{
		Guide:    dir,
		Selector: reader.Selector{Title: "build"},
		Convert:  "bash",
		Output:   target,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report != nil || len(runner.Topics) != 0 {
		t.Error("Expected conversion to skip execution")
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected script file: %v", err)
	}
	if !strings.Contains(string(data), "{ mkdir -p 'out'; } || exit 1") {
		t.Errorf("Unexpected script:\n%s", data)
	}
	if !strings.Contains(errOut.String(), "1 step(s) have no shell equivalent") {
		t.Errorf("Expected skipped note, got:\n%s", errOut.String())
	}
	if strings.Contains(out.String(), "unsupported instruction") {
		t.Errorf("Expected warnings kept off the main output:\n%s", out.String())
	}
}

func TestSessionConvertToStdout(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	var out bytes.Buffer
	s := newTestSession(t, "", &mocks.MockTopicRunner{}, &out)
	s.SetErrOutput(io.Discard)

	_, err := s.Run(context.Background(), Options{
		Guide:    dir,
		Selector: reader.Selector{Pattern: "^dep"},
		Convert:  "bash",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "#!/usr/bin/env bash\n") {
		t.Errorf("Expected only the script on output, got:\n%s", out.String())
	}
}

func TestSessionConvertUnsupportedTarget(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	s := newTestSession(t, "", &mocks.MockTopicRunner{}, io.Discard)

	_, err := s.Run(context.Background(), Options{
		Guide:    dir,
		Selector: reader.Selector{Title: "build"},
		Convert:  "docker",
	})
	if err == nil {
		t.Error("Expected error for docker target")
	}
}

func TestSessionRemembersLastTopic(t *testing.T) {
	dir := setupGuide(t, sessionGuide)
	settings := mocks.NewMockSettingsManager()
	var out bytes.Buffer

	s := newTestSession(t, "1\n", &mocks.MockTopicRunner{}, &out)
	s.SetSettings(settings)
	if _, err := s.Run(context.Background(), Options{Guide: dir}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	topic, _ := settings.GetSetting(SettingLastTopic)
	if topic != "build" {
		t.Errorf("Expected last topic build, got %q", topic)
	}
	guide, _ := settings.GetSetting(SettingLastGuide)
	if !filepath.IsAbs(guide) || filepath.Base(guide) != "README.md" {
		t.Errorf("Expected absolute guide path, got %q", guide)
	}

	out.Reset()
	s = newTestSession(t, "2\n", &mocks.MockTopicRunner{}, &out)
	s.SetSettings(settings)
	if _, err := s.Run(context.Background(), Options{Guide: dir}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Last run topic: build") {
		t.Errorf("Expected last topic hint, got:\n%s", out.String())
	}
}

func TestSessionRunsThroughEngine(t *testing.T) {
	dir := setupGuide(t, "## how to build\n- create folder `out/bin`;\n- write to `out/bin/VERSION`:\n```\n1.0.0\n```\n")
	r, err := reader.New(reader.Options{})
	if err != nil {
		t.Fatalf("reader.New failed: %v", err)
	}
	m, err := matcher.New(actions.Builtin())
	if err != nil {
		t.Fatalf("matcher.New failed: %v", err)
	}
	recorder := mocks.NewMockRunRecorder()
	var out bytes.Buffer
	s := NewSession(r, m, engine.NewRunner(recorder, &out, nil), nil, nil, &out, nil)

	report, err := s.Run(context.Background(), Options{Guide: filepath.Join(dir, "README.md")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Status != models.StatusOK || report.CompletedSteps != 2 {
		t.Fatalf("Expected OK with 2 steps, got %+v\n%s", report, out.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "bin", "VERSION"))
	if err != nil || string(data) != "1.0.0\n" {
		t.Errorf("Expected VERSION written in the guide directory, got %q (%v)", data, err)
	}
	if len(recorder.Finished) != 1 {
		t.Errorf("Expected one finished run, got %d", len(recorder.Finished))
	}
}
