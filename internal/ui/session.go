package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/themobileprof/buildok/internal/convert"
	"github.com/themobileprof/buildok/internal/intent"
	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/internal/reader"
	"github.com/themobileprof/buildok/pkg/models"
)

// Settings written after every run
const (
	SettingLastGuide = "last_guide"
	SettingLastTopic = "last_topic"
)

// Options controls one session
type Options struct {
	Guide        string // file or directory holding the guide
	Selector     reader.Selector
	Preview      bool
	PreviewWidth int
	Convert      string // conversion target; when set nothing is executed
	Output       string // conversion output file, stdout when empty or "-"
}

// Session walks one guide from parsing to the final report
type Session struct {
	reader    *reader.Reader
	pairer    interfaces.Pairer
	runner    interfaces.TopicRunner
	prompter  *Prompter
	suggester *intent.Suggester
	settings  interfaces.SettingsManager
	out       io.Writer
	errOut    io.Writer // warnings; out may carry a converted script
	logger    *slog.Logger
}

// NewSession wires a session. The suggester and logger may be nil.
func NewSession(r *reader.Reader, pairer interfaces.Pairer, runner interfaces.TopicRunner, prompter *Prompter, suggester *intent.Suggester, out io.Writer, logger *slog.Logger) *Session {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		reader:    r,
		pairer:    pairer,
		runner:    runner,
		prompter:  prompter,
		suggester: suggester,
		out:       out,
		errOut:    out,
		logger:    logger,
	}
}

// SetErrOutput sets where warnings go
func (s *Session) SetErrOutput(w io.Writer) {
	if w != nil {
		s.errOut = w
	}
}

// SetSettings sets where the last guide and topic are remembered
func (s *Session) SetSettings(m interfaces.SettingsManager) {
	s.settings = m
}

// Run parses the guide, selects a topic, pairs its steps and runs them.
// The report is nil when nothing ran: on conversion, or when the user exits
// the prompt (ErrExit).
func (s *Session) Run(ctx context.Context, opts Options) (*models.RunReport, error) {
	path, err := reader.Locate(opts.Guide)
	if err != nil {
		return nil, err
	}

	if opts.Preview {
		if err := s.preview(path, opts.PreviewWidth); err != nil {
			return nil, err
		}
	}

	guide, err := s.reader.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("guide parsed", "path", path, "topics", len(guide.Topics))

	guide, err = reader.Filter(guide, opts.Selector)
	if err != nil {
		return nil, err
	}
	if len(guide.Topics) == 0 {
		return nil, fmt.Errorf("no topics found in %s", path)
	}

	topic, err := s.selectTopic(ctx, guide, opts.Selector)
	if err != nil {
		return nil, err
	}

	unmatched := s.pairer.PairAll(topic.Steps)
	PrintUnsupported(s.errOut, unmatched, s.suggester)

	if opts.Convert != "" {
		return nil, s.convert(opts, topic, path)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guide directory: %w", err)
	}
	execCtx := &models.ExecutionContext{
		GuidePath: path,
		Dir:       dir,
	}

	fmt.Fprintf(s.out, "\nPreparing to run: %s\n", topic.Title)
	report := s.runner.Run(ctx, execCtx, topic)
	PrintReport(s.out, report)
	s.remember(path, topic.Title)
	return report, nil
}

// remember stores the last guide and topic. Failures only get logged.
func (s *Session) remember(path, topic string) {
	if s.settings == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := s.settings.SetSetting(SettingLastGuide, path); err != nil {
		s.logger.Warn("failed to save setting", "key", SettingLastGuide, "error", err)
	}
	if err := s.settings.SetSetting(SettingLastTopic, topic); err != nil {
		s.logger.Warn("failed to save setting", "key", SettingLastTopic, "error", err)
	}
}

// selectTopic skips the prompt when a selector already narrowed the guide
func (s *Session) selectTopic(ctx context.Context, g *models.Guide, sel reader.Selector) (*models.Topic, error) {
	if !sel.Empty() || len(g.Topics) == 1 {
		return g.Topics[0], nil
	}
	if s.prompter == nil {
		return nil, errors.New("several topics found and no way to choose one")
	}
	if s.settings != nil {
		if last, err := s.settings.GetSetting(SettingLastTopic); err == nil && last != "" {
			if _, ok := g.Find(last); ok {
				fmt.Fprintf(s.out, "Last run topic: %s\n", last)
			}
		}
	}
	return s.prompter.SelectTopic(ctx, g)
}

func (s *Session) preview(path string, width int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open guide: %w", err)
	}
	defer f.Close()

	lines, err := s.reader.Preview(f, s.pairer.IsSupported)
	if err != nil {
		return fmt.Errorf("failed to preview guide: %w", err)
	}
	fmt.Fprintf(s.out, "Preview of %s:\n", path)
	RenderPreview(s.out, lines, width)
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) convert(opts Options, topic *models.Topic, source string) error {
	res, err := convert.Convert(opts.Convert, topic, source)
	if err != nil {
		return err
	}

	if opts.Output == "" || opts.Output == "-" {
		fmt.Fprint(s.out, res.Script)
	} else {
		if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(opts.Output, []byte(res.Script), 0755); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
		fmt.Fprintf(s.errOut, "✓ Wrote %s script to %s\n", res.Target, opts.Output)
	}
	s.logger.Info("topic converted", "target", res.Target, "converted", res.Converted, "skipped", res.Skipped)
	if res.Skipped > 0 {
		fmt.Fprintf(s.errOut, "%d step(s) have no shell equivalent and fail the script\n", res.Skipped)
	}
	return nil
}
