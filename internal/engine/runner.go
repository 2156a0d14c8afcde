package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/pkg/models"
)

var (
	// ErrUnpaired is the fault raised when an unmatched instruction is reached
	ErrUnpaired = errors.New("no action matches instruction")
	// ErrPanic wraps a panic recovered from a handler
	ErrPanic = errors.New("handler panicked")
)

// Runner executes the instructions of a topic
type Runner struct {
	recorder interfaces.RunRecorder
	journal  interfaces.Journal
	out      io.Writer
	logger   *slog.Logger
	dryRun   bool
}

// NewRunner creates a new topic runner. The recorder may be nil.
func NewRunner(recorder interfaces.RunRecorder, out io.Writer, logger *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		recorder: recorder,
		out:      out,
		logger:   logger,
	}
}

// Ensure Runner implements TopicRunner interface
var _ interfaces.TopicRunner = (*Runner)(nil)

// SetDryRun enables/disables dry-run mode
func (r *Runner) SetDryRun(enabled bool) {
	r.dryRun = enabled
}

// SetJournal sets where finished reports are appended
func (r *Runner) SetJournal(j interfaces.Journal) {
	r.journal = j
}

// Run executes the topic's instructions in order. It never returns an
// error: everything that happened is in the report.
func (r *Runner) Run(ctx context.Context, execCtx *models.ExecutionContext, topic *models.Topic) *models.RunReport {
	if execCtx == nil {
		execCtx = &models.ExecutionContext{}
	}
	if execCtx.RunID == "" {
		execCtx.RunID = uuid.NewString()
	}
	execCtx.Topic = topic.Title
	execCtx.DryRun = r.dryRun

	report := &models.RunReport{
		RunID:      execCtx.RunID,
		Topic:      topic.Title,
		GuidePath:  execCtx.GuidePath,
		TotalSteps: len(topic.Steps),
		Status:     models.StatusOK,
		DryRun:     r.dryRun,
		StartedAt:  time.Now(),
	}
	log := r.logger.With("run_id", report.RunID, "topic", topic.Title)

	if r.recorder != nil {
		if err := r.recorder.StartRun(report); err != nil {
			log.Warn("failed to record run start", "error", err)
		}
	}

	fmt.Fprintf(r.out, "\n=== Running Topic: %s ===\n", topic.Title)
	if r.dryRun {
		fmt.Fprintln(r.out, "[DRY RUN MODE - Steps will not be executed]")
	}

	for _, inst := range topic.Steps {
		if err := ctx.Err(); err != nil {
			report.Status = models.StatusExit
			report.LastError = "interrupted"
			log.Info("run interrupted", "before_step", inst.Order)
			break
		}

		fmt.Fprintf(r.out, "\n[%d/%d] %s\n", inst.Order, report.TotalSteps, inst.Text())
		if inst.Description != "" {
			fmt.Fprintf(r.out, "      %s\n", inst.Description)
		}

		var result models.StepResult
		var decision Decision
		if r.dryRun {
			result = r.preview(inst, report)
			decision = Continue
		} else {
			result, decision = r.execute(execCtx, inst, report)
		}
		result.Decision = decision.String()
		report.Steps = append(report.Steps, result)
		report.CompletedSteps++

		log.Debug("step finished",
			"order", inst.Order,
			"action", result.Action,
			"success", result.Success,
			"decision", result.Decision,
			"duration_ms", result.DurationMs)

		if r.recorder != nil {
			if err := r.recorder.RecordStep(report.RunID, result); err != nil {
				log.Warn("failed to record step", "order", inst.Order, "error", err)
			}
		}

		if stop := apply(report, decision); stop {
			break
		}
	}

	if r.dryRun && report.LastError != "" {
		report.Status = models.StatusFailed
	}
	// A signal during the last step kills its child process too; that
	// failure is the interrupt, not a step error.
	if ctx.Err() != nil && report.LastError != "interrupted" && lastFailed(report) {
		report.Status = models.StatusExit
		report.LastError = "interrupted"
		log.Info("run interrupted", "during_step", len(report.Steps))
	}
	report.Duration = time.Since(report.StartedAt)
	report.DurationMs = report.Duration.Milliseconds()

	if r.recorder != nil {
		if err := r.recorder.FinishRun(report); err != nil {
			log.Warn("failed to record run completion", "error", err)
		}
	}
	if r.journal != nil {
		if err := r.journal.Append(report); err != nil {
			log.Warn("failed to append run to journal", "error", err)
		}
	}
	log.Info("run finished", "status", report.Status, "completed", report.CompletedSteps, "total", report.TotalSteps)
	return report
}

func lastFailed(report *models.RunReport) bool {
	n := len(report.Steps)
	return n > 0 && !report.Steps[n-1].Success
}

// apply updates the report for a decision and reports whether the topic ends
func apply(report *models.RunReport, d Decision) bool {
	switch d {
	case Abort:
		report.Status = models.StatusFailed
		return true
	case Stop:
		report.Status = models.StatusOK
		return true
	case Terminate:
		report.Status = models.StatusExit
		report.Terminated = true
		return true
	}
	return false
}

func (r *Runner) execute(execCtx *models.ExecutionContext, inst *models.Instruction, report *models.RunReport) (models.StepResult, Decision) {
	result := newResult(inst)

	start := time.Now()
	outcome, err := invoke(execCtx, inst)
	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	if err != nil {
		result.Error = err.Error()
		report.LastError = fmt.Sprintf("step %d: %v", inst.Order, err)
		fmt.Fprintf(r.out, "  ✗ Error: %v\n", err)
		return result, decideFault(inst.Punct)
	}

	result.Success = outcome.Success
	result.Output = outcome.Message
	if outcome.Success {
		fmt.Fprintf(r.out, "  ✓ %s\n", outcome.Message)
	} else {
		fmt.Fprintf(r.out, "  ✗ %s\n", outcome.Message)
	}
	return result, Decide(inst.Punct, outcome.Success)
}

func (r *Runner) preview(inst *models.Instruction, report *models.RunReport) models.StepResult {
	result := newResult(inst)
	if !inst.Paired() {
		err := unpaired(inst)
		result.Error = err.Error()
		report.LastError = fmt.Sprintf("step %d: %v", inst.Order, err)
		fmt.Fprintf(r.out, "  ✗ %v\n", err)
		return result
	}

	result.Success = true
	result.Output = fmt.Sprintf("would run %s", inst.Action.Name)
	fmt.Fprintf(r.out, "  → %s %s\n", inst.Action.Name, formatArgs(inst.Arguments))
	if inst.HasPayload {
		fmt.Fprintf(r.out, "    payload: %d lines\n", strings.Count(inst.Payload, "\n")+1)
	}
	return result
}

func newResult(inst *models.Instruction) models.StepResult {
	return models.StepResult{
		Order:  inst.Order,
		Line:   inst.Line,
		Step:   inst.Step,
		Punct:  inst.Punct.String(),
		Action: inst.ActionName(),
	}
}

// invoke calls the handler bound to inst. Panics are turned into faults.
func invoke(execCtx *models.ExecutionContext, inst *models.Instruction) (outcome models.Outcome, err error) {
	if !inst.Paired() {
		return outcome, unpaired(inst)
	}
	if inst.Action.Handler == nil {
		return outcome, fmt.Errorf("action '%s' is not invokable", inst.Action.Name)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()

	call := &models.Call{
		Context: execCtx,
		Args:    inst.Arguments,
	}
	if inst.Punct == models.Args {
		call.Payload = inst.Payload
		call.HasPayload = inst.HasPayload
	}
	return inst.Action.Handler(call)
}

func unpaired(inst *models.Instruction) error {
	if inst.Unpaired != "" {
		return fmt.Errorf("%w: %s (%s)", ErrUnpaired, inst.Text(), inst.Unpaired)
	}
	return fmt.Errorf("%w: %s", ErrUnpaired, inst.Text())
}

func formatArgs(args map[string]string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, args[k]))
	}
	return strings.Join(parts, " ")
}
