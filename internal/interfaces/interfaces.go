package interfaces

import (
	"context"

	"github.com/themobileprof/buildok/pkg/models"
)

// RunRecorder persists the progress of runs
type RunRecorder interface {
	// StartRun records the beginning of a run
	StartRun(report *models.RunReport) error
	// RecordStep records the result of one executed instruction
	RecordStep(runID string, step models.StepResult) error
	// FinishRun records the final status of a run
	FinishRun(report *models.RunReport) error
}

// RunHistory lists past runs
type RunHistory interface {
	// RecentRuns returns the latest runs, newest first
	RecentRuns(limit int) ([]models.RunReport, error)
}

// Journal keeps an append-only record of finished runs
type Journal interface {
	// Append writes a finished run report
	Append(report *models.RunReport) error
}

// Pairer binds instructions to actions
type Pairer interface {
	// Pair binds one instruction, reporting whether an action matched
	Pair(inst *models.Instruction) bool
	// PairAll binds every instruction and returns the unmatched ones
	PairAll(steps []*models.Instruction) []*models.Instruction
	// IsSupported reports whether a step would match an action
	IsSupported(step string, punct models.Punctuation) bool
}

// TopicRunner executes the instructions of a topic
type TopicRunner interface {
	// Run executes a paired topic and reports the outcome
	Run(ctx context.Context, execCtx *models.ExecutionContext, topic *models.Topic) *models.RunReport
	// SetDryRun enables or disables dry-run mode (steps are shown, never executed)
	SetDryRun(enabled bool)
}

// SettingsManager handles persisted key/value settings
type SettingsManager interface {
	// GetSetting retrieves a value, empty when unset
	GetSetting(key string) (string, error)
	// SetSetting stores a value
	SetSetting(key, value string) error
}
