package models

import "time"

// RunStatus is the overall outcome of a run
type RunStatus string

const (
	StatusOK     RunStatus = "OK"
	StatusFailed RunStatus = "Failed"
	StatusExit   RunStatus = "Exit"
)

// StepResult records what happened to one instruction
type StepResult struct {
	Order      int           `json:"order"`
	Line       int           `json:"line"`
	Step       string        `json:"step"`
	Punct      string        `json:"punct"`
	Action     string        `json:"action,omitempty"`
	Success    bool          `json:"success"`
	Output     string        `json:"output,omitempty"`
	Error      string        `json:"error,omitempty"`
	Decision   string        `json:"decision"`
	DurationMs int64         `json:"duration_ms"`
	Duration   time.Duration `json:"-"`
}

// RunReport aggregates the outcome of running one topic
type RunReport struct {
	RunID          string        `json:"run_id"`
	Topic          string        `json:"topic"`
	GuidePath      string        `json:"guide,omitempty"`
	TotalSteps     int           `json:"total_steps"`
	CompletedSteps int           `json:"completed_steps"`
	LastError      string        `json:"last_error,omitempty"`
	Status         RunStatus     `json:"status"`
	Terminated     bool          `json:"terminated,omitempty"` // a SUDO step ended the process
	DryRun         bool          `json:"dry_run,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	DurationMs     int64         `json:"duration_ms"`
	Duration       time.Duration `json:"-"`
	Steps          []StepResult  `json:"steps,omitempty"`
}

// Succeeded reports whether the run ended without errors or failed steps
// that stopped it.
func (r *RunReport) Succeeded() bool {
	if r.Status == StatusFailed || r.LastError != "" {
		return false
	}
	if r.Terminated && len(r.Steps) > 0 {
		return r.Steps[len(r.Steps)-1].Success
	}
	return true
}
