package models

import (
	"fmt"
	"path/filepath"
)

// Handler performs the effect of an action. Expected problems are reported
// through a failed Outcome; a non-nil error is a fault.
type Handler func(call *Call) (Outcome, error)

// Action binds a set of accepted statements to a handler
type Action struct {
	Name         string
	Summary      string
	Statements   []string // regular expressions with named groups, in match order
	Samples      []string // instruction texts that must resolve to this action
	NeedsPayload bool
	Handler      Handler
	Script       func(call *Call) string // shell rendering used by the converter
}

// Call carries the arguments of a single handler invocation
type Call struct {
	Context    *ExecutionContext
	Args       map[string]string
	Payload    string
	HasPayload bool
}

// Arg returns a named argument or an empty string
func (c *Call) Arg(name string) string {
	if c.Args == nil {
		return ""
	}
	return c.Args[name]
}

// Path resolves a named path argument against the run directory
func (c *Call) Path(name string) string {
	return c.Context.Resolve(c.Arg(name))
}

// Outcome is the result of a handler invocation
type Outcome struct {
	Success bool
	Message string
}

// Succeed builds a successful outcome
func Succeed(format string, args ...any) Outcome {
	return Outcome{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Fail builds a failed outcome
func Fail(format string, args ...any) Outcome {
	return Outcome{Success: false, Message: fmt.Sprintf(format, args...)}
}

// ExecutionContext holds runtime state shared by the handlers of one run
type ExecutionContext struct {
	RunID     string
	GuidePath string
	Topic     string
	Dir       string // working directory for the run
	DryRun    bool
}

// Resolve joins a relative path with the run directory
func (c *ExecutionContext) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c == nil || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}
