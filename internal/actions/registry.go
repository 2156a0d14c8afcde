// Package actions holds the catalog of executable actions and the statements
// that select them.
//
// Each action is declared as a table entry: a name, a summary, the ordered
// list of accepted statements (regular expressions with named groups) and a
// handler. The human readable documentation of an action is generated from
// that table, and the "accepted statements" block of the generated text can
// be scanned back into statements, which is how the startup self check makes
// sure documentation and grammar never drift apart.
package actions

import (
	"fmt"
	"regexp"

	"github.com/themobileprof/buildok/pkg/models"
)

// Pattern is a compiled statement bound to its action
type Pattern struct {
	Action    *models.Action
	Statement string
	Index     int // position of the statement within the action
	Expr      *regexp.Regexp
}

// Registry keeps actions in registration order. It is populated at startup
// and read-only afterwards.
type Registry struct {
	actions []*models.Action
	byName  map[string]*models.Action
}

// New creates an empty registry
func New() *Registry {
	return &Registry{byName: make(map[string]*models.Action)}
}

// Register adds an action to the end of the registry
func (r *Registry) Register(action *models.Action) error {
	if action == nil {
		return fmt.Errorf("cannot register nil action")
	}
	if action.Name == "" {
		return fmt.Errorf("action name is required")
	}
	if _, exists := r.byName[action.Name]; exists {
		return fmt.Errorf("action '%s' already registered", action.Name)
	}
	r.actions = append(r.actions, action)
	r.byName[action.Name] = action
	return nil
}

// MustRegister registers actions and panics on the first error
func (r *Registry) MustRegister(actions ...*models.Action) {
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
}

// Actions returns all actions in registration order
func (r *Registry) Actions() []*models.Action {
	out := make([]*models.Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Len returns the number of registered actions
func (r *Registry) Len() int {
	return len(r.actions)
}

// Lookup returns an action by name
func (r *Registry) Lookup(name string) (*models.Action, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Find returns the first action declaring exactly this statement
func (r *Registry) Find(statement string) (*models.Action, bool) {
	for _, a := range r.actions {
		for _, s := range a.Statements {
			if s == statement {
				return a, true
			}
		}
	}
	return nil, false
}

// Patterns compiles every statement, in registration order and then in
// statement order.
func (r *Registry) Patterns() ([]Pattern, error) {
	var patterns []Pattern
	for _, a := range r.actions {
		for i, s := range a.Statements {
			expr, err := Compile(s)
			if err != nil {
				return nil, fmt.Errorf("action '%s' statement %d: %w", a.Name, i+1, err)
			}
			patterns = append(patterns, Pattern{
				Action:    a,
				Statement: s,
				Index:     i,
				Expr:      expr,
			})
		}
	}
	return patterns, nil
}

// Compile compiles a statement as a case-insensitive expression
func Compile(statement string) (*regexp.Regexp, error) {
	expr, err := regexp.Compile("(?i)" + statement)
	if err != nil {
		return nil, fmt.Errorf("malformed statement %q: %w", statement, err)
	}
	return expr, nil
}
