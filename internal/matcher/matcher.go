package matcher

import (
	"fmt"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/pkg/models"
)

// Match is the result of resolving an instruction text against the catalog
type Match struct {
	Action    *models.Action
	Statement string
	Args      map[string]string
	Values    []string // captures in declaration order
}

// Matcher resolves instruction texts to actions. The compiled table is
// read-only after New returns.
type Matcher struct {
	patterns []actions.Pattern
}

// New compiles every statement of the registry
func New(reg *actions.Registry) (*Matcher, error) {
	patterns, err := reg.Patterns()
	if err != nil {
		return nil, fmt.Errorf("failed to compile statements: %w", err)
	}
	return &Matcher{patterns: patterns}, nil
}

// Match returns the first pattern, in registration order, matching text
func (m *Matcher) Match(text string) (*Match, bool) {
	for _, p := range m.patterns {
		if groups := p.Expr.FindStringSubmatch(text); groups != nil {
			return newMatch(p, groups), true
		}
	}
	return nil, false
}

// matchStep is Match restricted to actions that accept the punctuation.
// Payload actions only take ':' steps; when one of them is the only
// candidate the returned reason says so.
func (m *Matcher) matchStep(step string, punct models.Punctuation) (*Match, string) {
	text := Text(step, punct)
	reason := ""
	for _, p := range m.patterns {
		groups := p.Expr.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		if p.Action.NeedsPayload && punct != models.Args {
			if reason == "" {
				reason = fmt.Sprintf("%s needs a ':' step followed by a fenced payload", p.Action.Name)
			}
			continue
		}
		return newMatch(p, groups), ""
	}
	return nil, reason
}

func newMatch(p actions.Pattern, groups []string) *Match {
	match := &Match{
		Action:    p.Action,
		Statement: p.Statement,
		Args:      make(map[string]string),
		Values:    groups[1:],
	}
	for i, name := range p.Expr.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		match.Args[name] = groups[i]
	}
	return match
}

// Terminal returns the character appended to a step before matching.
// Statements end in a [.?!] class; ';' and ':' only steer execution and
// match as '.'.
func Terminal(p models.Punctuation) string {
	switch p {
	case models.And, models.Args:
		return string(models.End)
	default:
		return p.String()
	}
}

// Text rebuilds the matchable text of a step
func Text(step string, p models.Punctuation) string {
	return step + Terminal(p)
}

// IsSupported reports whether a step would pair with some action
func (m *Matcher) IsSupported(step string, p models.Punctuation) bool {
	match, _ := m.matchStep(step, p)
	return match != nil
}

// Pair binds an instruction to the first matching action that accepts its
// punctuation. An unpaired instruction keeps the reason in Unpaired when
// one is known.
func (m *Matcher) Pair(inst *models.Instruction) bool {
	match, reason := m.matchStep(inst.Step, inst.Punct)
	if match == nil {
		inst.Unpaired = reason
		return false
	}
	inst.Unpaired = ""
	inst.Action = match.Action
	inst.Statement = match.Statement
	inst.Arguments = match.Args
	inst.Values = match.Values
	inst.Description = match.Action.Summary
	return true
}

// PairAll pairs every instruction and returns the ones left unmatched
func (m *Matcher) PairAll(steps []*models.Instruction) []*models.Instruction {
	var unmatched []*models.Instruction
	for _, inst := range steps {
		if !m.Pair(inst) {
			unmatched = append(unmatched, inst)
		}
	}
	return unmatched
}

// PairGuide pairs every instruction of every topic
func (m *Matcher) PairGuide(g *models.Guide) []*models.Instruction {
	var unmatched []*models.Instruction
	for _, t := range g.Topics {
		unmatched = append(unmatched, m.PairAll(t.Steps)...)
	}
	return unmatched
}
