package models

import (
	"fmt"
	"strings"
)

// Punctuation is the trailing character of an instruction line. It ends the
// sentence and selects how the runner reacts to the step outcome.
type Punctuation rune

const (
	End  Punctuation = '.' // run and continue regardless of outcome
	And  Punctuation = ';' // run, continue only on success
	Xor  Punctuation = '?' // run, stop the topic on success
	Args Punctuation = ':' // run with the fenced payload that follows
	Sudo Punctuation = '!' // run and terminate the process
)

// ParsePunctuation converts a single character into a Punctuation.
func ParsePunctuation(s string) (Punctuation, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("unsupported step punctuation: %q", s)
	}
	p := Punctuation(s[0])
	switch p {
	case End, And, Xor, Args, Sudo:
		return p, nil
	}
	return 0, fmt.Errorf("unsupported step punctuation: %q", s)
}

func (p Punctuation) String() string {
	return string(rune(p))
}

// Name returns the directive name of the punctuation (END, AND, ...).
func (p Punctuation) Name() string {
	switch p {
	case End:
		return "END"
	case And:
		return "AND"
	case Xor:
		return "XOR"
	case Args:
		return "ARGS"
	case Sudo:
		return "SUDO"
	default:
		return "UNKNOWN"
	}
}

// Instruction is one build step read from a guide
type Instruction struct {
	Order      int         `json:"order"` // 1-based position within the topic
	Line       int         `json:"line"`  // 1-based line in the source document
	Step       string      `json:"step"`
	Punct      Punctuation `json:"punct"`
	Payload    string      `json:"payload,omitempty"`
	HasPayload bool        `json:"has_payload,omitempty"`

	// Populated by the matcher
	Action      *Action           `json:"-"`
	Statement   string            `json:"statement,omitempty"`
	Arguments   map[string]string `json:"arguments,omitempty"`
	Values      []string          `json:"values,omitempty"`
	Description string            `json:"description,omitempty"`
	Unpaired    string            `json:"unpaired,omitempty"` // why no action was bound, when known
}

// Paired reports whether the instruction has been bound to an action
func (i *Instruction) Paired() bool {
	return i.Action != nil
}

// Text returns the step as it appeared in the guide, punctuation included
func (i *Instruction) Text() string {
	return i.Step + i.Punct.String()
}

// ActionName returns the bound action name or an empty string
func (i *Instruction) ActionName() string {
	if i.Action == nil {
		return ""
	}
	return i.Action.Name
}

// Topic is a titled group of instructions
type Topic struct {
	Title string         `json:"title"`
	Line  int            `json:"line"`
	Steps []*Instruction `json:"steps"`
}

// AddStep appends an instruction and assigns its order
func (t *Topic) AddStep(inst *Instruction) {
	inst.Order = len(t.Steps) + 1
	t.Steps = append(t.Steps, inst)
}

// Guide is the ordered collection of topics read from one document
type Guide struct {
	Source string   `json:"source,omitempty"`
	Topics []*Topic `json:"topics"`
}

// AddTopic appends a topic to the guide
func (g *Guide) AddTopic(t *Topic) {
	g.Topics = append(g.Topics, t)
}

// Titles returns topic titles in document order
func (g *Guide) Titles() []string {
	titles := make([]string, 0, len(g.Topics))
	for _, t := range g.Topics {
		titles = append(titles, t.Title)
	}
	return titles
}

// Find returns the first topic whose trimmed title equals title
func (g *Guide) Find(title string) (*Topic, bool) {
	title = strings.TrimSpace(title)
	for _, t := range g.Topics {
		if strings.TrimSpace(t.Title) == title {
			return t, true
		}
	}
	return nil, false
}
