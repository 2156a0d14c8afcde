// Package intent suggests actions for instructions no statement accepts.
package intent

import (
	"sort"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

// intentBonus is added when the step verb and the action share an intent
const intentBonus = 0.5

// Suggestion is an action that may be what an unsupported step meant
type Suggestion struct {
	Action string
	Sample string
	Score  float64
}

type entry struct {
	action   *models.Action
	keywords map[string]bool
	intents  map[string]bool
}

// Suggester ranks actions by keyword overlap with a step
type Suggester struct {
	norm    *TextNormalizer
	entries []entry
}

// NewSuggester indexes the keywords of every action
func NewSuggester(actions []*models.Action) *Suggester {
	s := &Suggester{norm: NewTextNormalizer()}
	for _, a := range actions {
		e := entry{
			action:   a,
			keywords: make(map[string]bool),
			intents:  make(map[string]bool),
		}
		texts := append([]string{a.Summary, strings.ReplaceAll(a.Name, "-", " ")}, a.Samples...)
		for _, text := range texts {
			keywords, intent := s.norm.Normalize(text)
			for _, k := range keywords {
				e.keywords[k] = true
			}
			if intent != "" {
				e.intents[intent] = true
			}
		}
		s.entries = append(s.entries, e)
	}
	return s
}

// Suggest returns up to limit actions ranked by similarity to step
func (s *Suggester) Suggest(step string, limit int) []Suggestion {
	keywords, intent := s.norm.Normalize(step)
	if len(keywords) == 0 {
		return nil
	}

	var out []Suggestion
	for _, e := range s.entries {
		overlap := 0
		for _, k := range keywords {
			if e.keywords[k] {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(keywords))
		if intent != "" && e.intents[intent] {
			score += intentBonus
		}
		if score == 0 {
			continue
		}
		sample := ""
		if len(e.action.Samples) > 0 {
			sample = e.action.Samples[0]
		}
		out = append(out, Suggestion{Action: e.action.Name, Sample: sample, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
