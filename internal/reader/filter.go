package reader

import (
	"fmt"
	"regexp"

	"github.com/themobileprof/buildok/pkg/models"
)

// Selector picks one topic from a guide, by exact title or by pattern
type Selector struct {
	Title   string
	Pattern string
}

// Empty reports whether the selector selects nothing in particular
func (s Selector) Empty() bool {
	return s.Title == "" && s.Pattern == ""
}

// Filter returns a new guide holding only the first topic matching the
// selector. An empty selector returns the guide unchanged.
func Filter(g *models.Guide, sel Selector) (*models.Guide, error) {
	if sel.Empty() {
		return g, nil
	}

	if sel.Title != "" {
		if t, ok := g.Find(sel.Title); ok {
			return single(g, t), nil
		}
		if sel.Pattern == "" {
			return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, sel.Title)
		}
	}

	expr, err := regexp.Compile("(?i)" + sel.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid topic pattern: %w", err)
	}
	for _, t := range g.Topics {
		if expr.MatchString(t.Title) {
			return single(g, t), nil
		}
	}
	return nil, fmt.Errorf("%w: pattern %q", ErrTopicNotFound, sel.Pattern)
}

func single(g *models.Guide, t *models.Topic) *models.Guide {
	out := &models.Guide{Source: g.Source}
	out.AddTopic(t)
	return out
}
