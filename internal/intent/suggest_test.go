package intent

import (
	"reflect"
	"testing"

	"github.com/themobileprof/buildok/internal/actions"
)

func TestNormalize(t *testing.T) {
	n := NewTextNormalizer()
	tests := []struct {
		input    string
		keywords []string
		intent   string
	}{
		{"Please delete the `build/*` folders", []string{"delete", "folder"}, "remove"},
		{"Go into `src`", []string{"go", "into"}, "navigate"},
		{"Running the tests!", []string{"run", "test"}, "run"},
		{"`quoted only`", []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			keywords, intent := n.Normalize(tt.input)
			if !reflect.DeepEqual(keywords, tt.keywords) {
				t.Errorf("Expected keywords %v, got %v", tt.keywords, keywords)
			}
			if intent != tt.intent {
				t.Errorf("Expected intent %q, got %q", tt.intent, intent)
			}
		})
	}
}

func TestIntent(t *testing.T) {
	n := NewTextNormalizer()
	if got := n.Intent("Execute"); got != "run" {
		t.Errorf("Expected run, got %q", got)
	}
	if got := n.Intent("ponder"); got != "" {
		t.Errorf("Expected no intent, got %q", got)
	}
}

func TestSuggest(t *testing.T) {
	s := NewSuggester(actions.Builtin().Actions())
	tests := []struct {
		step     string
		expected string
	}{
		{"Erase `build`", "remove"},
		{"Execute command `make` twice", "shell"},
		{"Install the package `vim` now", "install"},
		{"Create a directory called `out`", "mkdir"},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			got := s.Suggest(tt.step, 3)
			if len(got) == 0 {
				t.Fatal("Expected suggestions")
			}
			found := false
			for _, g := range got {
				if g.Action == tt.expected {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected %s among %+v", tt.expected, got)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Score > got[i-1].Score {
					t.Errorf("Suggestions not sorted: %+v", got)
				}
			}
		})
	}
}

func TestSuggestNothing(t *testing.T) {
	s := NewSuggester(actions.Builtin().Actions())
	if got := s.Suggest("`only an argument`", 3); got != nil {
		t.Errorf("Expected no suggestions, got %+v", got)
	}
	if got := s.Suggest("xyzzy plugh", 3); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %+v", got)
	}
}
