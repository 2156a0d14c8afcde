package actions

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtractStatements(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []string
	}{
		{
			name: "block ends at blank line",
			doc: `Change current working directory.

    Accepted statements:
        ^go to ` + "`(?P<path>.+)`" + `[\.\?\!]$
        ^cd ` + "`(?P<path>.+)`" + `[\.\?\!]$

    Sample input:
        1) Go to ` + "`/tmp`" + `.`,
			expected: []string{
				"^go to `(?P<path>.+)`[\\.\\?\\!]$",
				"^cd `(?P<path>.+)`[\\.\\?\\!]$",
			},
		},
		{
			name:     "block runs to end of text",
			doc:      "Summary.\nACCEPTED STATEMENTS:\n  ^a[.]$  \n\t^b[.]$",
			expected: []string{"^a[.]$", "^b[.]$"},
		},
		{
			name:     "marker followed by blank line",
			doc:      "Accepted statements:\n\n^a[.]$",
			expected: nil,
		},
		{
			name:     "whitespace only line terminates",
			doc:      "accepted statements\n ^a[.]$\n   \t\n ^b[.]$",
			expected: []string{"^a[.]$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractStatements(tt.doc)
			if err != nil {
				t.Fatalf("ExtractStatements failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExtractStatementsMissingMarker(t *testing.T) {
	_, err := ExtractStatements("Run a command.\n\n^run `(?P<cmd>.+)`[.?!]$")
	if !errors.Is(err, ErrNoStatementsMarker) {
		t.Errorf("Expected ErrNoStatementsMarker, got %v", err)
	}
}

func TestDocRoundTrip(t *testing.T) {
	for _, a := range Builtin().Actions() {
		t.Run(a.Name, func(t *testing.T) {
			doc := Doc(a)
			got, err := ExtractStatements(doc)
			if err != nil {
				t.Fatalf("ExtractStatements failed: %v", err)
			}
			if !reflect.DeepEqual(got, a.Statements) {
				t.Errorf("Expected %q, got %q", a.Statements, got)
			}
			for _, s := range got {
				if s != strings.TrimSpace(s) || s == "" {
					t.Errorf("Statement not trimmed: %q", s)
				}
			}
		})
	}
}

func TestDocMentionsPayload(t *testing.T) {
	if !strings.Contains(Doc(WriteFile), "payload") {
		t.Error("Expected payload note in write documentation")
	}
	if strings.Contains(Doc(ChangeDir), "payload") {
		t.Error("Did not expect payload note in chdir documentation")
	}
}
