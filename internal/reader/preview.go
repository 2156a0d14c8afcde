package reader

import (
	"io"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

// LineKind classifies a document line for preview
type LineKind int

const (
	KindText LineKind = iota
	KindTopic
	KindInstruction
	KindUnsupported
)

func (k LineKind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindInstruction:
		return "instruction"
	case KindUnsupported:
		return "unsupported instruction"
	default:
		return "text"
	}
}

// PreviewLine is one annotated document line
type PreviewLine struct {
	Number int
	Text   string
	Kind   LineKind
	Topic  string // most recent topic title, "n/a" before the first one
}

// Classifier reports whether a step would pair with an action
type Classifier func(step string, punct models.Punctuation) bool

// Preview annotates every line of a document. It never fails on structure:
// payload blocks and stray instructions are classified like any other line.
func (r *Reader) Preview(src io.Reader, supported Classifier) ([]PreviewLine, error) {
	lines, err := readLines(src)
	if err != nil {
		return nil, err
	}

	topic := "n/a"
	out := make([]PreviewLine, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		pl := PreviewLine{Number: i + 1, Text: raw, Kind: KindText}

		if title, ok := r.matchTopic(line); ok {
			topic = title
			pl.Kind = KindTopic
		} else if step, punct, ok := matchInstruction(line); ok {
			pl.Kind = KindUnsupported
			if supported != nil && supported(step, punct) {
				pl.Kind = KindInstruction
			}
		}
		pl.Topic = topic
		out = append(out, pl)
	}
	return out, nil
}
