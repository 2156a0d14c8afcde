package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTopic is returned for an instruction that appears before any topic
	ErrNoTopic = errors.New("instruction outside of a topic")
	// ErrMissingPayload is returned when blank lines follow an ARGS step and no payload opens
	ErrMissingPayload = errors.New("instruction payload missing")
	// ErrUnclosedPayload is returned when a payload fence is never closed
	ErrUnclosedPayload = errors.New("unclosed instruction payload")
	// ErrBadPayload is returned when an ARGS step is followed by anything but a fenced block
	ErrBadPayload = errors.New("malformed instruction payload")
	// ErrTopicNotFound is returned when no topic satisfies a selector
	ErrTopicNotFound = errors.New("topic not found")
)

// ReadError is a structural problem found while reading a guide
type ReadError struct {
	Kind error
	Line int
	Step string
}

func (e *ReadError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	}
	return fmt.Sprintf("line %d: %v for step: %s", e.Line, e.Kind, e.Step)
}

func (e *ReadError) Unwrap() error {
	return e.Kind
}
