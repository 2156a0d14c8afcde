package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

var (
	// ErrExit is returned when the user leaves the prompt blank, closes
	// input or interrupts
	ErrExit = errors.New("exit requested")
	// ErrNoSelection is returned when every attempt named no topic
	ErrNoSelection = errors.New("no topic selected")
)

// Prompter asks the user to choose a topic
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	attempts int
	pending  chan inputLine // read left running by a cancelled prompt
}

type inputLine struct {
	text string
	err  error
}

// NewPrompter creates a prompter reading from in. Attempts below one mean one.
func NewPrompter(in io.Reader, out io.Writer, attempts int) *Prompter {
	if attempts < 1 {
		attempts = 1
	}
	return &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		attempts: attempts,
	}
}

// SelectTopic lists the guide topics and reads a choice: an index, an exact
// title or a prefix shared by exactly one title.
func (p *Prompter) SelectTopic(ctx context.Context, g *models.Guide) (*models.Topic, error) {
	if len(g.Topics) == 0 {
		return nil, fmt.Errorf("guide has no topics")
	}

	width := len(strconv.Itoa(len(g.Topics))) + 1
	fmt.Fprintln(p.out, "Found the following topics:")
	for i, t := range g.Topics {
		fmt.Fprintf(p.out, "%*d) %s\n", width, i+1, t.Title)
	}
	fmt.Fprintln(p.out, "\nChoose a topic to run, either by its number or by name.")
	fmt.Fprintln(p.out, "Exit with ^C or leave the field blank and press return.")

	for attempt := 1; attempt <= p.attempts; attempt++ {
		fmt.Fprint(p.out, "> ")
		input, err := p.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, ErrExit
		}
		if t, ok := choose(g.Topics, input); ok {
			return t, nil
		}
		fmt.Fprintf(p.out, "No such topic: %s (%d/%d)\n", input, attempt, p.attempts)
	}
	return nil, ErrNoSelection
}

// readLine waits for one line of input or for ctx to end. A read cut short
// by ctx stays pending and its line goes to the next call, so only one
// goroutine reads p.in.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.pending == nil {
		ch := make(chan inputLine, 1)
		go func() {
			text, err := p.in.ReadString('\n')
			ch <- inputLine{text, err}
		}()
		p.pending = ch
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrExit
	case l := <-p.pending:
		p.pending = nil
		text := strings.TrimSpace(l.text)
		if l.err != nil {
			if errors.Is(l.err, io.EOF) && text != "" {
				return text, nil
			}
			if errors.Is(l.err, io.EOF) {
				return "", ErrExit
			}
			return "", fmt.Errorf("failed to read input: %w", l.err)
		}
		return text, nil
	}
}

// choose resolves user input against the topic list
func choose(topics []*models.Topic, input string) (*models.Topic, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(topics) {
			return topics[n-1], true
		}
		return nil, false
	}

	var partial *models.Topic
	ambiguous := false
	for _, t := range topics {
		title := strings.TrimSpace(t.Title)
		if title == input {
			return t, true
		}
		if strings.HasPrefix(title, input) {
			if partial != nil {
				ambiguous = true
			} else {
				partial = t
			}
		}
	}
	if partial != nil && !ambiguous {
		return partial, true
	}
	return nil, false
}
