// Package reader turns a README into a guide of topics and instructions.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/themobileprof/buildok/pkg/models"
)

const (
	// DefaultFence delimits instruction payloads
	DefaultFence = "```"
	// DefaultTopicPattern recognizes topic headings
	DefaultTopicPattern = `(?i)^##\s+how to\s+(?P<topic>.+?)\s*$`
)

var instructionPattern = regexp.MustCompile(`^(?:-|\d+\))\s+(?P<step>.*[^.!?:;])(?P<punct>[.!?:;])$`)

// guideNames are tried, in order, when the guide path is a directory
var guideNames = []string{"README.md", "readme.md", "Readme.md"}

// Options configures a Reader
type Options struct {
	Fence        string
	TopicPattern string // must declare a named group "topic"
}

// Reader parses guides. It holds no per-document state and may be reused.
type Reader struct {
	fence string
	topic *regexp.Regexp
}

// New creates a Reader, applying defaults for empty options
func New(opts Options) (*Reader, error) {
	if opts.Fence == "" {
		opts.Fence = DefaultFence
	}
	if opts.TopicPattern == "" {
		opts.TopicPattern = DefaultTopicPattern
	}
	topic, err := regexp.Compile(opts.TopicPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid topic pattern: %w", err)
	}
	if topic.SubexpIndex("topic") < 0 {
		return nil, fmt.Errorf("topic pattern %q has no (?P<topic>...) group", opts.TopicPattern)
	}
	return &Reader{fence: opts.Fence, topic: topic}, nil
}

// Locate resolves a guide path. A directory resolves to the README it holds.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("guide not found: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range guideNames {
		candidate := filepath.Join(path, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no README found in %s", path)
}

// ParseFile locates and parses a guide from disk
func (r *Reader) ParseFile(path string) (*models.Guide, error) {
	path, err := Locate(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open guide: %w", err)
	}
	defer f.Close()

	guide, err := r.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	guide.Source = path
	return guide, nil
}

// Parse reads a whole document and builds its guide. Parsing stops at the
// first structural error.
func (r *Reader) Parse(src io.Reader) (*models.Guide, error) {
	lines, err := readLines(src)
	if err != nil {
		return nil, err
	}

	guide := &models.Guide{}
	var topic *models.Topic
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")

		if title, ok := r.matchTopic(line); ok {
			topic = &models.Topic{Title: title, Line: i + 1}
			guide.AddTopic(topic)
			continue
		}

		step, punct, ok := matchInstruction(line)
		if !ok {
			continue
		}
		inst := &models.Instruction{Line: i + 1, Step: step, Punct: punct}
		if topic == nil {
			return nil, &ReadError{Kind: ErrNoTopic, Line: i + 1, Step: inst.Text()}
		}
		if punct == models.Args {
			payload, next, err := r.scanPayload(lines, i+1)
			if err != nil {
				return nil, &ReadError{Kind: err, Line: i + 1, Step: inst.Text()}
			}
			inst.Payload = payload
			inst.HasPayload = true
			i = next - 1
		}
		topic.AddStep(inst)
	}
	return guide, nil
}

// scanPayload reads the fenced block following an ARGS step starting at
// index start. It returns the payload and the index of the first line after
// the closing fence. Prose may sit between the step and its fence; two
// blank lines in a row, a heading or another step before the fence mean the
// payload was left out.
func (r *Reader) scanPayload(lines []string, start int) (string, int, error) {
	blanks := 0
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			blanks++
			if blanks > 1 {
				return "", 0, ErrMissingPayload
			}
		case strings.HasPrefix(line, r.fence):
			for j := i + 1; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == r.fence {
					return strings.Join(lines[i+1:j], "\n"), j + 1, nil
				}
			}
			return "", 0, ErrUnclosedPayload
		default:
			text := strings.TrimRight(lines[i], " \t")
			if _, ok := r.matchTopic(text); ok {
				return "", 0, ErrBadPayload
			}
			if _, _, ok := matchInstruction(text); ok {
				return "", 0, ErrBadPayload
			}
			blanks = 0
		}
	}
	return "", 0, ErrBadPayload
}

func (r *Reader) matchTopic(line string) (string, bool) {
	m := r.topic.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[r.topic.SubexpIndex("topic")]), true
}

func matchInstruction(line string) (string, models.Punctuation, bool) {
	m := instructionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	punct, err := models.ParsePunctuation(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], punct, true
}

func readLines(src io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read guide: %w", err)
	}
	return lines, nil
}
