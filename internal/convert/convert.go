// Package convert exports a paired topic to a standalone script.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/pkg/models"
)

// ErrUnsupportedTarget is returned for targets other than bash
var ErrUnsupportedTarget = errors.New("unsupported conversion target")

// Targets lists the supported conversion targets
var Targets = []string{"bash"}

// Result is a converted script
type Result struct {
	Target    string
	Script    string
	Converted int // steps rendered as commands
	Skipped   int // unsupported steps rendered as a failing guard
}

// Convert renders topic for target
func Convert(target string, topic *models.Topic, source string) (*Result, error) {
	switch strings.ToLower(target) {
	case "bash":
		return Bash(topic, source), nil
	case "vagrant", "docker", "jenkins", "ansible":
		return nil, fmt.Errorf("%w: %s is not supported yet", ErrUnsupportedTarget, target)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}
}

// Bash renders a topic as a bash script. Each step keeps the control flow
// of its punctuation: ';' and ':' exit on failure, '?' exits with success
// on success, '!' exits with the step status, '.' always continues.
func Bash(topic *models.Topic, source string) *Result {
	res := &Result{Target: "bash"}

	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	if source != "" {
		fmt.Fprintf(&b, "# Generated by buildok from %s\n", source)
	} else {
		b.WriteString("# Generated by buildok\n")
	}
	fmt.Fprintf(&b, "# Topic: %s\n", topic.Title)

	for _, inst := range topic.Steps {
		fmt.Fprintf(&b, "\n# [%d] %s\n", inst.Order, inst.Text())

		if !inst.Paired() || inst.Action.Script == nil {
			res.Skipped++
			reason := "unsupported instruction"
			if inst.Paired() {
				reason = "no shell rendering for " + inst.Action.Name
			}
			fmt.Fprintf(&b, "echo %s >&2\nexit 1\n", actions.Quote(fmt.Sprintf("%s: %s", reason, inst.Text())))
			continue
		}

		call := &models.Call{Args: inst.Arguments}
		if inst.Punct == models.Args {
			call.Payload = inst.Payload
			call.HasPayload = inst.HasPayload
		}
		b.WriteString(guard(inst.Action.Script(call), inst.Punct))
		res.Converted++
	}

	res.Script = b.String()
	return res
}

// guard wraps a command with the control flow of its punctuation
func guard(cmd string, p models.Punctuation) string {
	switch p {
	case models.And, models.Args:
		return group(cmd) + " || exit 1\n"
	case models.Xor:
		return group(cmd) + " && exit 0\n"
	case models.Sudo:
		return cmd + "\nexit $?\n"
	default:
		return cmd + "\n"
	}
}

func group(cmd string) string {
	if strings.Contains(cmd, "\n") {
		return "{\n" + cmd + "\n}"
	}
	return "{ " + cmd + "; }"
}
