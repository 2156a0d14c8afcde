// Package modules loads user-defined actions from YAML files.
//
// A module maps accepted statements onto a shell command template:
//
//	name: docker-build
//	summary: Build a container image.
//	statements:
//	  - "^build image `(?P<tag>[^`]+)`[.?!]$"
//	samples:
//	  - "Build image `app:latest`."
//	command: docker build -t {{ quote .tag }} .
//
// Named captures are available to the template by name; {{ .payload }}
// holds the fenced payload of ':' steps when payload is true.
package modules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/internal/utils/safeexec"
	"github.com/themobileprof/buildok/pkg/models"
	"gopkg.in/yaml.v3"
)

// Module is a custom action definition
type Module struct {
	Name       string   `yaml:"name"`
	Summary    string   `yaml:"summary"`
	Statements []string `yaml:"statements"`
	Samples    []string `yaml:"samples,omitempty"`
	Command    string   `yaml:"command"`
	Payload    bool     `yaml:"payload,omitempty"`

	source string
}

// Source returns the file the module was loaded from
func (m *Module) Source() string {
	return m.source
}

var funcs = template.FuncMap{
	"quote": actions.Quote,
}

// LoadFromFile reads and parses a module YAML file
func LoadFromFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}

	var module Module
	if err := yaml.Unmarshal(data, &module); err != nil {
		return nil, fmt.Errorf("failed to parse module YAML %s: %w", path, err)
	}
	module.source = path

	for i, s := range module.Statements {
		module.Statements[i] = strings.TrimSpace(s)
	}
	return &module, nil
}

// LoadDir loads every .yaml and .yml file of dir, sorted by file name. A
// missing directory holds no modules.
func LoadDir(dir string) ([]*Module, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read modules directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	modules := make([]*Module, 0, len(names))
	for _, name := range names {
		m, err := LoadFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// Action builds the executable action described by the module
func (m *Module) Action() (*models.Action, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("module %s: name is required", m.source)
	}
	if len(m.Statements) == 0 {
		return nil, fmt.Errorf("module '%s': at least one statement is required", m.Name)
	}
	if strings.TrimSpace(m.Command) == "" {
		return nil, fmt.Errorf("module '%s': command is required", m.Name)
	}
	tmpl, err := template.New(m.Name).Funcs(funcs).Option("missingkey=zero").Parse(m.Command)
	if err != nil {
		return nil, fmt.Errorf("module '%s': invalid command template: %w", m.Name, err)
	}

	summary := m.Summary
	if summary == "" {
		summary = "Run " + m.Name + "."
	}

	render := func(call *models.Call) (string, error) {
		data := make(map[string]string, len(call.Args)+2)
		for k, v := range call.Args {
			data[k] = v
		}
		data["payload"] = call.Payload
		if call.Context != nil {
			data["dir"] = call.Context.Dir
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	return &models.Action{
		Name:         m.Name,
		Summary:      summary,
		Statements:   m.Statements,
		Samples:      m.Samples,
		NeedsPayload: m.Payload,
		Handler: func(call *models.Call) (models.Outcome, error) {
			if m.Payload && !call.HasPayload {
				return models.Outcome{}, fmt.Errorf("%s requires a payload", m.Name)
			}
			cmd, err := render(call)
			if err != nil {
				return models.Outcome{}, fmt.Errorf("failed to render command: %w", err)
			}
			out, err := safeexec.Shell(call.Context.Dir, cmd)
			if err != nil {
				if out == "" {
					out = err.Error()
				}
				return models.Fail("%s", out), nil
			}
			if out == "" {
				out = "no error"
			}
			return models.Succeed("%s", out), nil
		},
		Script: func(call *models.Call) string {
			cmd, err := render(call)
			if err != nil {
				return "# " + m.Name + ": " + err.Error()
			}
			return cmd
		},
	}, nil
}

// Register adds the actions of every module after the ones already in reg
func Register(reg *actions.Registry, modules []*Module) error {
	for _, m := range modules {
		action, err := m.Action()
		if err != nil {
			return err
		}
		if err := reg.Register(action); err != nil {
			return fmt.Errorf("module %s: %w", m.source, err)
		}
	}
	return nil
}
