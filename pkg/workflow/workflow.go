// Package workflow parses CI workflow definitions and checks their triggers,
// job matrices, and step ordering.
package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Workflow is a parsed workflow file.
type Workflow struct {
	Path string
	Name string         `yaml:"name"`
	On   Triggers       `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Triggers normalizes the three accepted shapes of the "on" key: a single
// event name, a list of event names, or a mapping of event name to filters.
type Triggers struct {
	Events map[string]Event
}

// Event carries the per-event filters confkit inspects.
type Event struct {
	Types    []string `yaml:"types"`
	Branches []string `yaml:"branches"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	t.Events = map[string]Event{}

	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		t.Events[name] = Event{}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		for _, name := range names {
			t.Events[name] = Event{}
		}
		return nil
	case yaml.MappingNode:
		var events map[string]*Event
		if err := node.Decode(&events); err != nil {
			return err
		}
		for name, ev := range events {
			if ev == nil {
				ev = &Event{}
			}
			t.Events[name] = *ev
		}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported shape for \"on\"", node.Line)
	}
}

// Job is a single workflow job.
type Job struct {
	Name     string     `yaml:"name"`
	RunsOn   StringList `yaml:"runs-on"`
	Needs    StringList `yaml:"needs"`
	Strategy *Strategy  `yaml:"strategy"`
	Steps    []Step     `yaml:"steps"`
}

// Strategy holds the job matrix and fail-fast control.
type Strategy struct {
	FailFast *bool  `yaml:"fail-fast"`
	Matrix   Matrix `yaml:"matrix"`
}

// Matrix maps axis names to their values. Raw YAML nodes are retained so
// checks can inspect scalar tags (an unquoted 3.10 arrives as a float).
type Matrix struct {
	Axes map[string][]MatrixValue
}

// MatrixValue is a single matrix axis entry.
type MatrixValue struct {
	Value string
	Tag   string
	Line  int
}

// UnmarshalYAML implements yaml.Unmarshaler. The include/exclude refinement
// lists are not axes and are skipped.
func (m *Matrix) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: matrix must be a mapping", node.Line)
	}

	m.Axes = map[string][]MatrixValue{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		if key == "include" || key == "exclude" {
			continue
		}
		if val.Kind != yaml.SequenceNode {
			continue
		}
		values := make([]MatrixValue, 0, len(val.Content))
		for _, item := range val.Content {
			if item.Kind != yaml.ScalarNode {
				continue
			}
			values = append(values, MatrixValue{
				Value: item.Value,
				Tag:   item.ShortTag(),
				Line:  item.Line,
			})
		}
		m.Axes[key] = values
	}
	return nil
}

// Step is a single job step.
type Step struct {
	ID   string            `yaml:"id"`
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	With map[string]string `yaml:"with"`

	Line int `yaml:"-"`
}

// UnmarshalYAML implements yaml.Unmarshaler, recording the step's line for
// SARIF regions.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Step(p)
	s.Line = node.Line
	return nil
}

// Load reads and parses a workflow file. Structural problems beyond YAML
// syntax are reported by ValidateSchema and Check, not here.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes workflow content. The path is recorded for SARIF locations.
func Parse(path string, data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("decode workflow: %w", err)
	}
	wf.Path = path
	return &wf, nil
}

// StringList accepts both a bare string and a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = StringList(list)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}
