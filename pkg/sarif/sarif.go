// Package sarif provides types and helpers for emitting SARIF output.
package sarif

import (
	"encoding/json"
	"io"
	"path/filepath"
)

// Version is the SARIF schema version.
const Version = "2.1.0"

// Result levels recognized by SARIF consumers.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
)

// Log is the top-level SARIF structure.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single analysis run.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results,omitempty"`
}

// Tool describes the analysis tool.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver describes the tool's identity and the rules it evaluates.
type Driver struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	InformationURI string `json:"informationUri,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

// Rule is a reportingDescriptor: static metadata about a single check.
type Rule struct {
	ID               string   `json:"id"`
	ShortDescription *Message `json:"shortDescription,omitempty"`
}

// Result is a single finding.
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level,omitempty"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Message contains the finding's text.
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation describes a file location.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation describes a file path.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region describes a span within a file.
type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// NewLog creates a new SARIF log holding the given runs.
func NewLog(runs ...Run) *Log {
	return &Log{
		Version: Version,
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs:    append([]Run{}, runs...),
	}
}

// NewRun creates a run for the named driver with rule metadata attached.
func NewRun(driver, version string, rules []Rule) Run {
	return Run{
		Tool: Tool{Driver: Driver{
			Name:    driver,
			Version: version,
			Rules:   rules,
		}},
	}
}

// NewResult builds a result without a location.
func NewResult(ruleID, level, text string) Result {
	return Result{
		RuleID:  ruleID,
		Level:   level,
		Message: Message{Text: text},
	}
}

// NewFileResult builds a result anchored to a file, optionally with a line.
func NewFileResult(ruleID, level, text, path string, line int) Result {
	res := NewResult(ruleID, level, text)
	loc := Location{PhysicalLocation: PhysicalLocation{
		ArtifactLocation: ArtifactLocation{URI: filepath.ToSlash(path)},
	}}
	if line > 0 {
		loc.PhysicalLocation.Region = &Region{StartLine: line}
	}
	res.Locations = []Location{loc}
	return res
}

// HighestLevel returns the most severe level present across all runs.
// The empty string means no results.
func (l *Log) HighestLevel() string {
	rank := map[string]int{LevelNote: 1, LevelWarning: 2, LevelError: 3}
	highest := ""
	for _, run := range l.Runs {
		for _, res := range run.Results {
			level := res.Level
			if level == "" {
				level = LevelWarning
			}
			if rank[level] > rank[highest] {
				highest = level
			}
		}
	}
	return highest
}

// Encoder wraps a JSON encoder with SARIF-friendly defaults.
type Encoder struct {
	enc *json.Encoder
}

// NewEncoder creates an indented JSON encoder for SARIF logs.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Encoder{enc: enc}
}

// Encode writes the SARIF log.
func (e *Encoder) Encode(log *Log) error {
	return e.enc.Encode(log)
}
