package workflow

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/confkit/pkg/sarif"
)

const ruleSchema = "workflow-schema"

// workflowSchema is the structural contract a workflow file must meet before
// the semantic checks run. It intentionally covers only the shapes this
// package understands.
const workflowSchema = `{
  "type": "object",
  "required": ["on", "jobs"],
  "properties": {
    "name": {"type": "string"},
    "on": {"type": ["string", "array", "object"]},
    "jobs": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["steps"],
        "properties": {
          "name": {"type": "string"},
          "runs-on": {"type": ["string", "array"]},
          "needs": {"type": ["string", "array"]},
          "strategy": {
            "type": "object",
            "properties": {
              "fail-fast": {"type": "boolean"},
              "matrix": {"type": "object"}
            }
          },
          "steps": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "anyOf": [
                {"required": ["uses"]},
                {"required": ["run"]}
              ]
            }
          }
        }
      }
    }
  }
}`

// ValidateSchema checks the raw workflow document against the embedded
// structural schema and returns one result per violation. A nil slice means
// the document is structurally sound.
func ValidateSchema(path string, data []byte) ([]sarif.Result, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []sarif.Result{sarif.NewFileResult(ruleSchema, sarif.LevelError,
			fmt.Sprintf("workflow is not valid YAML: %v", err), path, 0)}, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(workflowSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validate workflow schema: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	results := make([]sarif.Result, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		results = append(results, sarif.NewFileResult(ruleSchema, sarif.LevelError,
			fmt.Sprintf("%s: %s", field, desc.Description()), path, 0))
	}
	return results, nil
}
