package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/confkit/pkg/workflow"
)

const sampleWorkflow = `name: CI
on:
  push:
  pull_request:
    types: [opened, reopened, synchronize]
jobs:
  check:
    runs-on: ubuntu-latest
    strategy:
      fail-fast: false
      matrix:
        python-version: ["3.11"]
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-python@v5
        with:
          python-version: "${{ matrix.python-version }}"
      - name: Install dependencies
        run: pip install .
      - uses: jakebailey/pyright-action@v2
      - uses: chartboost/ruff-action@v1
`

func TestParse_DecodesTriggersAndJobs_When_GivenTypicalWorkflow(t *testing.T) {
	t.Parallel()

	wf, err := workflow.Parse("ci.yml", []byte(sampleWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "CI", wf.Name)

	require.Contains(t, wf.On.Events, "push")
	require.Contains(t, wf.On.Events, "pull_request")
	assert.Equal(t, []string{"opened", "reopened", "synchronize"}, wf.On.Events["pull_request"].Types)

	job, ok := wf.Jobs["check"]
	require.True(t, ok)
	assert.Equal(t, workflow.StringList{"ubuntu-latest"}, job.RunsOn)

	require.NotNil(t, job.Strategy)
	require.NotNil(t, job.Strategy.FailFast)
	assert.False(t, *job.Strategy.FailFast)

	axis := job.Strategy.Matrix.Axes["python-version"]
	require.Len(t, axis, 1)
	assert.Equal(t, "3.11", axis[0].Value)
	assert.Equal(t, "!!str", axis[0].Tag)

	require.Len(t, job.Steps, 5)
	assert.Equal(t, "actions/checkout@v4", job.Steps[0].Uses)
	assert.Positive(t, job.Steps[0].Line)
}

func TestParse_NormalizesTriggerShapes_When_OnVaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		events  []string
	}{
		{
			name:    "success: single event string",
			content: "on: push\njobs:\n  a:\n    steps:\n      - run: true\n",
			events:  []string{"push"},
		},
		{
			name:    "success: event list",
			content: "on: [push, pull_request]\njobs:\n  a:\n    steps:\n      - run: true\n",
			events:  []string{"push", "pull_request"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			wf, err := workflow.Parse("ci.yml", []byte(tc.content))
			require.NoError(t, err)
			for _, event := range tc.events {
				assert.Contains(t, wf.On.Events, event)
			}
		})
	}
}

func TestParse_RetainsScalarTags_When_MatrixVersionIsUnquoted(t *testing.T) {
	t.Parallel()

	content := `on: push
jobs:
  a:
    strategy:
      matrix:
        python-version: [3.10, "3.11"]
    steps:
      - run: true
`
	wf, err := workflow.Parse("ci.yml", []byte(content))
	require.NoError(t, err)

	axis := wf.Jobs["a"].Strategy.Matrix.Axes["python-version"]
	require.Len(t, axis, 2)
	assert.Equal(t, "!!float", axis[0].Tag)
	assert.Equal(t, "3.10", axis[0].Value)
	assert.Equal(t, "!!str", axis[1].Tag)
}

func TestValidateSchema_ReportsViolations_When_StructureIsWrong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantClean bool
	}{
		{
			name:      "success: well-formed workflow",
			content:   sampleWorkflow,
			wantClean: true,
		},
		{
			name:      "error: missing jobs",
			content:   "on: push\n",
			wantClean: false,
		},
		{
			name:      "error: step with neither uses nor run",
			content:   "on: push\njobs:\n  a:\n    steps:\n      - name: nothing\n",
			wantClean: false,
		},
		{
			name:      "error: not YAML at all",
			content:   "on: [push\n",
			wantClean: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			results, err := workflow.ValidateSchema("ci.yml", []byte(tc.content))
			require.NoError(t, err)

			if tc.wantClean {
				assert.Empty(t, results)
				return
			}
			require.NotEmpty(t, results)
			assert.Equal(t, "workflow-schema", results[0].RuleID)
		})
	}
}
