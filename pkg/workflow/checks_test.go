package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/confkit/pkg/sarif"
	"github.com/dkoosis/confkit/pkg/workflow"
)

func parse(t *testing.T, content string) *workflow.Workflow {
	t.Helper()
	wf, err := workflow.Parse("ci.yml", []byte(content))
	require.NoError(t, err)
	return wf
}

func ids(results []sarif.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.RuleID)
	}
	return out
}

func TestCheck_PassesCleanly_When_WorkflowIsSound(t *testing.T) {
	t.Parallel()

	wf := parse(t, sampleWorkflow)
	results := workflow.Check(wf, workflow.Options{RequiresPython: ">=3.11"})
	assert.Empty(t, results, "ids: %v", ids(results))
}

func TestCheck_ProducesExpectedFindings_When_GivenDefectiveWorkflows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		opts     workflow.Options
		wantRule string
	}{
		{
			name:     "error: unknown trigger event",
			content:  "on: pushh\njobs:\n  a:\n    steps:\n      - run: true\n",
			wantRule: "workflow-trigger",
		},
		{
			name: "error: unknown activity type",
			content: `on:
  pull_request:
    types: [opened, resynchronized]
jobs:
  a:
    steps:
      - run: true
`,
			wantRule: "workflow-trigger",
		},
		{
			name: "error: unpinned action",
			content: `on: push
jobs:
  a:
    steps:
      - uses: actions/checkout
`,
			wantRule: "workflow-action-pin",
		},
		{
			name: "warning: action pinned to moving branch",
			content: `on: push
jobs:
  a:
    steps:
      - uses: someone/some-action@main
`,
			wantRule: "workflow-action-pin",
		},
		{
			name: "error: needs references undefined job",
			content: `on: push
jobs:
  a:
    needs: b
    steps:
      - run: true
`,
			wantRule: "workflow-needs",
		},
		{
			name: "warning: unknown runner label",
			content: `on: push
jobs:
  a:
    runs-on: solaris-11
    steps:
      - run: true
`,
			wantRule: "workflow-runner",
		},
		{
			name: "error: duplicate step id",
			content: `on: push
jobs:
  a:
    steps:
      - id: step
        run: true
      - id: step
        run: true
`,
			wantRule: "workflow-duplicate-step-id",
		},
		{
			name: "error: bare-number matrix version",
			content: `on: push
jobs:
  a:
    strategy:
      matrix:
        python-version: [3.10]
    steps:
      - run: true
`,
			wantRule: "workflow-matrix-quoting",
		},
		{
			name: "error: matrix version outside requires-python",
			content: `on: push
jobs:
  a:
    strategy:
      matrix:
        python-version: ["3.9"]
    steps:
      - run: true
`,
			opts:     workflow.Options{RequiresPython: ">=3.11"},
			wantRule: "workflow-matrix-version",
		},
		{
			name: "error: matrix version does not parse",
			content: `on: push
jobs:
  a:
    strategy:
      matrix:
        python-version: ["latest!"]
    steps:
      - run: true
`,
			wantRule: "workflow-matrix-version",
		},
		{
			name: "warning: lint runs before install",
			content: `on: push
jobs:
  a:
    steps:
      - uses: actions/checkout@v4
      - run: ruff check .
      - run: pip install .
`,
			wantRule: "workflow-step-order",
		},
		{
			name: "warning: install without checkout",
			content: `on: push
jobs:
  a:
    steps:
      - run: pip install .
      - run: ruff check .
`,
			wantRule: "workflow-step-order",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			wf := parse(t, tc.content)
			results := workflow.Check(wf, tc.opts)

			require.NotEmpty(t, results, "expected findings")
			assert.Contains(t, ids(results), tc.wantRule)
		})
	}
}

func TestCheck_SkipsExpressionValues_When_MatrixUsesContext(t *testing.T) {
	t.Parallel()

	content := `on: push
jobs:
  a:
    strategy:
      matrix:
        python-version: ["${{ inputs.version }}"]
    steps:
      - run: true
`
	wf := parse(t, content)
	assert.Empty(t, workflow.Check(wf, workflow.Options{RequiresPython: ">=3.11"}))
}

func TestCheck_AllowsLintOnlyJobs_When_NoInstallStepExists(t *testing.T) {
	t.Parallel()

	content := `on: push
jobs:
  a:
    steps:
      - uses: actions/checkout@v4
      - uses: chartboost/ruff-action@v1
`
	wf := parse(t, content)
	assert.Empty(t, workflow.Check(wf, workflow.Options{}))
}
