package workflow

import (
	"fmt"
	"sort"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/dkoosis/confkit/pkg/sarif"
)

const (
	ruleTrigger         = "workflow-trigger"
	ruleMatrixVersion   = "workflow-matrix-version"
	ruleMatrixQuoting   = "workflow-matrix-quoting"
	ruleActionPin       = "workflow-action-pin"
	ruleNeeds           = "workflow-needs"
	ruleDuplicateStepID = "workflow-duplicate-step-id"
	ruleStepOrder       = "workflow-step-order"
	ruleRunner          = "workflow-runner"
)

var knownEvents = map[string]struct{}{
	"push": {}, "pull_request": {}, "pull_request_target": {},
	"workflow_dispatch": {}, "workflow_call": {}, "schedule": {},
	"release": {}, "merge_group": {},
}

var knownActivityTypes = map[string]struct{}{
	"opened": {}, "reopened": {}, "synchronize": {}, "closed": {},
	"edited": {}, "labeled": {}, "unlabeled": {}, "ready_for_review": {},
	"converted_to_draft": {}, "assigned": {}, "unassigned": {},
	"review_requested": {}, "review_request_removed": {},
}

// Options configures the semantic checks.
type Options struct {
	// RequiresPython, when non-empty, is the manifest's specifier set the
	// matrix runtime versions must satisfy.
	RequiresPython string
}

// Rules describes every check this package can emit.
func Rules() []sarif.Rule {
	return []sarif.Rule{
		{ID: ruleSchema, ShortDescription: &sarif.Message{Text: "Workflow does not match the structural schema"}},
		{ID: ruleTrigger, ShortDescription: &sarif.Message{Text: "Trigger event or activity type is not recognized"}},
		{ID: ruleMatrixVersion, ShortDescription: &sarif.Message{Text: "Matrix runtime version is invalid or unsupported"}},
		{ID: ruleMatrixQuoting, ShortDescription: &sarif.Message{Text: "Matrix version written as a bare number"}},
		{ID: ruleActionPin, ShortDescription: &sarif.Message{Text: "Action reference has no version pin"}},
		{ID: ruleNeeds, ShortDescription: &sarif.Message{Text: "needs references an undefined job"}},
		{ID: ruleDuplicateStepID, ShortDescription: &sarif.Message{Text: "Step id is not unique within its job"}},
		{ID: ruleStepOrder, ShortDescription: &sarif.Message{Text: "Check step runs before dependencies are installed"}},
		{ID: ruleRunner, ShortDescription: &sarif.Message{Text: "runs-on label is not recognized"}},
	}
}

// Check runs the semantic checks over a parsed workflow.
func Check(wf *Workflow, opts Options) []sarif.Result {
	var results []sarif.Result

	results = append(results, checkTriggers(wf)...)

	for _, name := range sortedJobNames(wf.Jobs) {
		job := wf.Jobs[name]
		results = append(results, checkNeeds(wf, name, job)...)
		results = append(results, checkRunner(wf, name, job)...)
		results = append(results, checkMatrix(wf, name, job, opts)...)
		results = append(results, checkSteps(wf, name, job)...)
	}

	return results
}

func checkTriggers(wf *Workflow) []sarif.Result {
	var results []sarif.Result
	for _, event := range sortedEventNames(wf.On.Events) {
		if _, ok := knownEvents[event]; !ok {
			results = append(results, sarif.NewFileResult(ruleTrigger, sarif.LevelError,
				fmt.Sprintf("trigger event %q is not recognized", event), wf.Path, 0))
			continue
		}
		for _, typ := range wf.On.Events[event].Types {
			if _, ok := knownActivityTypes[typ]; !ok {
				results = append(results, sarif.NewFileResult(ruleTrigger, sarif.LevelError,
					fmt.Sprintf("activity type %q on %s is not recognized", typ, event), wf.Path, 0))
			}
		}
	}
	return results
}

func checkNeeds(wf *Workflow, jobName string, job Job) []sarif.Result {
	var results []sarif.Result
	for _, dep := range job.Needs {
		if _, ok := wf.Jobs[dep]; !ok {
			results = append(results, sarif.NewFileResult(ruleNeeds, sarif.LevelError,
				fmt.Sprintf("job %q needs undefined job %q", jobName, dep), wf.Path, 0))
		}
	}
	return results
}

func checkRunner(wf *Workflow, jobName string, job Job) []sarif.Result {
	var results []sarif.Result
	for _, label := range job.RunsOn {
		if isExpression(label) || label == "self-hosted" {
			continue
		}
		if strings.HasPrefix(label, "ubuntu-") || strings.HasPrefix(label, "macos-") || strings.HasPrefix(label, "windows-") {
			continue
		}
		results = append(results, sarif.NewFileResult(ruleRunner, sarif.LevelWarning,
			fmt.Sprintf("job %q runs on unrecognized label %q", jobName, label), wf.Path, 0))
	}
	return results
}

func checkMatrix(wf *Workflow, jobName string, job Job, opts Options) []sarif.Result {
	if job.Strategy == nil {
		return nil
	}

	var spec *pep440.Specifiers
	if opts.RequiresPython != "" {
		if parsed, err := pep440.NewSpecifiers(opts.RequiresPython); err == nil {
			spec = &parsed
		}
	}

	var results []sarif.Result
	for _, axis := range sortedAxisNames(job.Strategy.Matrix.Axes) {
		if !strings.Contains(axis, "python") {
			continue
		}
		for _, value := range job.Strategy.Matrix.Axes[axis] {
			if value.Tag == "!!float" || value.Tag == "!!int" {
				results = append(results, sarif.NewFileResult(ruleMatrixQuoting, sarif.LevelError,
					fmt.Sprintf("job %q matrix %s: %s is a bare number and loses its trailing zero; quote it", jobName, axis, value.Value),
					wf.Path, value.Line))
			}
			if isExpression(value.Value) {
				continue
			}
			v, err := pep440.Parse(value.Value)
			if err != nil {
				results = append(results, sarif.NewFileResult(ruleMatrixVersion, sarif.LevelError,
					fmt.Sprintf("job %q matrix %s: %q is not a valid version", jobName, axis, value.Value),
					wf.Path, value.Line))
				continue
			}
			if spec != nil && !spec.Check(v) {
				results = append(results, sarif.NewFileResult(ruleMatrixVersion, sarif.LevelError,
					fmt.Sprintf("job %q matrix %s: %s does not satisfy requires-python %q", jobName, axis, value.Value, opts.RequiresPython),
					wf.Path, value.Line))
			}
		}
	}
	return results
}

// step roles for the ordering check.
const (
	roleCheckout = iota
	roleSetup
	roleInstall
	roleCheck
	roleOther
)

func checkSteps(wf *Workflow, jobName string, job Job) []sarif.Result {
	var results []sarif.Result

	seenIDs := map[string]struct{}{}
	installSeen := false
	checkoutSeen := false
	var pendingChecks []Step

	for _, step := range job.Steps {
		if step.ID != "" {
			if _, dup := seenIDs[step.ID]; dup {
				results = append(results, sarif.NewFileResult(ruleDuplicateStepID, sarif.LevelError,
					fmt.Sprintf("job %q: step id %q is not unique", jobName, step.ID), wf.Path, step.Line))
			}
			seenIDs[step.ID] = struct{}{}
		}

		if step.Uses != "" {
			results = append(results, checkActionPin(wf, jobName, step)...)
		}

		switch classifyStep(step) {
		case roleCheckout:
			checkoutSeen = true
		case roleInstall:
			installSeen = true
		case roleCheck:
			if !installSeen {
				pendingChecks = append(pendingChecks, step)
			}
		}
	}

	// Only complain about early checks when the job installs dependencies
	// at all; a lint-only job legitimately skips the install.
	if installSeen {
		for _, step := range pendingChecks {
			results = append(results, sarif.NewFileResult(ruleStepOrder, sarif.LevelWarning,
				fmt.Sprintf("job %q runs %s before dependencies are installed", jobName, describeStep(step)), wf.Path, step.Line))
		}
		if !checkoutSeen {
			results = append(results, sarif.NewFileResult(ruleStepOrder, sarif.LevelWarning,
				fmt.Sprintf("job %q installs dependencies without checking out the repository", jobName), wf.Path, 0))
		}
	}

	return results
}

func checkActionPin(wf *Workflow, jobName string, step Step) []sarif.Result {
	uses := step.Uses
	if strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "docker://") {
		return nil
	}

	at := strings.LastIndex(uses, "@")
	if at < 0 {
		return []sarif.Result{sarif.NewFileResult(ruleActionPin, sarif.LevelError,
			fmt.Sprintf("job %q: action %q has no version pin", jobName, uses), wf.Path, step.Line)}
	}
	ref := uses[at+1:]
	if ref == "main" || ref == "master" {
		return []sarif.Result{sarif.NewFileResult(ruleActionPin, sarif.LevelWarning,
			fmt.Sprintf("job %q: action %q is pinned to a moving branch", jobName, uses), wf.Path, step.Line)}
	}
	return nil
}

func classifyStep(step Step) int {
	uses := strings.ToLower(step.Uses)
	run := strings.ToLower(step.Run)

	switch {
	case strings.Contains(uses, "checkout"):
		return roleCheckout
	case strings.Contains(uses, "setup-"):
		return roleSetup
	case strings.Contains(run, "pip install") || strings.Contains(run, "uv sync") ||
		strings.Contains(run, "poetry install") || strings.Contains(run, "pdm install"):
		return roleInstall
	case strings.Contains(uses, "pyright") || strings.Contains(uses, "ruff") ||
		strings.Contains(uses, "mypy") || strings.Contains(run, "pyright") ||
		strings.Contains(run, "ruff check") || strings.Contains(run, "mypy"):
		return roleCheck
	default:
		return roleOther
	}
}

func describeStep(step Step) string {
	switch {
	case step.Name != "":
		return fmt.Sprintf("step %q", step.Name)
	case step.Uses != "":
		return fmt.Sprintf("action %q", step.Uses)
	default:
		return "a check step"
	}
}

func isExpression(s string) bool {
	return strings.Contains(s, "${{")
}

func sortedJobNames(jobs map[string]Job) []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedEventNames(events map[string]Event) []string {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedAxisNames(axes map[string][]MatrixValue) []string {
	names := make([]string, 0, len(axes))
	for name := range axes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
