package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/internal/log"
	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
	"github.com/dkoosis/confkit/pkg/workflow"
)

func workflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflow [files...]",
		Short: "Check CI workflow definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectWorkflows(args)
			if err != nil {
				return err
			}

			opts := workflowOptions()

			run := sarif.NewRun("confkit-workflow", toolVersion, workflow.Rules())
			for _, file := range files {
				results, err := checkWorkflowFile(file, opts)
				if err != nil {
					return err
				}
				run.Results = append(run.Results, results...)
			}
			run.Results = cfg.Apply(run.Results)

			sarifLog := sarif.NewLog()
			sarifLog.Runs = append(sarifLog.Runs, run)
			return emit(sarifLog)
		},
	}
}

// workflowOptions pulls requires-python from the manifest when it is
// available; workflow checks still run without it.
func workflowOptions() workflow.Options {
	m, err := pymanifest.Load(cfg.Manifest)
	if err != nil {
		logger := log.WithComponent("workflow")
		logger.Debug().Err(err).Msg("manifest unavailable, skipping cross-checks")
		return workflow.Options{}
	}
	return workflow.Options{RequiresPython: m.Project.RequiresPython}
}

// checkWorkflowFile validates one file structurally, then semantically.
// Structural failures short-circuit: the semantic checks assume the schema.
func checkWorkflowFile(path string, opts workflow.Options) ([]sarif.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	schemaResults, err := workflow.ValidateSchema(path, data)
	if err != nil {
		return nil, err
	}
	if len(schemaResults) > 0 {
		return schemaResults, nil
	}

	wf, err := workflow.Parse(path, data)
	if err != nil {
		return []sarif.Result{sarif.NewFileResult("workflow-schema", sarif.LevelError, err.Error(), path, 0)}, nil
	}
	return workflow.Check(wf, opts), nil
}
