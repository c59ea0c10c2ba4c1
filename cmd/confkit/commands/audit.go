package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/internal/log"
	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/ruleset"
	"github.com/dkoosis/confkit/pkg/sarif"
	"github.com/dkoosis/confkit/pkg/typecheck"
	"github.com/dkoosis/confkit/pkg/workflow"
)

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Run every check plus the cross-file consistency checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.WithComponent("audit")

			m, err := pymanifest.Load(cfg.Manifest)
			if err != nil {
				return err
			}
			rootDir := filepath.Dir(cfg.Manifest)

			sarifLog := sarif.NewLog()

			manifestRun := sarif.NewRun("confkit-manifest", toolVersion, pymanifest.Rules())
			manifestRun.Results = cfg.Apply(pymanifest.Check(m))
			sarifLog.Runs = append(sarifLog.Runs, manifestRun)

			rulesetRun := sarif.NewRun("confkit-ruleset", toolVersion, ruleset.Rules())
			rulesetResults := ruleset.Check(m.Tool.Ruff, ruleset.DefaultRegistry(), cfg.Manifest)
			rulesetResults = append(rulesetResults,
				ruleset.CrossCheckFirstParty(m.Tool.Ruff, m.Tool.Pyright.Include, cfg.Manifest)...)
			rulesetRun.Results = cfg.Apply(rulesetResults)
			sarifLog.Runs = append(sarifLog.Runs, rulesetRun)

			typecheckRun := sarif.NewRun("confkit-typecheck", toolVersion, typecheck.Rules())
			typecheckResults := typecheck.Check(m.Tool.Pyright, rootDir, cfg.Manifest)
			typecheckResults = append(typecheckResults,
				typecheck.CrossCheckPythonVersion(m.Tool.Pyright, m.Project.RequiresPython, cfg.Manifest)...)
			typecheckRun.Results = cfg.Apply(typecheckResults)
			sarifLog.Runs = append(sarifLog.Runs, typecheckRun)

			workflowRun := sarif.NewRun("confkit-workflow", toolVersion, workflow.Rules())
			files, err := collectWorkflows(nil)
			if err != nil {
				// A project without workflows still gets its manifest audited.
				logger.Debug().Err(err).Msg("skipping workflow checks")
			} else {
				opts := workflow.Options{RequiresPython: m.Project.RequiresPython}
				for _, file := range files {
					results, err := checkWorkflowFile(file, opts)
					if err != nil {
						return err
					}
					workflowRun.Results = append(workflowRun.Results, results...)
				}
				workflowRun.Results = cfg.Apply(workflowRun.Results)
			}
			sarifLog.Runs = append(sarifLog.Runs, workflowRun)

			return emit(sarifLog)
		},
	}
}
