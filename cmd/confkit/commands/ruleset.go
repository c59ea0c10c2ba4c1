package commands

import (
	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/ruleset"
	"github.com/dkoosis/confkit/pkg/sarif"
)

func rulesetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ruleset [manifest]",
		Short: "Check the linter rule selection in the manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifestPath(args)

			m, err := pymanifest.Load(path)
			if err != nil {
				return err
			}

			run := sarif.NewRun("confkit-ruleset", toolVersion, ruleset.Rules())
			run.Results = cfg.Apply(ruleset.Check(m.Tool.Ruff, ruleset.DefaultRegistry(), path))

			sarifLog := sarif.NewLog()
			sarifLog.Runs = append(sarifLog.Runs, run)
			return emit(sarifLog)
		},
	}
}
