package commands

import (
	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/pkg/drift"
	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
)

func driftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift <older-manifest> <newer-manifest>",
		Short: "Compare two manifest revisions for drift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := pymanifest.Load(args[0])
			if err != nil {
				return err
			}
			newer, err := pymanifest.Load(args[1])
			if err != nil {
				return err
			}

			run := sarif.NewRun("confkit-drift", toolVersion, drift.Rules())
			run.Results = cfg.Apply(drift.Compare(older, newer))

			sarifLog := sarif.NewLog()
			sarifLog.Runs = append(sarifLog.Runs, run)
			return emit(sarifLog)
		},
	}
}
