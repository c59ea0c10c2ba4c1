package commands

import (
	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/internal/log"
	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
)

func manifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest [path]",
		Short: "Check project manifest metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifestPath(args)
			logger := log.WithComponent("manifest")

			m, err := pymanifest.Load(path)
			if err != nil {
				return err
			}
			logger.Debug().Str("path", path).Msg("manifest parsed")

			run := sarif.NewRun("confkit-manifest", toolVersion, pymanifest.Rules())
			run.Results = cfg.Apply(pymanifest.Check(m))

			sarifLog := sarif.NewLog()
			sarifLog.Runs = append(sarifLog.Runs, run)
			return emit(sarifLog)
		},
	}
}
