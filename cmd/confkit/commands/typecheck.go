package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
	"github.com/dkoosis/confkit/pkg/typecheck"
)

func typecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck [manifest]",
		Short: "Check the type checker configuration in the manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifestPath(args)

			m, err := pymanifest.Load(path)
			if err != nil {
				return err
			}

			results := typecheck.Check(m.Tool.Pyright, filepath.Dir(path), path)
			results = append(results, typecheck.CrossCheckPythonVersion(m.Tool.Pyright, m.Project.RequiresPython, path)...)

			run := sarif.NewRun("confkit-typecheck", toolVersion, typecheck.Rules())
			run.Results = cfg.Apply(results)

			sarifLog := sarif.NewLog()
			sarifLog.Runs = append(sarifLog.Runs, run)
			return emit(sarifLog)
		},
	}
}
