// Package commands wires the confkit CLI.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/internal/config"
	"github.com/dkoosis/confkit/internal/log"
	"github.com/dkoosis/confkit/pkg/sarif"
)

const toolVersion = "0.3.0"

// ErrFindings signals that at least one error-level finding was emitted; the
// process should exit non-zero without printing a Go error.
var ErrFindings = errors.New("findings at error level")

var (
	cfgPath  string
	format   string
	logLevel string

	cfg config.Config
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "confkit",
		Short:         "Sanity checks for project configuration surfaces",
		Long:          "confkit parses project manifests, linter rule sets, type-checker settings,\nand CI workflow definitions, and reports configuration problems as SARIF.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Configure(log.Config{Level: cfg.LogLevel})

			if format != "sarif" && format != "text" {
				return fmt.Errorf("unknown output format %q (want sarif or text)", format)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", ".confkit.yml", "confkit config file")
	root.PersistentFlags().StringVar(&format, "format", "sarif", "output format (sarif or text)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for diagnostics")

	root.AddCommand(
		manifestCmd(),
		rulesetCmd(),
		typecheckCmd(),
		workflowCmd(),
		auditCmd(),
		driftCmd(),
		fingerprintCmd(),
	)

	return root.Execute()
}

// emit writes the log in the selected format and converts error-level
// findings into ErrFindings for the exit code.
func emit(sarifLog *sarif.Log) error {
	switch format {
	case "text":
		renderText(os.Stdout, sarifLog)
	default:
		if err := sarif.NewEncoder(os.Stdout).Encode(sarifLog); err != nil {
			return err
		}
	}

	if sarifLog.HighestLevel() == sarif.LevelError {
		return ErrFindings
	}
	return nil
}

func renderText(w io.Writer, sarifLog *sarif.Log) {
	total := 0
	for _, run := range sarifLog.Runs {
		for _, res := range run.Results {
			total++
			loc := "-"
			if len(res.Locations) > 0 {
				loc = res.Locations[0].PhysicalLocation.ArtifactLocation.URI
				if region := res.Locations[0].PhysicalLocation.Region; region != nil && region.StartLine > 0 {
					loc = fmt.Sprintf("%s:%d", loc, region.StartLine)
				}
			}
			fmt.Fprintf(w, "%s: %s: [%s] %s\n", loc, res.Level, res.RuleID, res.Message.Text)
		}
	}
	if total == 0 {
		fmt.Fprintln(w, "no findings")
	}
}

// collectWorkflows returns the workflow files to check: explicit arguments
// when given, otherwise every YAML file in the configured workflow dir.
func collectWorkflows(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(cfg.Workflows, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no workflow files found under %s", cfg.Workflows)
	}
	sort.Strings(files)
	return files, nil
}

// manifestPath resolves the manifest argument: an explicit arg wins over the
// configured path.
func manifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Manifest
}
