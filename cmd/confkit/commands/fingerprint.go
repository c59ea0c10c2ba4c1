package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkoosis/confkit/internal/fingerprint"
	"github.com/dkoosis/confkit/internal/log"
	"github.com/dkoosis/confkit/pkg/pymanifest"
)

func fingerprintCmd() *cobra.Command {
	var cachePath string

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Report whether the configuration surface changed since the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := []string{cfg.Manifest}
			if workflows, err := collectWorkflows(nil); err == nil {
				files = append(files, workflows...)
			}

			digest, err := fingerprint.Compute(files)
			if err != nil {
				return err
			}

			if cachePath == "" {
				project := "project"
				if m, err := pymanifest.Load(cfg.Manifest); err == nil && m.Project.Name != "" {
					project = pymanifest.NormalizeName(m.Project.Name)
				}
				cachePath, err = fingerprint.CachePath(project)
				if err != nil {
					return err
				}
			}

			status, err := fingerprint.CheckAndStore(cachePath, digest)
			if err != nil {
				return err
			}

			logger := log.WithComponent("fingerprint")
			logger.Info().
				Uint64("digest", digest).
				Str("cache", cachePath).
				Int("files", len(files)).
				Msg("configuration fingerprinted")

			fmt.Fprintf(os.Stdout, "%s %016x\n", status, digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "override the fingerprint cache file")
	return cmd
}
