package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/lintcompat/pkg/appconfig"
	"github.com/wonderfulspam/lintcompat/pkg/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot --config <config>",
		Short: "Record the lint targets and rule sets of a configuration",
		Long: `Extracts the lint targets and per-file effective configuration of the
old ESLint configuration into a compatibility snapshot, so the new configuration
can later be checked without the old one present.`,
		Args: cobra.NoArgs,
		RunE: runSnapshot,
	}

	cmd.Flags().String("config", "", "Path to the ESLint configuration to record")
	_ = cmd.Flags().SetAnnotation("config", appconfig.KeyAnnotation, []string{"old"})
	cmd.Flags().StringP("output", "o", snapshot.DefaultPath, "Snapshot file to write")
	_ = cmd.Flags().SetAnnotation("output", appconfig.KeyAnnotation, []string{"snapshot"})
	addTargetFlags(cmd)
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	if cfg.Old == "" {
		return errors.New("--config is required")
	}

	snap, err := newChecker(cmd, cfg).GenerateSnapshot(cmd.Context(), cfg.Old)
	if err != nil {
		return err
	}
	if err := snap.Save(cfg.Snapshot); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s (%d targets, %d groups)\n",
		cfg.Snapshot, len(snap.Targets), len(snap.FilesConfig))
	return nil
}
