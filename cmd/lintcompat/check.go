package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/lintcompat/pkg/appconfig"
	"github.com/wonderfulspam/lintcompat/pkg/snapshot"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check --config <config>",
		Short: "Check a configuration against a compatibility snapshot",
		Long: `Compares the lint targets and effective configurations of the new ESLint
configuration with a snapshot written by the snapshot command. Exits non-zero
when they are not equivalent.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	cmd.Flags().String("config", "", "Path to the new ESLint configuration")
	_ = cmd.Flags().SetAnnotation("config", appconfig.KeyAnnotation, []string{"new"})
	cmd.Flags().String("snapshot", snapshot.DefaultPath, "Snapshot file to check against")
	cmd.Flags().String("dir", "./", "Directory holding the lint targets")
	addReportFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	if cfg.New == "" {
		return errors.New("--config is required")
	}

	snap, err := snapshot.Load(cfg.Snapshot)
	if err != nil {
		return err
	}

	result, err := newChecker(cmd, cfg).CheckSnapshot(cmd.Context(), snap, cfg.New)
	if err != nil {
		return err
	}
	if err := writeReport(cmd, cfg, result); err != nil {
		return err
	}
	return result.Err()
}
