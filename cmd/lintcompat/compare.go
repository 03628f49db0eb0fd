package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/lintcompat/pkg/appconfig"
	"github.com/wonderfulspam/lintcompat/pkg/differ"
	"github.com/wonderfulspam/lintcompat/pkg/eslint"
	"github.com/wonderfulspam/lintcompat/pkg/renderer"
	"github.com/wonderfulspam/lintcompat/pkg/validator"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare --old <config> --new <config>",
		Short: "Compare two ESLint configurations",
		Long: `Validates both configurations, checks that they lint the same files, then
compares the effective rules, language options and settings of every file.
Exits non-zero when the configurations are not equivalent.`,
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	cmd.Flags().String("old", "", "Path to the old ESLint configuration")
	cmd.Flags().String("new", "", "Path to the new ESLint configuration")
	addTargetFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	if cfg.Old == "" || cfg.New == "" {
		return errors.New("both --old and --new configurations are required")
	}

	result, err := newChecker(cmd, cfg).CompareConfigurations(cmd.Context(), cfg.Old, cfg.New)
	if err != nil {
		return err
	}
	if err := writeReport(cmd, cfg, result); err != nil {
		return err
	}
	return result.Err()
}

// addTargetFlags registers the flags that choose which files are compared.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "./", "Directory holding the lint targets")
	cmd.Flags().StringSlice("ext", []string{"js"}, "File extensions to lint")
	cmd.Flags().StringSlice("ignore", eslint.DefaultIgnore, "Glob patterns skipped when walking the directory")
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(renderer.FormatText), "Output format (text, table, json, yaml)")
	cmd.Flags().StringP("output", "o", "", "Output file for results (default: stdout)")
}

func newChecker(cmd *cobra.Command, cfg *appconfig.Config) *validator.Checker {
	return validator.NewChecker(validator.Options{
		Backend:    eslint.BackendType(cfg.Engine),
		Command:    cfg.ESLint.Command,
		Ignore:     cfg.Ignore,
		TargetDir:  cfg.TargetDir,
		Extensions: cfg.Extensions,
		Progress:   cmd.ErrOrStderr(),
	})
}

// writeReport renders result to the output file, or to stdout.
func writeReport(cmd *cobra.Command, cfg *appconfig.Config, result *differ.Result) error {
	if cfg.Output == "" {
		r := renderer.New(renderer.Options{Color: cfg.UseColor(cmd.OutOrStdout())})
		return r.Write(cmd.OutOrStdout(), result, cfg.ReportFormat())
	}

	out, err := renderer.New(renderer.Options{}).Format(result, cfg.ReportFormat())
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Results written to %s\n", cfg.Output)
	return nil
}
