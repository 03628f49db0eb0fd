package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/lintcompat/pkg/appconfig"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
)

type configKey struct{}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lintcompat",
		Short: "ESLint configuration compatibility checker",
		Long: `lintcompat checks that two ESLint configurations, typically a legacy
.eslintrc and its flat eslint.config rewrite, lint the same files with the
same rules, language options and settings.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config-file", "", "Path to the lintcompat config file (default .lintcompat.yml)")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log format (console, json)")
	pf.String("log-file", "", "Also write JSON logs to this rotating file")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("engine", "exec", "ESLint backend (exec, static)")
	pf.String("eslint-command", "npx eslint", "Command used to run ESLint")

	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// setup loads the tool config and puts it, with a logger, into the command
// context.
func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config-file")
	cfg, err := appconfig.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	lc := cfg.LoggingConfig()
	logger, err := logging.NewBuilder().
		WithLevel(lc.Level).
		WithFormat(string(lc.Format)).
		WithFile(lc.FilePath).
		WithNoColor(!cfg.UseColor(cmd.ErrOrStderr())).
		WithOutput(cmd.ErrOrStderr()).
		Build()
	if err != nil {
		return err
	}

	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("loaded config file")
	}

	ctx := logging.WithContext(cmd.Context(), logger)
	cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
	return nil
}

func configFrom(cmd *cobra.Command) *appconfig.Config {
	if cmd.Context() != nil {
		if cfg, ok := cmd.Context().Value(configKey{}).(*appconfig.Config); ok {
			return cfg
		}
	}
	return appconfig.Default()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
