package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/lintcompat/pkg/appconfig"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lintcompat configuration",
		Long:  `Manage lintcompat configuration files, including initialization and validation.`,
		// Config files are handled by the subcommands themselves.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init [file]",
		Short: "Generate a default configuration file",
		Long: `Generate a lintcompat configuration file holding every default value. If no
file is specified, creates .lintcompat.yml in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigInit,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigValidate,
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, LINTCOMPAT_
environment variables and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	})
	return configCmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	outputFile := appconfig.DefaultFile
	if len(args) > 0 {
		outputFile = args[0]
	}

	if err := appconfig.Save(appconfig.Default(), outputFile); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Configuration file created: %s\n", outputFile)
	fmt.Fprintf(out, "\nYou can now:\n")
	fmt.Fprintf(out, "1. Edit the file to set the configs to compare\n")
	fmt.Fprintf(out, "2. Use it with: lintcompat compare --config-file=%s\n", outputFile)
	fmt.Fprintf(out, "3. Validate it with: lintcompat config validate %s\n", outputFile)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load(args[0], nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Configuration is valid!\n\n")
	fmt.Fprintf(out, "Summary:\n")
	if cfg.Old != "" {
		fmt.Fprintf(out, "  Old config: %s\n", cfg.Old)
	}
	if cfg.New != "" {
		fmt.Fprintf(out, "  New config: %s\n", cfg.New)
	}
	fmt.Fprintf(out, "  Target dir: %s\n", cfg.TargetDir)
	fmt.Fprintf(out, "  Extensions: %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Fprintf(out, "  Engine: %s\n", cfg.Engine)
	fmt.Fprintf(out, "  Format: %s\n", cfg.Format)
	if len(cfg.Ignore) > 0 {
		fmt.Fprintf(out, "  Ignore patterns: %d\n", len(cfg.Ignore))
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config-file")
	cfg, err := appconfig.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	data, err := appconfig.Marshal(cfg)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", cfg.File)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
