package main

import (
	"context"
	"os"

	"github.com/jingkaihe/skillport/pkg/config"
	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var shutdownTracing = func(context.Context) error { return nil }

var rootCmd = &cobra.Command{
	Use:   "skillport",
	Short: "Convert a GSD documentation tree into a Codex skill",
	Long: `skillport packages the Get Shit Done (GSD) commands, workflows, agents,
references and templates written for ~/.claude into a self-contained skill
for ~/.codex/skills, rewriting embedded paths and recording where the
content came from.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.InitViper(viper.GetViper(), configFile); err != nil {
			return err
		}
		if err := logger.Setup(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			return err
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			presenter.SetQuiet(true)
		}

		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return nil
		}
		shutdownTracing = shutdown
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	defaults := config.NewConfig()

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./skillport.yaml or $HOME/.skillport/skillport.yaml)")
	flags.String("log-level", defaults.LogLevel, "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", defaults.LogFormat, "Log format (text or json)")
	flags.String("profile", "", "Named profile from the config file to apply")
	flags.String("root", defaults.Root, "Project root holding the GSD source tree")
	flags.String("name", defaults.SkillName, "Name of the generated skill")
	flags.String("output", defaults.OutputDir, "Directory the skill is generated into, relative to --root unless absolute")
	flags.String("provenance", defaults.Provenance.Backend, "Provenance backend (git, go-git or none)")
	flags.BoolP("quiet", "q", false, "Only print errors and drift")

	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("profile", flags.Lookup("profile"))
	viper.BindPFlag("root", flags.Lookup("root"))
	viper.BindPFlag("skill_name", flags.Lookup("name"))
	viper.BindPFlag("output_dir", flags.Lookup("output"))
	viper.BindPFlag("provenance.backend", flags.Lookup("provenance"))

	rootCmd.AddCommand(withTracing(generateCmd))
	rootCmd.AddCommand(withTracing(checkCmd))
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig decodes and validates the merged flag, env and file settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	ctx := context.Background()

	err := rootCmd.ExecuteContext(ctx)
	if shutdownErr := shutdownTracing(ctx); shutdownErr != nil {
		logger.G(ctx).WithError(shutdownErr).Debug("failed to flush traces")
	}
	if err != nil {
		if !errors.Is(err, errDrift) {
			presenter.Error(err, "")
		}
		os.Exit(1)
	}
}
