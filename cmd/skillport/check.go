package main

import (
	"fmt"

	"github.com/jingkaihe/skillport/pkg/pipeline"
	"github.com/jingkaihe/skillport/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errDrift signals a failed check whose details were already printed.
var errDrift = errors.New("generated skill is out of date")

type CheckConfig struct {
	NameOnly bool
}

func NewCheckConfig() *CheckConfig {
	return &CheckConfig{
		NameOnly: false,
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when the generated skill differs from a fresh generation",
	Long: `Check generates the skill into a temporary directory and compares it with
the skill on disk without modifying it. Differences are printed as unified
diffs and the command exits with status 1, which makes it suitable for CI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		checkConfig := getCheckConfigFromFlags(cmd)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts, err := pipeline.NewOptions(cfg)
		if err != nil {
			return err
		}

		result, err := pipeline.Check(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if result.Clean() {
			presenter.Success("Skill is up to date: " + result.SkillRoot)
			return nil
		}

		for _, drift := range result.Drifts {
			presenter.Warning(fmt.Sprintf("%s: %s", drift.Kind, drift.Path))
			if !checkConfig.NameOnly {
				presenter.Diff(drift.Diff)
			}
		}
		presenter.Error(errDrift, fmt.Sprintf("%d file(s) differ in %s; run 'skillport generate'", len(result.Drifts), result.SkillRoot))
		return errDrift
	},
}

func init() {
	defaults := NewCheckConfig()
	checkCmd.Flags().Bool("name-only", defaults.NameOnly, "Only list drifted files without diffs")
}

func getCheckConfigFromFlags(cmd *cobra.Command) *CheckConfig {
	config := NewCheckConfig()
	if nameOnly, err := cmd.Flags().GetBool("name-only"); err == nil {
		config.NameOnly = nameOnly
	}
	return config
}
