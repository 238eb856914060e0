package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skillport/pkg/config"
	"github.com/jingkaihe/skillport/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type RulesConfig struct {
	JSON bool
}

func NewRulesConfig() *RulesConfig {
	return &RulesConfig{
		JSON: false,
	}
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective path rewrite table",
	Long: `Print the ordered rewrite rules applied to text files, either derived from
source_home, target_home, skill_name and runtime_dir or taken verbatim from
rewrite_rules. Ordering problems are reported and make the command fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rulesConfig := getRulesConfigFromFlags(cmd)

		// Validation is reported below rather than refusing to print.
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		rules := cfg.Rules()
		out := cmd.OutOrStdout()

		if rulesConfig.JSON {
			data, err := json.MarshalIndent(rules, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to encode rules")
			}
			fmt.Fprintln(out, string(data))
		} else {
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tFROM\tTO")
			fmt.Fprintln(tw, "-\t----\t--")
			for i, rule := range rules {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, rule.From, rule.To)
			}
			tw.Flush()
		}

		if err := rules.Validate(); err != nil {
			var merr *multierror.Error
			if errors.As(err, &merr) {
				for _, e := range merr.Errors {
					presenter.Warning(e.Error())
				}
			}
			return errors.New("rewrite rules are misordered")
		}
		return nil
	},
}

func init() {
	defaults := NewRulesConfig()
	rulesCmd.Flags().Bool("json", defaults.JSON, "Print the rules as JSON")
}

func getRulesConfigFromFlags(cmd *cobra.Command) *RulesConfig {
	config := NewRulesConfig()
	if asJSON, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = asJSON
	}
	return config
}
