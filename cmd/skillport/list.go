package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jingkaihe/skillport/pkg/manifest"
	"github.com/jingkaihe/skillport/pkg/presenter"
	"github.com/jingkaihe/skillport/pkg/skills"
	"github.com/spf13/cobra"
)

type ListConfig struct {
	Only []string
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		Only: []string{},
	}
}

var listCmd = &cobra.Command{
	Use:   "list [dir...]",
	Short: "List skills found in skill directories",
	Long: `List the skills found under the given directories, or under ./skills and
~/.codex/skills when none are given. Skills generated by skillport also show
the repository they were generated from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listConfig := getListConfigFromFlags(cmd)

		var opts []skills.Option
		if len(args) > 0 {
			opts = append(opts, skills.WithSkillDirs(args...))
		}
		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			return err
		}

		found, err := discovery.DiscoverSkills()
		if err != nil {
			return err
		}
		found = skills.FilterByAllowlist(found, listConfig.Only)

		if len(found) == 0 {
			presenter.Info("No skills found in " + strings.Join(discovery.Dirs(), ", "))
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSOURCE\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t------\t---------\t-----------")
		for _, skill := range found {
			source := "-"
			if m, err := manifest.Read(skill.Directory); err == nil {
				source = m.SourceRepo
			}
			description := skill.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", skill.Name, source, skill.Directory, description)
		}
		return tw.Flush()
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringSlice("only", defaults.Only, "Only list the named skills")
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if only, err := cmd.Flags().GetStringSlice("only"); err == nil {
		config.Only = only
	}
	return config
}
