package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jingkaihe/skillport/pkg/manifest"
	"github.com/jingkaihe/skillport/pkg/skills"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <skill-name> [dir...]",
	Short: "Show a skill and where it was generated from",
	Long: `Show the named skill found under the given directories, or under ./skills
and ~/.codex/skills when none are given. For skills generated by skillport
the recorded source repository, ref, commit and file counts are printed too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []skills.Option
		if len(args) > 1 {
			opts = append(opts, skills.WithSkillDirs(args[1:]...))
		}
		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			return err
		}

		skill, err := discovery.GetSkill(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Name:\t%s\n", skill.Name)
		fmt.Fprintf(tw, "Directory:\t%s\n", skill.Directory)
		fmt.Fprintf(tw, "Description:\t%s\n", skill.Description)

		m, err := manifest.Read(skill.Directory)
		if err != nil {
			return tw.Flush()
		}
		fmt.Fprintf(tw, "Source repo:\t%s\n", m.SourceRepo)
		fmt.Fprintf(tw, "Source ref:\t%s\n", m.SourceRef)
		fmt.Fprintf(tw, "Source commit:\t%s\n", m.SourceCommit)
		for _, c := range m.Counts {
			fmt.Fprintf(tw, "  %s:\t%d\n", c.Name, c.Files)
		}
		return tw.Flush()
	},
}
