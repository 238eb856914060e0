package main

import (
	"fmt"

	"github.com/jingkaihe/skillport/pkg/pipeline"
	"github.com/jingkaihe/skillport/pkg/presenter"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Codex skill from the GSD source tree",
	Long: `Generate resets the skill directory, copies the GSD commands, workflows,
agents, references, templates and runtime helpers into it with ~/.claude
paths rewritten, then writes references/INDEX.md, SKILL.md,
agents/openai.yaml and upstream.json.

Examples:
  skillport generate
  skillport generate --root ~/src/get-shit-done --output /tmp/skills
  skillport generate --provenance go-git`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts, err := pipeline.NewOptions(cfg)
		if err != nil {
			return err
		}

		result, err := pipeline.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		presenter.Success("Generated Codex skill at:")
		presenter.Info("  " + result.SkillRoot)
		for _, cat := range opts.Categories {
			presenter.Info(fmt.Sprintf("  %-12s %d files", cat.Name, result.Manifest.Counts.Get(cat.Name)))
		}
		return nil
	},
}
