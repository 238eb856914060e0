package main

import (
	"fmt"

	"github.com/jingkaihe/skillport/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of skillport in JSON format.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := version.Get().JSON()
		if err != nil {
			return errors.Wrap(err, "failed to format version info")
		}
		fmt.Fprintln(cmd.OutOrStdout(), info)
		return nil
	},
}
