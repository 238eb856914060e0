package main

import (
	"encoding/json"
	"fmt"

	"github.com/jingkaihe/skillport/pkg/manifest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of upstream.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := json.MarshalIndent(manifest.Schema(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode schema")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}
