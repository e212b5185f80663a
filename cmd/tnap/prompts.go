package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shuheykoyama/tnap/internal/config"
)

func newPromptsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the prompt catalog keys usable with --key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := config.LoadPrompts(c.cfg.Prompts.Catalog)
			if err != nil {
				return err
			}

			rows := [][]string{}
			for _, key := range catalog.Keys() {
				rows = append(rows, []string{key, catalog.Prompts[key]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Prompt"}, rows, nil))
			return nil
		},
	}
}
