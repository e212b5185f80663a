package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shuheykoyama/tnap/internal/theme"
)

func newThemesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			themes, err := theme.List(c.cfg.Themes.Dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(themes) == 0 {
				fmt.Fprintf(out, "No themes in %s\n", c.cfg.Themes.Dir)
				return nil
			}

			rows := make([][]string, 0, len(themes))
			for _, t := range themes {
				rows = append(rows, []string{t.Name, strconv.Itoa(len(t.Items)), t.Dir})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Theme", "Images", "Directory"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
