package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		query := strings.Join(args, " ")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res := a.Search(ctx, query)
			switch {
			case res.Hidden:
				fmt.Fprintln(cmd.OutOrStdout(), "Type at least two characters to search.")
				return nil
			case res.Err != nil:
				return fmt.Errorf("search failed: %w", res.Err)
			}

			printItems(cmd, a, res.Items, 12)

			if out != "" {
				return writePage(cmd, a, out)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().String("out", "", "also write the page with the results panel to this file")
	rootCmd.AddCommand(searchCmd)
}
