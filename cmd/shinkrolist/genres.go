package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
	"github.com/varoOP/shinkrolist/internal/domain"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List anime genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			genres, err := a.Genres(ctx)
			if err != nil {
				return err
			}
			for _, g := range genres {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s (%d)\n", g.MalID, g.Name, g.Count)
			}
			return nil
		})
	},
}

var genreCmd = &cobra.Command{
	Use:   "genre <id>",
	Short: "Browse the best scored anime of a genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid genre id %q", args[0])
		}
		out, _ := cmd.Flags().GetString("out")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			items, err := a.Genre(ctx, id)
			if err != nil {
				return err
			}

			printItems(cmd, a, items, 24)

			if out != "" {
				return writePage(cmd, a, out)
			}
			return nil
		})
	},
}

func init() {
	genreCmd.Flags().String("out", "", "also write the page with the genre grid to this file")
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(genreCmd)
}

// printItems lists up to limit items with their liked marker
func printItems(cmd *cobra.Command, a *app.App, items []domain.CatalogItem, limit int) {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return
	}
	if len(items) > limit {
		items = items[:limit]
	}

	for _, item := range items {
		mark := " "
		for _, s := range a.States(item.MalID) {
			if s.Liked {
				mark = "♥"
				break
			}
		}

		meta := item.Type
		if item.Year != 0 {
			meta = fmt.Sprintf("%s • %d", meta, item.Year)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %6d  %s  %s\n", mark, item.MalID, item.Title, meta)
	}
}
