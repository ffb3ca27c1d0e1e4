package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
	"github.com/varoOP/shinkrolist/internal/render"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <malId>",
	Short: "Add an item to My List or remove it",
	Long: `Render the home page (plus search results or a genre grid when asked),
toggle the liked state of the item through the surface named by --section
and print the state of every surface showing it.

Sections: popular, trending, toprated, hero, search, genre.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		malID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid mal id %q", args[0])
		}

		section, _ := cmd.Flags().GetString("section")
		query, _ := cmd.Flags().GetString("query")
		genre, _ := cmd.Flags().GetInt("genre")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			a.Home(ctx)
			if query != "" {
				if res := a.Search(ctx, query); res.Err != nil {
					return fmt.Errorf("search failed: %w", res.Err)
				}
			}
			if genre != 0 {
				if _, err := a.Genre(ctx, genre); err != nil {
					return err
				}
			}

			states, toggleErr := a.Toggle(ctx, malID, section)
			for _, s := range states {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s liked=%-5v %s\n", s.Kind, s.Liked, s.Label)
			}
			return toggleErr
		})
	},
}

func init() {
	toggleCmd.Flags().String("section", "", "section whose heart is clicked (default: first surface showing the item)")
	toggleCmd.Flags().String("query", "", "run this search first so the results panel is rendered")
	toggleCmd.Flags().Int("genre", 0, "open this genre first so the genre grid is rendered")
	toggleCmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			render.SectionPopular, render.SectionTrending, render.SectionTopRated,
			render.SectionHero, render.SectionSearch, render.SectionGenre,
		}, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(toggleCmd)
}
