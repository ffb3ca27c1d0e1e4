package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Render the home page",
	Long: `Load the popular, trending and top-rated sections together with the
hero slides and render the page as HTML. Sections that fail to load are
rendered with an error message instead of failing the whole page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res := a.Home(ctx)

			sections := make([]string, 0, len(res.Errors))
			for section := range res.Errors {
				sections = append(sections, section)
			}
			sort.Strings(sections)
			for _, section := range sections {
				fmt.Fprintf(cmd.ErrOrStderr(), "! %s: %v\n", section, res.Errors[section])
			}

			return writePage(cmd, a, out)
		})
	},
}

func init() {
	homeCmd.Flags().String("out", "", "write the page to this file instead of stdout")
	rootCmd.AddCommand(homeCmd)
}

// writePage renders the page to path, or stdout when path is empty
func writePage(cmd *cobra.Command, a *app.App, path string) error {
	if path == "" {
		return a.RenderPage(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := a.RenderPage(f); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Page written to %s\n", path)
	return nil
}
