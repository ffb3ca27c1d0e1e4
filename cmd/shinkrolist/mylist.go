package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
	"github.com/varoOP/shinkrolist/internal/domain"
	"github.com/varoOP/shinkrolist/internal/repository"
)

var mylistCmd = &cobra.Command{
	Use:   "mylist",
	Short: "Show My List, most recently added first",
	Long: `Show My List for the logged in user.

With --export the list is written as yaml or json, to stdout or to the
file given by --out (the format then follows the file extension).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		export, _ := cmd.Flags().GetString("export")
		out, _ := cmd.Flags().GetString("out")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if export != "" || out != "" {
				format := domain.ExportFormat(export)
				if out != "" && export == "" {
					format = repository.FormatOf(out)
				}
				if format != domain.ExportYAML && format != domain.ExportJSON {
					return fmt.Errorf("invalid export format: %s (must be 'yaml' or 'json')", export)
				}

				n, err := a.ExportMyList(ctx, cmd.OutOrStdout(), format, out)
				if err != nil {
					return err
				}
				if out != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d items to %s\n", n, out)
				}
				return nil
			}

			list, err := a.MyList(ctx)
			if err != nil {
				return err
			}
			if len(list.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "My List is empty.")
				return nil
			}
			for _, it := range list.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s  %s\n", it.MalID, it.CreatedAt.Local().Format("2006-01-02 15:04"), it.Title)
			}
			return nil
		})
	},
}

var mylistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add every entry of an exported list to My List",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.ImportMyList(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", n)
			return nil
		})
	},
}

func init() {
	mylistCmd.Flags().String("export", "", "export format: yaml or json")
	mylistCmd.Flags().String("out", "", "write the export to this file")
	mylistCmd.AddCommand(mylistImportCmd)
	rootCmd.AddCommand(mylistCmd)
}
