package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/shinkrolist/internal/app"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the catalog response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached catalog response",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.ClearCache(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", n)
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
