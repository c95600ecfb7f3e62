package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Store.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Project cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
