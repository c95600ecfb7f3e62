package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/umlweb/internal/presentation/tui"
	"github.com/aretw0/umlweb/pkg/canvas"
	"github.com/aretw0/umlweb/pkg/report"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the project's diagram nodes and edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		snap := app.Store.Snapshot()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tID\tLABEL\tPOSITION")
		for _, n := range canvas.Nodes(snap) {
			fmt.Fprintf(w, "%s\t%s\t%s\t(%g, %g)\n", n.Kind, n.ID, n.Label, n.Position.X, n.Position.Y)
		}
		for _, e := range canvas.Edges(snap) {
			fmt.Fprintf(w, "%s\t%s\t%s -> %s\t%s\n", e.Kind, e.ID, e.Source, e.Target, e.Label)
		}
		return w.Flush()
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [use-case-id]",
	Short: "Print use case scenarios as Markdown",
	Long:  `Prints the scenario of one use case, or of the whole project. Output is rendered when Stdout is a terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		snap := app.Store.Snapshot()
		md := report.Project(snap)
		if len(args) == 1 {
			var ok bool
			if md, ok = report.UseCase(snap, args[0]); !ok {
				return fmt.Errorf("use case %q not found", args[0])
			}
		}

		render := tui.ForFile(os.Stdout)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			render = tui.Plain
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd, describeCmd)
	showCmd.Flags().Bool("json", false, "Print the raw project snapshot")
	describeCmd.Flags().Bool("raw", false, "Print Markdown without rendering")
}
