package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/umlweb/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the use case diagram as text",
	Long:  `Outputs the diagram as Mermaid (graph LR) or Graphviz DOT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(context.Background(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Store.Snapshot(), nil))
		case "dot":
			fmt.Fprint(cmd.OutOrStdout(), graph.ToDOT(app.Store.Snapshot()))
		default:
			return fmt.Errorf("unknown format %q (mermaid, dot)", format)
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the use case diagram as SVG",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		svg, err := graph.RenderSVG(ctx, graph.ToDOT(app.Store.Snapshot()))
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(svg)
			return err
		}
		return os.WriteFile(out, svg, 0644)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd, renderCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or dot")
	renderCmd.Flags().StringP("output", "o", "", "Output file (default standard output)")
}
