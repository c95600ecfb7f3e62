package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/umlweb/pkg/xmlcodec"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the project as an XML document",
	Long: `Writes the project to file, or to a timestamped uml-project-*.xml file in
the current directory when no file is given. Use "-" for standard output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		compat, _ := cmd.Flags().GetBool("compat")
		opts := xmlcodec.Options{CompatOnly: compat}
		snap := app.Store.Snapshot()

		target := xmlcodec.FileName(time.Now())
		if len(args) == 1 {
			target = args[0]
		}
		if target == "-" {
			return xmlcodec.WriteXML(cmd.OutOrStdout(), snap, opts)
		}
		if err := xmlcodec.ExportFile(target, snap, opts); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), target)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the project with an XML document",
	Long:  `Reads an umlweb XML document ("-" for standard input). The stored project is only replaced when the document parses.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		name := args[0]
		if name != "-" && !xmlcodec.AcceptsFile(name, "") {
			return fmt.Errorf("%s: expected an .xml file", name)
		}

		var src io.Reader = cmd.InOrStdin()
		if name != "-" {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}
		snap, err := xmlcodec.ReadXML(src)
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}

		app, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Store.LoadProject(ctx, *snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d actors and %d use cases\n", len(snap.Actors), len(snap.UseCases))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().Bool("compat", false, "Omit the extension layer (actors, links, associations, layout)")
}
