package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/umlweb"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of umlweb",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "umlweb version %s\n", strings.TrimSpace(umlweb.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
