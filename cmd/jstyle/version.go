package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jstyle version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jstyle %s (report format %s)\n", version, ir.Version)
	},
}
