// Command ggarchive lists and extracts files from a bundle-index
// archive or a GGPK pack.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ggarchive",
	Short: "Inspect and extract files from a bundle archive or GGPK pack",
}

func init() {
	rootCmd.AddCommand(listFilesCmd)
	rootCmd.AddCommand(extractFilesCmd)
	extractFilesCmd.Flags().BoolVar(&extractRegex, "regex", false, "treat patterns as regular expressions instead of exact paths")
}

var log = logrus.StandardLogger()
