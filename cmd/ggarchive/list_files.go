package main

import (
	"fmt"
	"os"

	"github.com/hnilsson/ggarchive/pkg/archive"
	"github.com/spf13/cobra"
)

var listFilesCmd = &cobra.Command{
	Use:   "list-files <pack-or-dir>",
	Short: "Print every logical path the archive's index knows about",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := archive.Open(args[0], archive.Options{Log: log})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ggarchive: opening %s: %v\n", args[0], err)
			os.Exit(1)
		}
		defer a.Close()

		paths, err := a.ListPaths()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ggarchive: listing paths: %v\n", err)
			os.Exit(1)
		}

		for _, p := range paths {
			fmt.Println(p)
		}
	},
}
