package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hnilsson/ggarchive/pkg/archive"
	"github.com/hnilsson/ggarchive/pkg/bundledggpk"
	"github.com/hnilsson/ggarchive/pkg/ggpk"
)

func listContentsRecursive(node ggpk.Node, indent string) {
	fmt.Printf("%s%s\n", indent, node.Name())
	dir, ok := node.(*ggpk.DirectoryRecord)
	if !ok {
		return
	}
	for _, child := range ggpk.GetChildren(dir) {
		listContentsRecursive(child, indent+"  ")
	}
}

func main() {
	archivePath := flag.String("archive", "", "Path to the bundle archive directory or .ggpk file (required)")
	ggpkInBundlePath := flag.String("ggpkpath", "", "Logical path of the GGPK file stored inside the archive (required)")
	action := flag.String("action", "list", "Action: list, extract")
	itemPath := flag.String("itempath", "", "Path of the item within the bundled GGPK to extract (for action=extract)")
	outputPath := flag.String("out", ".", "Output directory for extracted file (for action=extract)")

	flag.Parse()

	if *archivePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -archive flag is required.")
		flag.Usage()
		os.Exit(1)
	}
	if *ggpkInBundlePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -ggpkpath flag is required.")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("Extract Bundled GGPK Tool\n")
	fmt.Printf("Processing archive: %s\n", *archivePath)
	fmt.Printf("GGPK path in archive: %s\n", *ggpkInBundlePath)
	fmt.Printf("Action: %s\n", *action)

	a, err := archive.Open(*archivePath, archive.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening archive %s: %v\n", *archivePath, err)
		os.Exit(1)
	}
	defer a.Close()

	fmt.Printf("Opening bundled GGPK '%s'...\n", *ggpkInBundlePath)
	pack, err := bundledggpk.Open(a, *ggpkInBundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bundled GGPK '%s': %v\n", *ggpkInBundlePath, err)
		os.Exit(1)
	}
	defer pack.Close()

	fmt.Printf("Successfully opened bundled GGPK: %s\n", *ggpkInBundlePath)

	switch *action {
	case "list":
		fmt.Println("Contents of bundled GGPK:")
		listContentsRecursive(pack.Root(), "")
	case "extract":
		if *itemPath == "" {
			fmt.Fprintln(os.Stderr, "Error: -itempath flag is required for 'extract' action.")
			os.Exit(1)
		}

		outFilePath := filepath.Join(*outputPath, filepath.Base(*itemPath))
		fmt.Printf("Extracting '%s' from bundled GGPK to '%s'...\n", *itemPath, outFilePath)

		node, err := pack.GetNodeByPath(*itemPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding item '%s' in bundled GGPK: %v\n", *itemPath, err)
			os.Exit(1)
		}

		fileNode, ok := node.(*ggpk.FileRecord)
		if !ok {
			fmt.Fprintf(os.Stderr, "Item '%s' in bundled GGPK is not a file.\n", *itemPath)
			os.Exit(1)
		}

		fileData, err := pack.ReadFileData(fileNode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading data for item '%s' from bundled GGPK: %v\n", *itemPath, err)
			os.Exit(1)
		}

		outDir := filepath.Dir(outFilePath)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory '%s': %v\n", outDir, err)
			os.Exit(1)
		}

		if err := os.WriteFile(outFilePath, fileData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing extracted file to '%s': %v\n", outFilePath, err)
			os.Exit(1)
		}
		fmt.Printf("Successfully extracted '%s' to '%s'\n", *itemPath, outFilePath)

	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown action '%s'. Supported actions: list, extract.\n", *action)
		flag.Usage()
		os.Exit(1)
	}
}
