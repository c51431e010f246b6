package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hnilsson/ggarchive/pkg/ggpk"
)

func main() {
	ggpkPath := flag.String("ggpk", "", "Path to the GGPK file (required)")
	action := flag.String("action", "list", "Action to perform: list, extract, extract-all")
	itemPath := flag.String("path", "", "Path of the item within GGPK to extract")
	outputPath := flag.String("out", ".", "Output directory for extracted files/all files")

	flag.Parse()

	if *ggpkPath == "" {
		fmt.Println("Error: -ggpk flag is required")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("GGPK Tool\n")
	fmt.Printf("Processing GGPK file: %s\n", *ggpkPath)
	fmt.Printf("Action: %s\n", *action)

	gf, err := ggpk.Open(*ggpkPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening GGPK file %s: %v\n", *ggpkPath, err)
		os.Exit(1)
	}
	defer gf.Close()

	switch *action {
	case "list":
		listContentsRecursive(gf.Root(), "", 0)
	case "extract":
		if *itemPath == "" {
			fmt.Println("Error: -path flag is required for 'extract' action")
			os.Exit(1)
		}
		outFilePath := filepath.Join(*outputPath, filepath.Base(*itemPath))
		if err := extractFile(gf, *itemPath, outFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting file '%s': %v\n", *itemPath, err)
			os.Exit(1)
		}
		fmt.Printf("File '%s' extracted to '%s'\n", *itemPath, outFilePath)
	case "extract-all":
		fmt.Println("Extracting all files...")
		if err := extractAllFiles(gf, gf.Root(), "", *outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error during extract-all: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All files extracted to:", *outputPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown action '%s'\n", *action)
		flag.Usage()
		os.Exit(1)
	}
}

// listContentsRecursive prints a node and its descendants, one per
// line, indented by depth. currentPath is the node's own logical path
// (empty at the root).
func listContentsRecursive(node ggpk.Node, currentPath string, depth int) {
	indent := strings.Repeat("  ", depth)
	if currentPath == "" {
		fmt.Println("/")
	} else {
		fmt.Printf("%s%s\n", indent, node.Name())
	}

	dir, ok := node.(*ggpk.DirectoryRecord)
	if !ok {
		return
	}
	for _, child := range ggpk.GetChildren(dir) {
		childPath := child.Name()
		if currentPath != "" {
			childPath = currentPath + "/" + childPath
		}
		listContentsRecursive(child, childPath, depth+1)
	}
}

// extractFile extracts a single file from GGPK to the specified output path.
func extractFile(gf *ggpk.GGPKFile, itemPath string, outFilePath string) error {
	fmt.Printf("Extracting '%s' to '%s'\n", itemPath, outFilePath)
	node, err := gf.GetNodeByPath(itemPath)
	if err != nil {
		return err
	}

	fileNode, ok := node.(*ggpk.FileRecord)
	if !ok {
		return fmt.Errorf("path '%s' is not a file", itemPath)
	}

	fileData, err := gf.ReadFileData(fileNode)
	if err != nil {
		return fmt.Errorf("failed to read file data for '%s': %w", itemPath, err)
	}

	outDir := filepath.Dir(outFilePath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outDir, err)
	}

	if err := os.WriteFile(outFilePath, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write extracted file to '%s': %w", outFilePath, err)
	}
	return nil
}

// extractAllFiles recursively extracts all files under a directory node,
// mirroring the pack's directory structure under baseOutputDir.
func extractAllFiles(gf *ggpk.GGPKFile, node ggpk.Node, nodePath string, baseOutputDir string) error {
	if fileNode, ok := node.(*ggpk.FileRecord); ok {
		outFilePath := filepath.Join(baseOutputDir, filepath.FromSlash(nodePath))
		fmt.Printf("Extracting %s -> %s\n", nodePath, outFilePath)

		outDir := filepath.Dir(outFilePath)
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s for file %s: %w", outDir, nodePath, err)
		}

		fileData, err := gf.ReadFileData(fileNode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading data for %s: %v. Skipping.\n", nodePath, err)
			return nil
		}
		if err := os.WriteFile(outFilePath, fileData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file %s to %s: %v. Skipping.\n", nodePath, outFilePath, err)
		}
		return nil
	}

	dirNode, ok := node.(*ggpk.DirectoryRecord)
	if !ok {
		return nil
	}
	if nodePath != "" {
		currentOutDir := filepath.Join(baseOutputDir, filepath.FromSlash(nodePath))
		if err := os.MkdirAll(currentOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", currentOutDir, err)
		}
	}

	for _, child := range ggpk.GetChildren(dirNode) {
		childPath := child.Name()
		if nodePath != "" {
			childPath = nodePath + "/" + childPath
		}
		if err := extractAllFiles(gf, child, childPath, baseOutputDir); err != nil {
			return err
		}
	}
	return nil
}
