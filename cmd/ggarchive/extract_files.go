package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"

	"github.com/hnilsson/ggarchive/pkg/archive"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var extractRegex bool

var extractFilesCmd = &cobra.Command{
	Use:   "extract-files <pack-or-dir> <out-dir> [patterns...]",
	Short: "Extract files matching one or more patterns",
	Long: "Extract files matching one or more patterns. Patterns come from positional\n" +
		"arguments or, absent those, from stdin (one per line). With --regex, each\n" +
		"pattern is compiled as a regular expression instead of matched exactly.",
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		archivePath, outDir := args[0], args[1]
		patterns := args[2:]

		a, err := archive.Open(archivePath, archive.Options{Log: log})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ggarchive: opening %s: %v\n", archivePath, err)
			os.Exit(1)
		}
		defer a.Close()

		if len(patterns) == 0 {
			patterns, err = readPatternsFromStdin()
			if err != nil {
				fmt.Fprintf(os.Stderr, "ggarchive: reading patterns from stdin: %v\n", err)
				os.Exit(1)
			}
		}

		targets, err := resolveTargets(a, patterns, extractRegex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ggarchive: %v\n", err)
			os.Exit(1)
		}

		failures := 0
		extracted := 0
		for _, path := range targets {
			if ctx.Err() != nil {
				log.Warn("extraction interrupted")
				break
			}
			if err := extractOne(a, path, outDir); err != nil {
				log.WithFields(logrus.Fields{"path": path}).Warnf("extraction failed: %v", err)
				failures++
				continue
			}
			extracted++
		}

		fmt.Printf("extracted %d/%d files\n", extracted, len(targets))
		if failures > 0 {
			os.Exit(1)
		}
	},
}

func readPatternsFromStdin() ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// resolveTargets expands patterns into the concrete archive paths they
// match. Exact patterns are used as-is without consulting the index;
// regex patterns are matched against every path in the index.
func resolveTargets(a *archive.Archive, patterns []string, regex bool) ([]string, error) {
	if !regex {
		return patterns, nil
	}

	allPaths, err := a.ListPaths()
	if err != nil {
		return nil, fmt.Errorf("listing paths: %w", err)
	}

	var matched []string
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
		}
		for _, p := range allPaths {
			if re.MatchString(p) {
				matched = append(matched, p)
			}
		}
	}
	return matched, nil
}

func extractOne(a *archive.Archive, path, outDir string) error {
	data, err := a.ExtractFile(path)
	if err != nil {
		return err
	}
	outPath := filepath.Join(outDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(outPath, data, 0o644)
}
