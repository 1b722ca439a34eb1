package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	batchExt  string
	batchJSON bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Check a directory of documents against the index",
	Long: `Checks every matching file in a directory for duplicates, in file
name order. Files are identified by their base name. The batch does
not modify the index; use "add" to index documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchExt, "ext", ".txt", "file extension to include")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), batchExt) {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		cmd.Printf("No %s files found in %s.\n", batchExt, dir)
		return nil
	}

	texts := make([]string, 0, len(paths))
	docIDs := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		texts = append(texts, string(data))
		docIDs = append(docIDs, filepath.Base(path))
	}

	results, err := detectionService.AnalyzeBatch(cmd.Context(), texts, docIDs)
	if err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}

	if batchJSON {
		return outputJSON(cmd, results)
	}

	duplicates := 0
	rejected := 0
	for _, result := range results {
		switch {
		case result.Error != "":
			rejected++
			cmd.Printf("  %s: rejected (%s)\n", result.DocID, result.Error)
		case result.IsDuplicate:
			duplicates++
			cmd.Printf("  %s: duplicate of %s (%s, %.3f)\n",
				result.DocID, result.MatchID, result.Method, result.Similarity)
		default:
			cmd.Printf("  %s: unique\n", result.DocID)
		}
	}
	cmd.Printf("\n%d checked: %d duplicates, %d unique, %d rejected\n",
		len(results), duplicates, len(results)-duplicates-rejected, rejected)
	return nil
}
