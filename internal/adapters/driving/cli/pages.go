package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var pagesJSON bool

// pageDelimiter separates pages in extracted document text.
const pageDelimiter = "\f"

var pagesCmd = &cobra.Command{
	Use:   "pages [file]",
	Short: "Find similar pages within one document",
	Long: `Compares every page pair inside a single document and flags pairs
above the page threshold. Pages are separated by form-feed characters,
as produced by most text extractors.`,
	Args: cobra.ExactArgs(1),
	RunE: runPages,
}

func init() {
	pagesCmd.Flags().BoolVar(&pagesJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	if comparisonService == nil {
		return errors.New("comparison service not configured")
	}

	text, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}

	pages := strings.Split(text, pageDelimiter)
	if len(pages) < 2 {
		cmd.Println("Document has a single page; nothing to compare.")
		return nil
	}

	matches, err := comparisonService.AnalyzePages(cmd.Context(), pages)
	if err != nil {
		return fmt.Errorf("page analysis failed: %w", err)
	}

	if pagesJSON {
		return outputJSON(cmd, matches)
	}

	if len(matches) == 0 {
		cmd.Printf("No similar pages among %d pages.\n", len(pages))
		return nil
	}

	cmd.Printf("Similar pages (%d):\n", len(matches))
	for _, match := range matches {
		// One-based page numbers for humans.
		cmd.Printf("  page %d <-> page %d: %.3f\n", match.PageA+1, match.PageB+1, match.Similarity)
	}
	return nil
}
