package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	compareIDA  string
	compareIDB  string
	compareJSON bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [file-a] [file-b]",
	Short: "Compare two documents in detail",
	Long: `Produces a detailed similarity report for two documents: overall
cosine similarity, line and word diff statistics, and paragraph pairs
above the section threshold. Argument order does not affect the result.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareIDA, "id-a", "", "identifier for the first document")
	compareCmd.Flags().StringVar(&compareIDB, "id-b", "", "identifier for the second document")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if comparisonService == nil {
		return errors.New("comparison service not configured")
	}

	textA, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	textB, err := readDocument(cmd, args[1])
	if err != nil {
		return err
	}

	idA := compareIDA
	if idA == "" {
		idA = filepath.Base(args[0])
	}
	idB := compareIDB
	if idB == "" {
		idB = filepath.Base(args[1])
	}

	result, err := comparisonService.ComparePair(cmd.Context(), idA, textA, idB, textB)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON {
		return outputJSON(cmd, result)
	}

	cmd.Printf("%s vs %s\n", result.DocA, result.DocB)
	cmd.Printf("  Similarity:       %.3f\n", result.Similarity)
	cmd.Printf("  Line similarity:  %.3f (+%d -%d =%d)\n",
		result.Diff.LineSimilarity, result.Diff.Additions, result.Diff.Deletions, result.Diff.Common)
	cmd.Printf("  Word similarity:  %.3f\n", result.Diff.WordSimilarity)

	if len(result.SimilarSections) > 0 {
		cmd.Printf("\nSimilar sections (%d):\n", len(result.SimilarSections))
		for _, section := range result.SimilarSections {
			cmd.Printf("  [%d <-> %d] %.3f\n", section.IndexA, section.IndexB, section.Similarity)
			cmd.Printf("    a: %s\n", section.SnippetA)
			cmd.Printf("    b: %s\n", section.SnippetB)
		}
	}
	return nil
}
