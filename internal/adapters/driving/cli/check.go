package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

var (
	checkID    string
	checkJSON  bool
	skipHash   bool
	skipLSH    bool
	skipVector bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a document against the index",
	Long: `Checks a document for duplicates without adding it to the index.
The stages run in increasing cost order (hash, lsh, vector) and stop at
the first match. Use "-" to read the document from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkID, "id", "", "document identifier (excluded from matches)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output result as JSON")
	checkCmd.Flags().BoolVar(&skipHash, "skip-hash", false, "skip the exact hash stage")
	checkCmd.Flags().BoolVar(&skipLSH, "skip-lsh", false, "skip the MinHash/LSH stage")
	checkCmd.Flags().BoolVar(&skipVector, "skip-vector", false, "skip the vector similarity stage")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	text, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}

	opts := domain.DetectionOptions{
		DocID:       checkID,
		CheckHash:   !skipHash,
		CheckLSH:    !skipLSH,
		CheckVector: !skipVector,
	}

	result := detectionService.FindDuplicates(cmd.Context(), text, opts)

	if checkJSON {
		return outputJSON(cmd, result)
	}
	return outputCheckResult(cmd, result)
}

func outputCheckResult(cmd *cobra.Command, result domain.DuplicateResult) error {
	if result.Error != "" {
		cmd.Printf("Rejected: %s\n", result.Error)
		return nil
	}

	if result.IsDuplicate {
		cmd.Printf("Duplicate of %s (method: %s, similarity: %.3f)\n",
			result.MatchID, result.Method, result.Similarity)
	} else {
		cmd.Println("No duplicate found.")
	}
	cmd.Printf("Stages: %s (%s)\n", methodList(result.StagesAttempted), result.Elapsed.Round(timePrecision))
	return nil
}

// outputJSON prints any result as indented JSON.
func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
