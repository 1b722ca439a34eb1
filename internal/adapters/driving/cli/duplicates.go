package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var duplicatesJSON bool

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates [id]",
	Short: "List recorded duplicate relations",
	Long: `Lists duplicate relations recorded by previous checks, newest first.
With a document identifier, only relations involving that document are
shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().BoolVar(&duplicatesJSON, "json", false, "output relations as JSON")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	if detectionStore == nil {
		return errors.New("detection store not configured")
	}

	docID := ""
	if len(args) > 0 {
		docID = args[0]
	}

	rels, err := detectionStore.ListDuplicates(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("listing duplicates: %w", err)
	}

	if duplicatesJSON {
		return outputJSON(cmd, rels)
	}

	if len(rels) == 0 {
		cmd.Println("No duplicate relations recorded.")
		return nil
	}

	for _, rel := range rels {
		cmd.Printf("  %s -> %s (%s, %.3f) at %s\n",
			rel.SourceID, rel.CandidateID, rel.Method, rel.Similarity,
			rel.DetectedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
