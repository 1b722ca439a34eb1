package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var addJSON bool

var addCmd = &cobra.Command{
	Use:   "add [id] [file]",
	Short: "Add a document to the index",
	Long: `Adds a document to every detection sub-index and persists it.
Re-adding an existing identifier overwrites its entries, so retrying a
partially failed add is safe. Use "-" to read the document from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	docID := args[0]
	text, err := readDocument(cmd, args[1])
	if err != nil {
		return err
	}

	result := detectionService.AddDocument(cmd.Context(), docID, text)

	if addJSON {
		return outputJSON(cmd, result)
	}

	if !result.Added {
		if len(result.Methods) > 0 {
			cmd.Printf("Partially added %s (succeeded: %s)\n", result.DocID, methodList(result.Methods))
		}
		return fmt.Errorf("add failed: %s", result.Error)
	}

	cmd.Printf("Added %s (%s)\n", result.DocID, methodList(result.Methods))
	return nil
}
