package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeJSON bool

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a document from the index",
	Long: `Retracts a document from every detection sub-index and deletes its
stored records. Removing an unknown identifier is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	result := detectionService.RemoveDocument(cmd.Context(), args[0])

	if removeJSON {
		return outputJSON(cmd, result)
	}

	if result.Error != "" {
		return fmt.Errorf("remove failed: %s", result.Error)
	}

	if result.Removed {
		cmd.Printf("Removed %s (%s)\n", result.DocID, methodList(result.Methods))
	} else {
		cmd.Printf("Document %s was not indexed.\n", result.DocID)
	}
	return nil
}
