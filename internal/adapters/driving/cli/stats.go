package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	stats := detectionService.Stats()

	if statsJSON {
		return outputJSON(cmd, stats)
	}

	cmd.Printf("Hash entries: %d\n", stats.HashEntries)
	cmd.Printf("LSH entries:  %d\n", stats.LSHEntries)
	cmd.Printf("Vectors:      %d\n", stats.Vectors)
	return nil
}
