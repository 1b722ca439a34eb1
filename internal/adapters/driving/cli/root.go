// Package cli provides the command-line interface for the duplicate
// detection pipeline.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/vectorizer/embedding"
	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/vectorizer/tfidf"
	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dedupe-cli/internal/core/services"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// timePrecision rounds latencies for human output.
const timePrecision = 10 * time.Microsecond

var (
	verbose   bool
	configDir string
	dataDir   string
	noCache   bool
)

// Services wired by initServices. Tests inject fakes directly.
var (
	appSettings       = domain.DefaultSettings()
	detectionService  driving.DetectionService
	comparisonService driving.ComparisonService
	detectionStore    driven.DetectionStore
)

var rootCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Detect duplicate documents",
	Long: `dedupe is a multi-stage duplicate detection pipeline for text documents.
Documents are checked against an index using exact content hashing,
MinHash/LSH set similarity, and vector cosine similarity, in increasing
cost order with early exit on the first match.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// version and help need no services
		switch cmd.Name() {
		case "version", "help":
			return nil
		}
		return initServices(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.dedupe)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.dedupe/data)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

// ExecuteContext runs the root command with the given context. The
// context carries interrupt cancellation, which the long-running
// commands (watch, batch) honour.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initServices loads settings and wires the adapters into the
// services. Already-configured services (tests) are left alone.
func initServices(ctx context.Context) error {
	if detectionService != nil {
		return nil
	}

	settingsStore, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	appSettings = settings

	vectorizer, err := buildVectorizer(settings)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening detection store: %w", err)
	}

	var c driven.Cache
	if settings.CacheAddr != "" && !noCache {
		c = redis.NewCache(settings.CacheAddr, settings.CacheTimeout)
	}

	detectionStore = store
	detectionService = services.NewDetectorService(settings, vectorizer, store, c)
	comparisonService = services.NewCompareService(settings, vectorizer, c)

	if err := detectionService.LoadIndexes(ctx); err != nil {
		logger.Warn("index warm-up failed, starting with empty indexes: %v", err)
	}

	return nil
}

// buildVectorizer constructs the vectorizer selected in settings.
func buildVectorizer(settings domain.Settings) (driven.Vectorizer, error) {
	switch settings.Vectorizer {
	case domain.VectorizerTFIDF:
		return tfidf.NewVectorizer(settings.VectorDimensions), nil
	case domain.VectorizerEmbedding:
		return embedding.NewVectorizer(embedding.Config{
			BaseURL: settings.EmbeddingURL,
			Model:   settings.EmbeddingModel,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown vectorizer %q", domain.ErrInvalidInput, settings.Vectorizer)
	}
}

// readDocument reads a document from a file path, or stdin when the
// path is "-".
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// methodList formats detection methods for human output.
func methodList(methods []domain.DetectionMethod) string {
	if len(methods) == 0 {
		return "none"
	}
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
