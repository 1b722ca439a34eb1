package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

var (
	watchExt string
	watchAdd bool
)

// watchSettle is the per-file debounce window: processing runs once a
// file has seen no events for this long, so partially written files
// are read once, complete.
const watchSettle = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and check new documents",
	Long: `Watches a directory and checks every created or modified matching
file against the index. With --add, unique documents are indexed under
their file name, so later arrivals are checked against them. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchExt, "ext", ".txt", "file extension to include")
	watchCmd.Flags().BoolVar(&watchAdd, "add", false, "index unique documents as they arrive")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if detectionService == nil {
		return errors.New("detection service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for %s files (Ctrl-C to stop)...\n", dir, watchExt)
	return watchLoop(cmd.Context(), cmd, watcher)
}

// watchLoop processes filesystem events until the context is done.
// Events are debounced per file: each Create/Write resets that file's
// settle timer, and the file is processed once the timer fires, so
// event bursts from a single save collapse into one check and a slow
// settle never stalls events for other files.
func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	settled := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchableName(filepath.Base(event.Name)) {
				continue
			}

			path := event.Name
			if t, pending := timers[path]; pending {
				t.Reset(watchSettle)
				continue
			}
			timers[path] = time.AfterFunc(watchSettle, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})
		case path := <-settled:
			delete(timers, path)
			if !watchableFile(path) {
				continue
			}
			if err := processWatchedFile(ctx, cmd, path); err != nil {
				logger.Warn("processing %s: %v", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// watchableName filters on the file name alone: visible, watched
// extension.
func watchableName(base string) bool {
	return !strings.HasPrefix(base, ".") && strings.HasSuffix(base, watchExt)
}

// watchableFile additionally checks the path is an existing regular
// file, after the settle window so the file is complete.
func watchableFile(path string) bool {
	if !watchableName(filepath.Base(path)) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// processWatchedFile checks one file and optionally indexes it.
func processWatchedFile(ctx context.Context, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	docID := filepath.Base(path)
	opts := domain.DefaultDetectionOptions()
	opts.DocID = docID

	result := detectionService.FindDuplicates(ctx, string(data), opts)
	switch {
	case result.Error != "":
		cmd.Printf("%s: rejected (%s)\n", docID, result.Error)
		return nil
	case result.IsDuplicate:
		cmd.Printf("%s: duplicate of %s (%s, %.3f)\n",
			docID, result.MatchID, result.Method, result.Similarity)
		return nil
	}

	if !watchAdd {
		cmd.Printf("%s: unique\n", docID)
		return nil
	}

	addResult := detectionService.AddDocument(ctx, docID, string(data))
	if !addResult.Added {
		return fmt.Errorf("indexing: %s", addResult.Error)
	}
	cmd.Printf("%s: unique, indexed\n", docID)
	return nil
}
