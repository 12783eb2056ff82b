package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// watchDebounce batches the write events editors emit while a file is
// still being copied or saved.
const watchDebounce = 500 * time.Millisecond

// watchExtensions are the formats picked up automatically.
var watchExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
	".pdf":  true,
	".docx": true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Auto-ingest files dropped into a directory",
	Long: `Watches a directory and ingests every supported file created
or modified in it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}

	dir := args[0]
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	var mu sync.Mutex
	pending := map[string]*time.Timer{}

	ingestLater := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[path]; ok {
			timer.Stop()
		}
		pending[path] = time.AfterFunc(watchDebounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			result, err := ingestor.IngestFile(ctx, path)
			if err != nil {
				logger.Warn("Ingest %s failed: %v", path, err)
				return
			}
			cmd.Printf("Ingested %s: %d chunks (document %s)\n",
				path, result.ChunksStored, result.DocumentID)
		})
	}

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
			ext := strings.ToLower(filepath.Ext(event.Name))
			if !watchExtensions[ext] {
				continue
			}
			ingestLater(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
