package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure WatcherService implements the interface.
var _ driving.WatchService = (*WatcherService)(nil)

// defaultDebounce coalesces the burst of Write events most editors and
// copies produce for a single file change.
const defaultDebounce = 500 * time.Millisecond

// WatcherService keeps the registry in sync with a documents directory:
// files created or modified there are ingested, files removed or renamed
// away are deleted from the registry.
type WatcherService struct {
	ingest   driving.IngestService
	registry driving.RegistryService
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcherService creates a watcher over dir. A zero debounce falls
// back to the default.
func NewWatcherService(
	ingest driving.IngestService,
	registry driving.RegistryService,
	dir string,
	debounce time.Duration,
) *WatcherService {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &WatcherService{
		ingest:   ingest,
		registry: registry,
		dir:      dir,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is cancelled. Files
// already present when the watch starts are ingested once up front.
func (s *WatcherService) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	logger.Section("Document Watch")
	logger.Info("Watching %s", s.dir)

	s.ingestExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			s.cancelPending()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent maps one filesystem event to a registry action. Create and
// Write schedule a debounced ingest; Remove and Rename delete the
// document immediately.
func (s *WatcherService) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		s.scheduleIngest(ctx, event.Name)

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		s.cancelIngest(event.Name)
		s.removeDocument(ctx, name)
	}
}

// scheduleIngest (re)arms the debounce timer for a path.
func (s *WatcherService) scheduleIngest(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[path]; ok {
		timer.Stop()
	}
	s.pending[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		s.ingestPath(ctx, path)
	})
}

func (s *WatcherService) cancelIngest(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[path]; ok {
		timer.Stop()
		delete(s.pending, path)
	}
}

func (s *WatcherService) cancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
	}
}

// ingestPath reads a file and uploads it. Watcher ingest is best effort:
// unreadable or unsupported files are logged and skipped.
func (s *WatcherService) ingestPath(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s failed: %v", path, err)
		return
	}

	doc, err := s.ingest.Upload(ctx, filepath.Base(path), string(data))
	if err != nil {
		logger.Warn("Auto-ingest of %s failed: %v", path, err)
		return
	}
	logger.Info("Auto-ingested %s as %s", filepath.Base(path), doc.ID)
}

// removeDocument drops the registry entry for a deleted file. An unknown
// document means the file never ingested, which is fine.
func (s *WatcherService) removeDocument(ctx context.Context, filename string) {
	id := domain.DocumentIDFromFilename(filename)
	if id == "" {
		return
	}

	if err := s.registry.Remove(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		logger.Warn("Removing %s after file deletion failed: %v", id, err)
		return
	}
	logger.Info("Removed %s after file deletion", id)
}

// ingestExisting uploads the files already in the directory.
func (s *WatcherService) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("Listing %s failed: %v", s.dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		s.ingestPath(ctx, filepath.Join(s.dir, entry.Name()))
	}
}
