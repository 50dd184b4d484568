package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

// mockIngestService records uploads on a channel.
type mockIngestService struct {
	uploads chan string
}

func (m *mockIngestService) Upload(_ context.Context, filename, _ string) (*domain.Document, error) {
	m.uploads <- filename
	return &domain.Document{ID: domain.DocumentIDFromFilename(filename), State: domain.DocumentProcessed}, nil
}

// mockRegistryService records removals on a channel.
type mockRegistryService struct {
	removed chan string
}

func (m *mockRegistryService) List(_ context.Context) ([]domain.Document, error) { return nil, nil }

func (m *mockRegistryService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockRegistryService) Remove(_ context.Context, id string) error {
	m.removed <- id
	return nil
}

type watcherFixture struct {
	svc      *WatcherService
	ingest   *mockIngestService
	registry *mockRegistryService
	dir      string
}

func newWatcherFixture(t *testing.T) *watcherFixture {
	t.Helper()

	ingest := &mockIngestService{uploads: make(chan string, 8)}
	registry := &mockRegistryService{removed: make(chan string, 8)}
	dir := t.TempDir()

	return &watcherFixture{
		svc:      NewWatcherService(ingest, registry, dir, 10*time.Millisecond),
		ingest:   ingest,
		registry: registry,
		dir:      dir,
	}
}

func (f *watcherFixture) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func waitFor(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func assertQuiet(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case got := <-ch:
		t.Fatalf("unexpected event: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherService_CreateIngestsFile(t *testing.T) {
	f := newWatcherFixture(t)
	path := f.writeFile(t, "notes.txt", "fresh content")

	f.svc.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	waitFor(t, f.ingest.uploads, "notes.txt")
}

func TestWatcherService_WriteBurstDebouncedToOneIngest(t *testing.T) {
	f := newWatcherFixture(t)
	path := f.writeFile(t, "notes.txt", "content")

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.svc.handleEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Write})
	}

	waitFor(t, f.ingest.uploads, "notes.txt")
	assertQuiet(t, f.ingest.uploads)
}

func TestWatcherService_RemoveDeletesDocument(t *testing.T) {
	f := newWatcherFixture(t)

	f.svc.handleEvent(context.Background(), fsnotify.Event{
		Name: filepath.Join(f.dir, "old-guide.txt"),
		Op:   fsnotify.Remove,
	})

	waitFor(t, f.registry.removed, "old-guide")
}

func TestWatcherService_RenameCancelsPendingIngest(t *testing.T) {
	f := newWatcherFixture(t)
	path := f.writeFile(t, "moving.txt", "content")

	ctx := context.Background()
	f.svc.handleEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Create})
	f.svc.handleEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Rename})

	waitFor(t, f.registry.removed, "moving")
	assertQuiet(t, f.ingest.uploads)
}

func TestWatcherService_IgnoresHiddenFiles(t *testing.T) {
	f := newWatcherFixture(t)
	path := f.writeFile(t, ".hidden.swp", "editor state")

	f.svc.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	assertQuiet(t, f.ingest.uploads)
}

func TestWatcherService_IgnoresChmod(t *testing.T) {
	f := newWatcherFixture(t)
	path := f.writeFile(t, "notes.txt", "content")

	f.svc.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Chmod})

	assertQuiet(t, f.ingest.uploads)
}

func TestWatcherService_SkipsVanishedFile(t *testing.T) {
	f := newWatcherFixture(t)
	path := filepath.Join(f.dir, "ghost.txt")

	f.svc.handleEvent(context.Background(), fsnotify.Event{Name: path, Op: fsnotify.Create})

	assertQuiet(t, f.ingest.uploads)
}

func TestWatcherService_RunIngestsExistingFiles(t *testing.T) {
	f := newWatcherFixture(t)
	f.writeFile(t, "preexisting.txt", "already here")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.Run(ctx) }()

	waitFor(t, f.ingest.uploads, "preexisting.txt")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
