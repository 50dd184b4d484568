// Command testcraft is the entry point: it loads configuration, wires
// the driven adapters into the core services and hands control to the
// cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/testcraft-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/testcraft-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/testcraft-cli/internal/adapters/driven/sandbox"
	"github.com/custodia-labs/testcraft-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/testcraft-cli/internal/adapters/driven/vector/bruteforce"
	"github.com/custodia-labs/testcraft-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/testcraft-cli/internal/chunkers"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/services"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// version is stamped at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer store.Close()
	docStore := store.DocumentStore()

	index := bruteforce.NewIndex()
	defer index.Close()
	if err := rebuildIndex(context.Background(), docStore, index); err != nil {
		return fmt.Errorf("rebuild vector index: %w", err)
	}

	embedding, err := ai.CreateEmbeddingService(cfg)
	if err != nil {
		return err
	}
	defer embedding.Close()

	llm, err := ai.CreateLLMService(cfg)
	if err != nil {
		return err
	}
	defer llm.Close()

	runner := sandbox.NewRunner(sandbox.Config{
		Timeout: time.Duration(cfg.GetInt("sandbox.timeout_seconds")) * time.Second,
	})

	ingest := services.NewIngestService(docStore, chunkers.NewRegistry(), embedding, index)
	retriever := services.NewRetriever(docStore, embedding, index)
	registry := services.NewRegistryService(docStore, index)
	generation := services.NewGenerationService(retriever, llm, prompts, docStore, services.GenerationConfig{
		TopK:            cfg.GetInt("retrieval.top_k"),
		SimilarityFloor: getFloat(cfg, "retrieval.similarity_floor", 0),
		MaxContextChars: cfg.GetInt("generation.max_context_chars"),
		MaxTokens:       cfg.GetInt("generation.max_tokens"),
		// -1 means unset, so an explicit temperature of 0 survives.
		Temperature: getFloat(cfg, "generation.temperature", -1),
	})
	execution := services.NewExecutionService(runner, time.Duration(cfg.GetInt("sandbox.timeout_seconds"))*time.Second)
	status := services.NewStatusService(embedding, llm)

	watchDir, err := documentsDir(cfg)
	if err != nil {
		return err
	}
	watcher := services.NewWatcherService(ingest, registry, watchDir, 0)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingest:     ingest,
		Registry:   registry,
		Generation: generation,
		Execution:  execution,
		Watch:      watcher,
		Status:     status,
	})

	return cli.Execute()
}

// rebuildIndex restores the in-memory vector index from the store. Only
// chunks that were embedded make it back in.
func rebuildIndex(ctx context.Context, docStore driven.DocumentStore, index driven.VectorIndex) error {
	records, err := docStore.AllChunks(ctx)
	if err != nil {
		return err
	}

	entries := make([]driven.VectorEntry, 0, len(records))
	for _, record := range records {
		if len(record.Chunk.Embedding) == 0 {
			continue
		}
		entries = append(entries, driven.VectorEntry{
			ChunkID:    record.Chunk.ID,
			DocumentID: record.Chunk.DocumentID,
			Filename:   record.Filename,
			Embedding:  record.Chunk.Embedding,
		})
	}

	if err := index.Rebuild(ctx, entries); err != nil {
		return err
	}
	logger.Debug("Restored %d index entries from store", len(entries))
	return nil
}

// documentsDir resolves the watched documents directory, creating it if
// needed. Defaults to ~/.testcraft/documents.
func documentsDir(cfg driven.ConfigStore) (string, error) {
	dir := cfg.GetString("watch.documents_dir")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".testcraft", "documents")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create documents dir: %w", err)
	}
	return dir, nil
}

// getFloat reads a float config value; TOML numbers may decode as int64.
// Absent or non-numeric values yield the fallback.
func getFloat(cfg driven.ConfigStore, key string, fallback float64) float64 {
	v, ok := cfg.Get(key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return fallback
	}
}
