package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// --- Mock implementations of the driven ports ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Known texts map to fixed vectors; everything else gets the fallback.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	pingErr  error

	mu      sync.Mutex
	entered chan struct{} // closed once EmbedBatch is entered, when set
	block   chan struct{} // EmbedBatch waits on this, when set
	batches int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	entered, block := m.entered, m.block
	m.entered = nil
	m.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing, recording
// mutations and serving canned query hits.
type mockVectorIndex struct {
	mu        sync.Mutex
	upserts   map[string][]driven.VectorEntry
	deleted   []string
	hits      []driven.VectorHit
	upsertErr error
	deleteErr error
	queryErr  error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{upserts: make(map[string][]driven.VectorEntry)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, documentID string, entries []driven.VectorEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[documentID] = entries
	return nil
}

func (m *mockVectorIndex) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, documentID)
	delete(m.upserts, documentID)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, k int, _ *driven.QueryFilter) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Rebuild(_ context.Context, _ []driven.VectorEntry) error { return nil }

func (m *mockVectorIndex) Size(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entries := range m.upserts {
		n += len(entries)
	}
	return n, nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockLLMService implements driven.LLMService, recording the last
// prompt and sampling options of either completion path.
type mockLLMService struct {
	response    string
	generateErr error
	pingErr     error

	mu              sync.Mutex
	lastPrompt      string
	lastTemperature float64
	lastMaxTokens   int
	calls           int
	chatCalls       int
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.lastTemperature = opts.Temperature
	m.lastMaxTokens = opts.MaxTokens
	m.calls++
	m.mu.Unlock()

	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	if len(messages) > 0 {
		m.lastPrompt = messages[len(messages)-1].Content
	}
	m.lastTemperature = opts.Temperature
	m.lastMaxTokens = opts.MaxTokens
	m.calls++
	m.chatCalls++
	m.mu.Unlock()

	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return m.pingErr }

func (m *mockLLMService) Close() error { return nil }

// mockPromptStore implements driven.PromptStore with in-memory templates.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptChat:          "Context:\n%s\n\nQuestion: %s",
		driven.PromptChatNoContext: "No context. Question: %s",
		driven.PromptTestCase:      "Describe: %s\n\nDocs:\n%s\n\nCode:\n%s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockSandbox implements driven.Sandbox, recording what it was asked to run.
type mockSandbox struct {
	result  *domain.ExecutionResult
	execErr error

	mu       sync.Mutex
	lastLang domain.ScriptLanguage
	calls    int
}

func (m *mockSandbox) Execute(_ context.Context, _ string, lang domain.ScriptLanguage, _ domain.ExecutionLimits) (*domain.ExecutionResult, error) {
	m.mu.Lock()
	m.lastLang = lang
	m.calls++
	m.mu.Unlock()

	if m.execErr != nil {
		return nil, m.execErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.ExecutionResult{Success: true}, nil
}

func (m *mockSandbox) SupportedLanguages() []domain.ScriptLanguage {
	return []domain.ScriptLanguage{domain.LanguagePython, domain.LanguageShell}
}
