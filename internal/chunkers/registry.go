package chunkers

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/testcraft-cli/internal/chunkers/code"
	"github.com/custodia-labs/testcraft-cli/internal/chunkers/markdown"
	"github.com/custodia-labs/testcraft-cli/internal/chunkers/plaintext"
	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ChunkerRegistry = (*Registry)(nil)

// Registry maps document formats to chunking strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[domain.DocumentFormat]driven.ChunkerStrategy
}

// NewRegistry creates a registry with the default strategies registered:
// plaintext, markdown, and code (which also handles BDD scenario text).
func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[domain.DocumentFormat]driven.ChunkerStrategy),
	}
	r.Register(domain.FormatPlainText, plaintext.New())
	r.Register(domain.FormatMarkdown, markdown.New())
	r.Register(domain.FormatCode, code.New())
	r.Register(domain.FormatBDD, code.New())
	return r
}

// ForFormat returns the strategy for a format.
func (r *Registry) ForFormat(format domain.DocumentFormat) (driven.ChunkerStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, ok := r.strategies[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return strategy, nil
}

// Register binds a strategy to a format, replacing any previous one.
func (r *Registry) Register(format domain.DocumentFormat, strategy driven.ChunkerStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[format] = strategy
}
