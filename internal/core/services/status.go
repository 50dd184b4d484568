package services

import (
	"context"
	"time"

	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// pingTimeout bounds each provider reachability check so a hung
// provider cannot stall the whole report.
const pingTimeout = 5 * time.Second

// StatusService probes the configured AI providers. A misconfigured key
// or an unreachable host shows up here instead of as a mid-pipeline
// failure on the first upload.
type StatusService struct {
	embedding driven.EmbeddingService
	llm       driven.LLMService
}

// NewStatusService creates a new status service.
func NewStatusService(embedding driven.EmbeddingService, llm driven.LLMService) *StatusService {
	return &StatusService{
		embedding: embedding,
		llm:       llm,
	}
}

// Check probes every provider and returns one report per provider.
func (s *StatusService) Check(ctx context.Context) []driving.ProviderStatus {
	logger.Section("Provider Status")

	reports := []driving.ProviderStatus{
		{Name: "embedding", Model: s.embedding.ModelName(), Err: s.ping(ctx, s.embedding.Ping)},
		{Name: "llm", Model: s.llm.ModelName(), Err: s.ping(ctx, s.llm.Ping)},
	}

	for _, r := range reports {
		if r.Err != nil {
			logger.Warn("Provider %s (%s) unreachable: %v", r.Name, r.Model, r.Err)
		} else {
			logger.Debug("Provider %s (%s) reachable", r.Name, r.Model)
		}
	}
	return reports
}

func (s *StatusService) ping(ctx context.Context, probe func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return probe(ctx)
}
