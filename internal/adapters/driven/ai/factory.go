// Package ai provides factory functions for creating AI service adapters
// from configuration.
package ai

import (
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/custodia-labs/testcraft-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/testcraft-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/testcraft-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/testcraft-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/testcraft-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
)

// Supported provider names.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// CreateEmbeddingService builds the embedding provider named under
// "embedding.provider". An empty provider defaults to a local Ollama
// instance, which needs no credentials.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	switch provider {
	case "", ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Timeout:    timeoutFromConfig(cfg, "embedding.timeout_seconds"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     apiKey(cfg, "embedding.api_key", "OPENAI_API_KEY"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// CreateLLMService builds the completion provider named under
// "llm.provider". An empty provider defaults to a local Ollama instance.
func CreateLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString("llm.provider")
	switch provider {
	case "", ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
			Timeout: timeoutFromConfig(cfg, "llm.timeout_seconds"),
		}), nil

	case ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  apiKey(cfg, "llm.api_key", "OPENAI_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
			Timeout: timeoutFromConfig(cfg, "llm.timeout_seconds"),
		})

	case ProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  apiKey(cfg, "llm.api_key", "ANTHROPIC_API_KEY"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
			Timeout: timeoutFromConfig(cfg, "llm.timeout_seconds"),
		})

	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// apiKey reads a credential from config, falling back to the
// conventional environment variable.
func apiKey(cfg driven.ConfigStore, key, envVar string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

// timeoutFromConfig reads a timeout in seconds; zero lets the adapter
// apply its own default.
func timeoutFromConfig(cfg driven.ConfigStore, key string) time.Duration {
	return time.Duration(cfg.GetInt(key)) * time.Second
}
