package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driven"
	"github.com/custodia-labs/testcraft-cli/internal/core/ports/driving"
	"github.com/custodia-labs/testcraft-cli/internal/logger"
)

// Ensure GenerationService implements the interface.
var _ driving.GenerationService = (*GenerationService)(nil)

// Generation defaults, overridable through the config file.
const (
	defaultTopK            = 5
	defaultSimilarityFloor = 0.0
	defaultMaxContextChars = 4000
	defaultMaxTokens       = 1024
	defaultTemperature     = 0.2

	// maxStructureChars caps the code-structure block appended to
	// test-case prompts.
	maxStructureChars = 2000

	noDocContext  = "(no documentation context available)"
	noCodeContext = "(no code structure available)"
)

// GenerationConfig tunes retrieval and completion behaviour.
// Zero values fall back to defaults, except Temperature where zero is
// a meaningful setting.
type GenerationConfig struct {
	// TopK is how many chunks to retrieve per request.
	TopK int

	// SimilarityFloor drops retrieval hits scoring below it.
	SimilarityFloor float64

	// MaxContextChars bounds the assembled prompt context.
	MaxContextChars int

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature controls completion randomness. Zero is honoured as
	// fully deterministic sampling; a negative value selects the
	// default.
	Temperature float64
}

// GenerationService grounds chat answers and test-case generation in
// retrieved document context. Each request makes exactly one completion
// call; provider failures surface as ErrGenerationFailed, never as a
// silent retry.
type GenerationService struct {
	retriever *Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore
	docStore  driven.DocumentStore
	cfg       GenerationConfig
}

// NewGenerationService creates a new generation service.
func NewGenerationService(
	retriever *Retriever,
	llm driven.LLMService,
	prompts driven.PromptStore,
	docStore driven.DocumentStore,
	cfg GenerationConfig,
) *GenerationService {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.SimilarityFloor < 0 {
		cfg.SimilarityFloor = defaultSimilarityFloor
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = defaultMaxContextChars
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = defaultTemperature
	}
	return &GenerationService{
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		docStore:  docStore,
		cfg:       cfg,
	}
}

// Chat answers a question using retrieved document context. With an
// empty corpus or no hits above the floor, the answer is generated from
// a no-context prompt and carries zero confidence and no sources.
func (s *GenerationService) Chat(ctx context.Context, question string) (*domain.GenerationResult, error) {
	logger.Section("Chat Generation")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	assembled, err := s.retrieveContext(ctx, question)
	if err != nil {
		return nil, err
	}

	var prompt string
	if assembled.ChunksIncluded == 0 {
		logger.Debug("No context retrieved, answering ungrounded")
		template, err := s.prompts.Load(driven.PromptChatNoContext)
		if err != nil {
			return nil, fmt.Errorf("load prompt: %w", err)
		}
		prompt = fmt.Sprintf(template, question)
	} else {
		template, err := s.prompts.Load(driven.PromptChat)
		if err != nil {
			return nil, fmt.Errorf("load prompt: %w", err)
		}
		prompt = fmt.Sprintf(template, assembled.Text, question)
	}

	answer, err := s.chatComplete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	logger.Info("Chat answered with %d source(s), confidence %d", len(assembled.Sources), assembled.Confidence)
	return &domain.GenerationResult{
		Answer:     answer,
		Sources:    assembled.Sources,
		Confidence: assembled.Confidence,
		Mode:       domain.ModeChat,
	}, nil
}

// GenerateTestCase produces structured test-case text for a feature
// description, grounded in retrieved documentation plus a structure
// summary of any ingested source code.
func (s *GenerationService) GenerateTestCase(ctx context.Context, description string) (*domain.GenerationResult, error) {
	logger.Section("Test Case Generation")

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: empty description", domain.ErrInvalidInput)
	}

	assembled, err := s.retrieveContext(ctx, description)
	if err != nil {
		return nil, err
	}

	docContext := assembled.Text
	if assembled.ChunksIncluded == 0 {
		docContext = noDocContext
	}

	codeContext := s.codeStructureContext(ctx)
	if codeContext == "" {
		codeContext = noCodeContext
	}

	template, err := s.prompts.Load(driven.PromptTestCase)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, description, docContext, codeContext)

	answer, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	logger.Info("Test case generated with %d source(s), confidence %d", len(assembled.Sources), assembled.Confidence)
	return &domain.GenerationResult{
		Answer:     answer,
		Sources:    assembled.Sources,
		Confidence: assembled.Confidence,
		Mode:       domain.ModeTestCase,
	}, nil
}

// retrieveContext runs retrieval and assembly for a request.
func (s *GenerationService) retrieveContext(ctx context.Context, query string) (domain.AssembledContext, error) {
	result, err := s.retriever.Retrieve(ctx, query, s.cfg.TopK, s.cfg.SimilarityFloor)
	if err != nil {
		return domain.AssembledContext{}, fmt.Errorf("retrieve context: %w", err)
	}
	return AssembleContext(*result, s.cfg.MaxContextChars), nil
}

// complete makes the single completion call for a request.
func (s *GenerationService) complete(ctx context.Context, prompt string) (string, error) {
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

// chatComplete makes the single completion call for a chat request. It
// goes through the provider's conversational endpoint so chat-native
// APIs receive a proper user turn.
func (s *GenerationService) chatComplete(ctx context.Context, prompt string) (string, error) {
	messages := []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}
	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

// codeStructureContext summarises the structure of ingested code
// documents: imports, function, class and scenario declarations. The
// summary is advisory; failures degrade to an empty summary rather than
// failing the generation request.
func (s *GenerationService) codeStructureContext(ctx context.Context) string {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		logger.Warn("Listing documents for code structure failed: %v", err)
		return ""
	}

	var builder strings.Builder
	for _, doc := range docs {
		if doc.Format != domain.FormatCode || doc.State != domain.DocumentProcessed {
			continue
		}

		chunks, err := s.docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			logger.Warn("Loading chunks of %s for code structure failed: %v", doc.ID, err)
			continue
		}

		lines := structureLines(chunks)
		if len(lines) == 0 {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(doc.Filename)
		builder.WriteString(":\n")
		for _, line := range lines {
			if builder.Len()+len(line)+3 > maxStructureChars {
				return builder.String()
			}
			builder.WriteString("  ")
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// structurePrefixes mark declaration lines worth surfacing in the
// structure summary.
var structurePrefixes = []string{
	"import ", "from ", "package ",
	"def ", "class ", "func ", "function ",
	"Feature:", "Scenario:",
}

func structureLines(chunks []domain.Chunk) []string {
	var lines []string
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		for _, line := range strings.Split(chunk.Text, "\n") {
			trimmed := strings.TrimSpace(line)
			for _, prefix := range structurePrefixes {
				if strings.HasPrefix(trimmed, prefix) && !seen[trimmed] {
					seen[trimmed] = true
					lines = append(lines, trimmed)
					break
				}
			}
		}
	}
	return lines
}
