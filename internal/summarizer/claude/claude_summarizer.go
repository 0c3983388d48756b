package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/summarizer"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-sonnet-4-20250514"
	maxTokens      = 8192
)

// Summarizer implements port.Summarizer using the Anthropic Messages API.
type Summarizer struct {
	model    string
	template string
	missing  []string
	llm      llms.Model
	initErr  error
}

// New creates a Claude-based summarizer. cfg.Endpoint overrides the API base URL.
func New(cfg *config.ProviderConfig, template string) *Summarizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	required := *cfg
	required.Provider = config.ProviderClaude
	s := &Summarizer{
		model:    model,
		template: template,
		missing:  required.Missing("summarizer." + config.ProviderClaude),
	}
	if len(s.missing) > 0 {
		return s
	}

	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}
	llm, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(model),
		anthropic.WithBaseURL(strings.TrimRight(base, "/")),
		anthropic.WithHTTPClient(summarizer.NewHTTPDoer(config.ProviderClaude, cfg.Timeout())),
	)
	if err != nil {
		s.initErr = fmt.Errorf("failed to initialize claude: %w", err)
		return s
	}
	s.llm = llm
	return s
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*domain.Summary, error) {
	if cfgErr := domain.NewConfigurationError(config.ProviderClaude, s.missing...); cfgErr != nil {
		return nil, cfgErr
	}
	if s.initErr != nil {
		return nil, s.initErr
	}

	// The system instruction travels as the top-level system field.
	messages := summarizer.BuildMessages(s.template, text)
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, messages[0].Content),
		llms.TextParts(llms.ChatMessageTypeHuman, messages[1].Content),
	}

	resp, err := s.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("claude chat error: %w", err)
	}

	// Each text block of the reply is a separate choice.
	var b strings.Builder
	truncated := false
	for _, choice := range resp.Choices {
		if choice == nil {
			continue
		}
		b.WriteString(choice.Content)
		truncated = truncated || choice.StopReason == "max_tokens"
	}
	if truncated {
		zap.L().Warn("summarizer: completion truncated", zap.String("provider", config.ProviderClaude), zap.String("model", s.model))
	}
	return &domain.Summary{Markdown: b.String(), Model: s.model, Provider: config.ProviderClaude}, nil
}
