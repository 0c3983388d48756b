package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/summarizer"
)

const defaultServerURL = "http://localhost:11434"

// Generator is the part of llms.Model the summarizer calls.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Summarizer implements port.Summarizer with a local model served by Ollama.
type Summarizer struct {
	llm      Generator
	model    string
	template string
	timeout  time.Duration
	missing  []string
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// New creates an Ollama-backed summarizer. cfg.Endpoint is the Ollama server URL.
func New(cfg *config.ProviderConfig, template string) (*Summarizer, error) {
	required := *cfg
	required.Provider = config.ProviderOllama
	s := &Summarizer{
		model:    cfg.Model,
		template: template,
		timeout:  cfg.Timeout(),
		missing:  required.Missing("summarizer." + config.ProviderOllama),
	}
	if len(s.missing) > 0 {
		return s, nil
	}

	serverURL := cfg.Endpoint
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	llm, err := ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	s.llm = llm
	return s, nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(llm Generator, model, template string, opts ...Option) *Summarizer {
	s := &Summarizer{llm: llm, model: model, template: template, timeout: config.DefaultProviderTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout reports the bound applied to each completion call.
func (s *Summarizer) Timeout() time.Duration {
	return s.timeout
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*domain.Summary, error) {
	if cfgErr := domain.NewConfigurationError(config.ProviderOllama, s.missing...); cfgErr != nil {
		return nil, cfgErr
	}

	messages := summarizer.BuildMessages(s.template, text)
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, messages[0].Content),
		llms.TextParts(llms.ChatMessageTypeHuman, messages[1].Content),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.llm.GenerateContent(ctx, content, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}

	out := &domain.Summary{Model: s.model, Provider: config.ProviderOllama}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return out, nil
	}
	out.Markdown = resp.Choices[0].Content
	return out, nil
}
