package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/summarizer"
)

const (
	defaultBaseURL         = "https://api.openai.com/v1"
	defaultModel           = "gpt-4o"
	defaultAzureAPIVersion = "2024-06-01"
)

// errNoChoices marks a 200 response without choices. langchaingo reports
// that case as an unexported error, so it is detected before decoding.
var errNoChoices = errors.New("completion has no choices")

// Summarizer implements port.Summarizer against the Chat Completions API,
// either on OpenAI directly or on an Azure OpenAI deployment.
type Summarizer struct {
	provider string
	model    string
	template string
	missing  []string
	llm      llms.Model
	initErr  error
}

// NewAzure creates a summarizer for an Azure OpenAI deployment.
func NewAzure(cfg *config.ProviderConfig, template string) *Summarizer {
	s := newSummarizer(cfg, template, config.ProviderAzureOpenAI, cfg.Deployment)
	if len(s.missing) > 0 {
		return s
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}
	s.connect(cfg,
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithAPIVersion(apiVersion),
		openai.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")),
	)
	return s
}

// NewOpenAI creates a summarizer for the OpenAI API. cfg.Endpoint overrides the API base URL.
func NewOpenAI(cfg *config.ProviderConfig, template string) *Summarizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	s := newSummarizer(cfg, template, config.ProviderOpenAI, model)
	if len(s.missing) > 0 {
		return s
	}
	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}
	s.connect(cfg,
		openai.WithAPIType(openai.APITypeOpenAI),
		openai.WithBaseURL(strings.TrimRight(base, "/")),
	)
	return s
}

func newSummarizer(cfg *config.ProviderConfig, template, provider, model string) *Summarizer {
	required := *cfg
	required.Provider = provider
	return &Summarizer{
		provider: provider,
		model:    model,
		template: template,
		missing:  required.Missing("summarizer." + provider),
	}
}

func (s *Summarizer) connect(cfg *config.ProviderConfig, opts ...openai.Option) {
	doer := choicesDoer{next: summarizer.NewHTTPDoer(s.provider, cfg.Timeout())}
	opts = append(opts,
		openai.WithToken(cfg.APIKey),
		openai.WithModel(s.model),
		openai.WithHTTPClient(doer),
	)
	llm, err := openai.New(opts...)
	if err != nil {
		s.initErr = fmt.Errorf("failed to initialize %s: %w", s.provider, err)
		return
	}
	s.llm = llm
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*domain.Summary, error) {
	if cfgErr := domain.NewConfigurationError(s.provider, s.missing...); cfgErr != nil {
		return nil, cfgErr
	}
	if s.initErr != nil {
		return nil, s.initErr
	}

	messages := summarizer.BuildMessages(s.template, text)
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, messages[0].Content),
		llms.TextParts(llms.ChatMessageTypeHuman, messages[1].Content),
	}

	out := &domain.Summary{Model: s.model, Provider: s.provider}
	resp, err := s.llm.GenerateContent(ctx, content, llms.WithTemperature(0))
	if errors.Is(err, errNoChoices) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s chat error: %w", s.provider, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return out, nil
	}
	choice := resp.Choices[0]
	if choice.StopReason == "length" {
		zap.L().Warn("summarizer: completion truncated", zap.String("provider", s.provider), zap.String("model", s.model))
	}
	out.Markdown = choice.Content
	return out, nil
}

// choicesDoer reads successful responses ahead of langchaingo and reports
// an empty choices list as errNoChoices.
type choicesDoer struct {
	next *summarizer.HTTPDoer
}

func (d choicesDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var peek struct {
		Choices []json.RawMessage `json:"choices"`
	}
	if json.Unmarshal(body, &peek) == nil && len(peek.Choices) == 0 {
		return nil, errNoChoices
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
