package ollama_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/summarizer"
	"docinsight/internal/summarizer/ollama"
)

type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	hang     bool
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	return f.resp, f.err
}

func TestOllama_Summarize_Success(t *testing.T) {
	fake := &fakeModel{
		opts: llms.CallOptions{Temperature: 0.7},
		resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "# Local summary"}}},
	}
	s := ollama.NewWithModel(fake, "llama3", "TEMPLATE\n")

	out, err := s.Summarize(context.Background(), "page one")

	require.NoError(t, err)
	assert.Equal(t, "# Local summary", out.Markdown)
	assert.Equal(t, "llama3", out.Model)
	assert.Equal(t, config.ProviderOllama, out.Provider)
	assert.Equal(t, 0.0, fake.opts.Temperature)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.TextContent{Text: summarizer.SystemInstruction}, fake.messages[0].Parts[0])
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
	assert.Equal(t, llms.TextContent{Text: "TEMPLATE\nHere is the text:\n\npage one"}, fake.messages[1].Parts[0])
}

func TestOllama_Summarize_NoChoices(t *testing.T) {
	s := ollama.NewWithModel(&fakeModel{resp: &llms.ContentResponse{}}, "llama3", "")

	out, err := s.Summarize(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, out.Markdown)
}

func TestOllama_Summarize_Error(t *testing.T) {
	s := ollama.NewWithModel(&fakeModel{err: errors.New("connection refused")}, "llama3", "")

	_, err := s.Summarize(context.Background(), "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestOllama_New_MissingModel(t *testing.T) {
	s, err := ollama.New(&config.ProviderConfig{Provider: config.ProviderOllama}, "")
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), "text")

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"summarizer.ollama.model"}, cfgErr.Missing)
}

func TestOllama_Summarize_TimesOut(t *testing.T) {
	s := ollama.NewWithModel(&fakeModel{hang: true}, "llama3", "", ollama.WithTimeout(20*time.Millisecond))

	_, err := s.Summarize(context.Background(), "text")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOllama_New_UsesConfiguredTimeout(t *testing.T) {
	s, err := ollama.New(&config.ProviderConfig{
		Provider:    config.ProviderOllama,
		Model:       "llama3",
		Endpoint:    "http://127.0.0.1:1",
		TimeoutSecs: 7,
	}, "")

	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, s.Timeout())
}
