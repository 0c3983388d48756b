package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/config"
	"docinsight/internal/summarizer"
)

func TestProvidersRegistered(t *testing.T) {
	for _, name := range []string{"azure_openai", "openai", "claude", "ollama"} {
		t.Run(name, func(t *testing.T) {
			s, err := summarizer.NewSummarizer(&config.ProviderConfig{Provider: name}, summarizer.DefaultTemplate)
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestNewFromConfig_UsesRegisteredProviders(t *testing.T) {
	chain, err := summarizer.NewFromConfig(&config.SummarizerConfig{
		Primary:   config.ProviderConfig{Provider: "azure_openai"},
		Secondary: config.ProviderConfig{Provider: "claude"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"azure_openai", "claude"}, chain.Names())
}

func TestNewNotifier(t *testing.T) {
	n, err := newNotifier(&config.EmailConfig{Provider: "noop"})
	require.NoError(t, err)
	assert.NotNil(t, n)

	n, err = newNotifier(&config.EmailConfig{})
	require.NoError(t, err)
	assert.NotNil(t, n)

	_, err = newNotifier(&config.EmailConfig{Provider: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown email provider")
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["watch"])
	assert.True(t, names["process"])
	assert.True(t, names["render"])
}
