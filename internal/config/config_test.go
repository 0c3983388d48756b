package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/config"
	"docinsight/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCINSIGHT_APP_ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "bronze/", cfg.Watch.SourcePrefix)
	assert.Equal(t, "silver/", cfg.Watch.DestinationPrefix)
	assert.Equal(t, "_analysis.pdf", cfg.Watch.OutputSuffix)
	assert.Equal(t, 5, cfg.Watch.PollIntervalSecs)
	assert.Equal(t, 2.0, cfg.Raster.Zoom)
	assert.Empty(t, cfg.Raster.DebugDir)
	assert.Equal(t, "en", cfg.OCR.Language)
	assert.Equal(t, config.ProviderAzureOpenAI, cfg.Summarizer.Primary.Provider)
	assert.Equal(t, "gpt-4", cfg.Summarizer.Primary.Deployment)
	assert.Equal(t, domain.DefaultRenderConfig(), cfg.Render)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Empty(t, cfg.Email.Recipients)
}

func TestLoad_DevelopmentEnablesDebugDir(t *testing.T) {
	t.Setenv("DOCINSIGHT_APP_ENVIRONMENT", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "temp/images", cfg.Raster.DebugDir)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCINSIGHT_WATCH_SOURCE_PREFIX", "incoming/")
	t.Setenv("DOCINSIGHT_WATCH_POLL_INTERVAL_SECS", "30")
	t.Setenv("DOCINSIGHT_SUMMARIZER_SECONDARY_PROVIDER", "claude")
	t.Setenv("DOCINSIGHT_SUMMARIZER_SECONDARY_API_KEY", "sk-ant")
	t.Setenv("DOCINSIGHT_EMAIL_RECIPIENTS", "a@example.com, ,b@example.com")
	t.Setenv("DOCINSIGHT_RENDER_MARGIN_LEFT_CM", "-1.5")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "incoming/", cfg.Watch.SourcePrefix)
	assert.Equal(t, 30, cfg.Watch.PollIntervalSecs)
	assert.Equal(t, "claude", cfg.Summarizer.Secondary.Provider)
	assert.Equal(t, "sk-ant", cfg.Summarizer.Secondary.APIKey)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.Recipients)
	assert.Equal(t, -1.5, cfg.Render.MarginLeftCm)
}

func TestSummarizerConfig_Providers_SkipsEmptySlots(t *testing.T) {
	cfg := config.SummarizerConfig{
		Primary:  config.ProviderConfig{Provider: "azure_openai"},
		Tertiary: config.ProviderConfig{Provider: "ollama"},
	}

	providers := cfg.Providers()

	require.Len(t, providers, 2)
	assert.Equal(t, "azure_openai", providers[0].Provider)
	assert.Equal(t, "ollama", providers[1].Provider)
}

func TestProviderConfig_Timeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&config.ProviderConfig{TimeoutSecs: 30}).Timeout())
	assert.Equal(t, config.DefaultProviderTimeout, (&config.ProviderConfig{}).Timeout())
	assert.Equal(t, config.DefaultProviderTimeout, (&config.ProviderConfig{TimeoutSecs: -1}).Timeout())
}

func TestProviderConfig_Missing(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ProviderConfig
		want []string
	}{
		{
			name: "azure all missing",
			cfg:  config.ProviderConfig{Provider: config.ProviderAzureOpenAI},
			want: []string{"p.api_key", "p.endpoint", "p.deployment"},
		},
		{
			name: "azure complete",
			cfg:  config.ProviderConfig{Provider: config.ProviderAzureOpenAI, APIKey: "k", Endpoint: "https://x", Deployment: "gpt-4"},
		},
		{
			name: "claude without key",
			cfg:  config.ProviderConfig{Provider: config.ProviderClaude},
			want: []string{"p.api_key"},
		},
		{
			name: "ollama needs model only",
			cfg:  config.ProviderConfig{Provider: config.ProviderOllama},
			want: []string{"p.model"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Missing("p"))
		})
	}
}

func validConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Bucket: "docs"},
		Watch: config.WatchConfig{
			SourcePrefix:      "bronze/",
			DestinationPrefix: "silver/",
			PollIntervalSecs:  5,
		},
		OCR: config.OCRConfig{Endpoint: "https://vision.example.com", APIKey: "vk"},
		Summarizer: config.SummarizerConfig{
			Primary: config.ProviderConfig{
				Provider:   config.ProviderAzureOpenAI,
				APIKey:     "ok",
				Endpoint:   "https://openai.example.com",
				Deployment: "gpt-4",
			},
		},
		Email: config.EmailConfig{Provider: "noop"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingCredentialsAreConfigurationErrors(t *testing.T) {
	cfg := validConfig()
	cfg.OCR.APIKey = ""
	cfg.Summarizer.Primary.Endpoint = ""

	err := cfg.Validate()

	require.Error(t, err)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.Contains(t, err.Error(), "ocr.api_key")
	assert.Contains(t, err.Error(), "summarizer.primary.endpoint")
}

func TestValidate_SecondarySlotIsQualified(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Secondary = config.ProviderConfig{Provider: config.ProviderOpenAI}

	err := cfg.Validate()

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"summarizer.secondary.api_key"}, cfgErr.Missing)
}

func TestValidate_NoProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Primary = config.ProviderConfig{}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizer.primary.provider")
}

func TestValidate_SamePrefixes(t *testing.T) {
	cfg := validConfig()
	cfg.Watch.DestinationPrefix = "bronze/"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidate_SESNeedsRecipients(t *testing.T) {
	cfg := validConfig()
	cfg.Email.Provider = "ses"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email.recipients")
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := config.InitLogger(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	assert.NoError(t, config.InitLogger(config.LogConfig{Level: "info", Format: "console"}))
}
