package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"docinsight/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Watch      WatchConfig
	Raster     RasterConfig
	OCR        OCRConfig
	Summarizer SummarizerConfig
	Render     domain.RenderConfig
	Log        LogConfig
	Health     HealthConfig
	Email      EmailConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// IsDevelopment reports whether the app runs in the development environment.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == domain.EnvDevelopment
}

// StorageConfig holds S3-compatible object store settings.
type StorageConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// WatchConfig holds the change-detection poller settings.
type WatchConfig struct {
	SourcePrefix       string `mapstructure:"source_prefix"`
	DestinationPrefix  string `mapstructure:"destination_prefix"`
	OutputSuffix       string `mapstructure:"output_suffix"`
	PollIntervalSecs   int    `mapstructure:"poll_interval_secs"`
	ProcessTimeoutSecs int    `mapstructure:"process_timeout_secs"`
}

// PollInterval returns the wait between poll cycles.
func (w *WatchConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalSecs) * time.Second
}

// ProcessTimeout returns the upper bound for processing one object.
func (w *WatchConfig) ProcessTimeout() time.Duration {
	return time.Duration(w.ProcessTimeoutSecs) * time.Second
}

// RasterConfig holds PDF rasterization settings.
type RasterConfig struct {
	Zoom     float64 `mapstructure:"zoom"`
	DebugDir string  `mapstructure:"debug_dir"`
}

// OCRConfig holds Azure AI Vision settings.
type OCRConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	APIKey            string `mapstructure:"api_key"`
	APIVersion        string `mapstructure:"api_version"`
	Language          string `mapstructure:"language"`
	TimeoutSecs       int    `mapstructure:"timeout_secs"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// ProviderConfig holds settings for a single completion provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	Deployment  string `mapstructure:"deployment"`
	Model       string `mapstructure:"model"`
	APIVersion  string `mapstructure:"api_version"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// DefaultProviderTimeout bounds one completion call when no timeout is configured.
const DefaultProviderTimeout = 120 * time.Second

// Timeout returns the upper bound for one completion call.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return DefaultProviderTimeout
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// SummarizerConfig holds completion settings with ordered provider fallback.
type SummarizerConfig struct {
	PromptFile string         `mapstructure:"prompt_file"`
	Primary    ProviderConfig `mapstructure:"primary"`
	Secondary  ProviderConfig `mapstructure:"secondary"`
	Tertiary   ProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured provider slots in fallback order.
// Slots without a provider name are left out.
func (s *SummarizerConfig) Providers() []*ProviderConfig {
	var out []*ProviderConfig
	for _, p := range []*ProviderConfig{&s.Primary, &s.Secondary, &s.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HealthConfig holds the status server settings. An empty port disables the server.
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// EmailConfig holds analysis notification settings.
type EmailConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// Load reads configuration from environment variables with the DOCINSIGHT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.environment", domain.EnvDevelopment)

	// Storage defaults
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.endpoint", "")

	// Watch defaults
	v.SetDefault("watch.source_prefix", "bronze/")
	v.SetDefault("watch.destination_prefix", "silver/")
	v.SetDefault("watch.output_suffix", "_analysis.pdf")
	v.SetDefault("watch.poll_interval_secs", 5)
	v.SetDefault("watch.process_timeout_secs", 300)

	// Raster defaults
	v.SetDefault("raster.zoom", 2.0)
	v.SetDefault("raster.debug_dir", "")

	// OCR defaults
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.api_version", "2024-02-01")
	v.SetDefault("ocr.language", "en")
	v.SetDefault("ocr.timeout_secs", 60)
	v.SetDefault("ocr.requests_per_minute", 0)

	// Summarizer defaults
	v.SetDefault("summarizer.prompt_file", "")
	v.SetDefault("summarizer.primary.provider", "azure_openai")
	v.SetDefault("summarizer.primary.deployment", "gpt-4")
	v.SetDefault("summarizer.primary.api_version", "2024-06-01")
	v.SetDefault("summarizer.primary.timeout_secs", 120)
	v.SetDefault("summarizer.secondary.provider", "")
	v.SetDefault("summarizer.secondary.timeout_secs", 120)
	v.SetDefault("summarizer.tertiary.provider", "")
	v.SetDefault("summarizer.tertiary.timeout_secs", 120)

	// Render defaults
	rd := domain.DefaultRenderConfig()
	v.SetDefault("render.padding_px", rd.PaddingPx)
	v.SetDefault("render.margin_top_cm", rd.MarginTopCm)
	v.SetDefault("render.margin_bottom_cm", rd.MarginBottomCm)
	v.SetDefault("render.margin_left_cm", rd.MarginLeftCm)
	v.SetDefault("render.margin_right_cm", rd.MarginRightCm)
	v.SetDefault("render.font_family", rd.FontFamily)
	v.SetDefault("render.font_size_pt", rd.FontSizePt)
	v.SetDefault("render.line_height", rd.LineHeight)
	v.SetDefault("render.text_color", rd.TextColor)
	v.SetDefault("render.h1_color", rd.H1Color)
	v.SetDefault("render.h2_color", rd.H2Color)
	v.SetDefault("render.h3_color", rd.H3Color)
	v.SetDefault("render.accent_color", rd.AccentColor)
	v.SetDefault("render.page_width_mm", rd.PageWidthMm)
	v.SetDefault("render.page_height_mm", rd.PageHeightMm)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("health.port", ":8080")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@docinsight.local")
	v.SetDefault("email.from_name", "docinsight")
	v.SetDefault("email.recipients", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"app.environment":                   "DOCINSIGHT_APP_ENVIRONMENT",
		"storage.region":                    "DOCINSIGHT_STORAGE_REGION",
		"storage.bucket":                    "DOCINSIGHT_STORAGE_BUCKET",
		"storage.endpoint":                  "DOCINSIGHT_STORAGE_ENDPOINT",
		"storage.access_key":                "DOCINSIGHT_STORAGE_ACCESS_KEY",
		"storage.secret_key":                "DOCINSIGHT_STORAGE_SECRET_KEY",
		"watch.source_prefix":               "DOCINSIGHT_WATCH_SOURCE_PREFIX",
		"watch.destination_prefix":          "DOCINSIGHT_WATCH_DESTINATION_PREFIX",
		"watch.output_suffix":               "DOCINSIGHT_WATCH_OUTPUT_SUFFIX",
		"watch.poll_interval_secs":          "DOCINSIGHT_WATCH_POLL_INTERVAL_SECS",
		"watch.process_timeout_secs":        "DOCINSIGHT_WATCH_PROCESS_TIMEOUT_SECS",
		"raster.zoom":                       "DOCINSIGHT_RASTER_ZOOM",
		"raster.debug_dir":                  "DOCINSIGHT_RASTER_DEBUG_DIR",
		"ocr.endpoint":                      "DOCINSIGHT_OCR_ENDPOINT",
		"ocr.api_key":                       "DOCINSIGHT_OCR_API_KEY",
		"ocr.api_version":                   "DOCINSIGHT_OCR_API_VERSION",
		"ocr.language":                      "DOCINSIGHT_OCR_LANGUAGE",
		"ocr.timeout_secs":                  "DOCINSIGHT_OCR_TIMEOUT_SECS",
		"ocr.requests_per_minute":           "DOCINSIGHT_OCR_REQUESTS_PER_MINUTE",
		"summarizer.prompt_file":            "DOCINSIGHT_SUMMARIZER_PROMPT_FILE",
		"summarizer.primary.provider":       "DOCINSIGHT_SUMMARIZER_PRIMARY_PROVIDER",
		"summarizer.primary.api_key":        "DOCINSIGHT_SUMMARIZER_PRIMARY_API_KEY",
		"summarizer.primary.endpoint":       "DOCINSIGHT_SUMMARIZER_PRIMARY_ENDPOINT",
		"summarizer.primary.deployment":     "DOCINSIGHT_SUMMARIZER_PRIMARY_DEPLOYMENT",
		"summarizer.primary.model":          "DOCINSIGHT_SUMMARIZER_PRIMARY_MODEL",
		"summarizer.primary.api_version":    "DOCINSIGHT_SUMMARIZER_PRIMARY_API_VERSION",
		"summarizer.primary.timeout_secs":   "DOCINSIGHT_SUMMARIZER_PRIMARY_TIMEOUT_SECS",
		"summarizer.secondary.provider":     "DOCINSIGHT_SUMMARIZER_SECONDARY_PROVIDER",
		"summarizer.secondary.api_key":      "DOCINSIGHT_SUMMARIZER_SECONDARY_API_KEY",
		"summarizer.secondary.endpoint":     "DOCINSIGHT_SUMMARIZER_SECONDARY_ENDPOINT",
		"summarizer.secondary.deployment":   "DOCINSIGHT_SUMMARIZER_SECONDARY_DEPLOYMENT",
		"summarizer.secondary.model":        "DOCINSIGHT_SUMMARIZER_SECONDARY_MODEL",
		"summarizer.secondary.api_version":  "DOCINSIGHT_SUMMARIZER_SECONDARY_API_VERSION",
		"summarizer.secondary.timeout_secs": "DOCINSIGHT_SUMMARIZER_SECONDARY_TIMEOUT_SECS",
		"summarizer.tertiary.provider":      "DOCINSIGHT_SUMMARIZER_TERTIARY_PROVIDER",
		"summarizer.tertiary.api_key":       "DOCINSIGHT_SUMMARIZER_TERTIARY_API_KEY",
		"summarizer.tertiary.endpoint":      "DOCINSIGHT_SUMMARIZER_TERTIARY_ENDPOINT",
		"summarizer.tertiary.deployment":    "DOCINSIGHT_SUMMARIZER_TERTIARY_DEPLOYMENT",
		"summarizer.tertiary.model":         "DOCINSIGHT_SUMMARIZER_TERTIARY_MODEL",
		"summarizer.tertiary.api_version":   "DOCINSIGHT_SUMMARIZER_TERTIARY_API_VERSION",
		"summarizer.tertiary.timeout_secs":  "DOCINSIGHT_SUMMARIZER_TERTIARY_TIMEOUT_SECS",
		"render.padding_px":                 "DOCINSIGHT_RENDER_PADDING_PX",
		"render.margin_top_cm":              "DOCINSIGHT_RENDER_MARGIN_TOP_CM",
		"render.margin_bottom_cm":           "DOCINSIGHT_RENDER_MARGIN_BOTTOM_CM",
		"render.margin_left_cm":             "DOCINSIGHT_RENDER_MARGIN_LEFT_CM",
		"render.margin_right_cm":            "DOCINSIGHT_RENDER_MARGIN_RIGHT_CM",
		"render.font_family":                "DOCINSIGHT_RENDER_FONT_FAMILY",
		"render.font_size_pt":               "DOCINSIGHT_RENDER_FONT_SIZE_PT",
		"render.line_height":                "DOCINSIGHT_RENDER_LINE_HEIGHT",
		"render.text_color":                 "DOCINSIGHT_RENDER_TEXT_COLOR",
		"render.h1_color":                   "DOCINSIGHT_RENDER_H1_COLOR",
		"render.h2_color":                   "DOCINSIGHT_RENDER_H2_COLOR",
		"render.h3_color":                   "DOCINSIGHT_RENDER_H3_COLOR",
		"render.accent_color":               "DOCINSIGHT_RENDER_ACCENT_COLOR",
		"render.page_width_mm":              "DOCINSIGHT_RENDER_PAGE_WIDTH_MM",
		"render.page_height_mm":             "DOCINSIGHT_RENDER_PAGE_HEIGHT_MM",
		"log.level":                         "DOCINSIGHT_LOG_LEVEL",
		"log.format":                        "DOCINSIGHT_LOG_FORMAT",
		"health.port":                       "DOCINSIGHT_HEALTH_PORT",
		"email.provider":                    "DOCINSIGHT_EMAIL_PROVIDER",
		"email.region":                      "DOCINSIGHT_EMAIL_REGION",
		"email.from_address":                "DOCINSIGHT_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "DOCINSIGHT_EMAIL_FROM_NAME",
		"email.recipients":                  "DOCINSIGHT_EMAIL_RECIPIENTS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.App = AppConfig{
		Environment: v.GetString("app.environment"),
	}
	cfg.Storage = StorageConfig{
		Region:    v.GetString("storage.region"),
		Bucket:    v.GetString("storage.bucket"),
		Endpoint:  v.GetString("storage.endpoint"),
		AccessKey: v.GetString("storage.access_key"),
		SecretKey: v.GetString("storage.secret_key"),
	}
	cfg.Watch = WatchConfig{
		SourcePrefix:       v.GetString("watch.source_prefix"),
		DestinationPrefix:  v.GetString("watch.destination_prefix"),
		OutputSuffix:       v.GetString("watch.output_suffix"),
		PollIntervalSecs:   v.GetInt("watch.poll_interval_secs"),
		ProcessTimeoutSecs: v.GetInt("watch.process_timeout_secs"),
	}
	cfg.Raster = RasterConfig{
		Zoom:     v.GetFloat64("raster.zoom"),
		DebugDir: v.GetString("raster.debug_dir"),
	}
	// Development runs keep the page images around for inspection.
	if cfg.Raster.DebugDir == "" && cfg.App.IsDevelopment() {
		cfg.Raster.DebugDir = "temp/images"
	}
	cfg.OCR = OCRConfig{
		Endpoint:          v.GetString("ocr.endpoint"),
		APIKey:            v.GetString("ocr.api_key"),
		APIVersion:        v.GetString("ocr.api_version"),
		Language:          v.GetString("ocr.language"),
		TimeoutSecs:       v.GetInt("ocr.timeout_secs"),
		RequestsPerMinute: v.GetInt("ocr.requests_per_minute"),
	}
	cfg.Summarizer = SummarizerConfig{
		PromptFile: v.GetString("summarizer.prompt_file"),
		Primary:    providerConfig(v, "summarizer.primary"),
		Secondary:  providerConfig(v, "summarizer.secondary"),
		Tertiary:   providerConfig(v, "summarizer.tertiary"),
	}
	cfg.Render = domain.RenderConfig{
		PaddingPx:      v.GetInt("render.padding_px"),
		MarginTopCm:    v.GetFloat64("render.margin_top_cm"),
		MarginBottomCm: v.GetFloat64("render.margin_bottom_cm"),
		MarginLeftCm:   v.GetFloat64("render.margin_left_cm"),
		MarginRightCm:  v.GetFloat64("render.margin_right_cm"),
		FontFamily:     v.GetString("render.font_family"),
		FontSizePt:     v.GetInt("render.font_size_pt"),
		LineHeight:     v.GetFloat64("render.line_height"),
		TextColor:      v.GetString("render.text_color"),
		H1Color:        v.GetString("render.h1_color"),
		H2Color:        v.GetString("render.h2_color"),
		H3Color:        v.GetString("render.h3_color"),
		AccentColor:    v.GetString("render.accent_color"),
		PageWidthMm:    v.GetInt("render.page_width_mm"),
		PageHeightMm:   v.GetInt("render.page_height_mm"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Health = HealthConfig{
		Port: v.GetString("health.port"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Recipients:  splitList(v.GetString("email.recipients")),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:    v.GetString(prefix + ".provider"),
		APIKey:      v.GetString(prefix + ".api_key"),
		Endpoint:    v.GetString(prefix + ".endpoint"),
		Deployment:  v.GetString(prefix + ".deployment"),
		Model:       v.GetString(prefix + ".model"),
		APIVersion:  v.GetString(prefix + ".api_version"),
		TimeoutSecs: v.GetInt(prefix + ".timeout_secs"),
	}
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
