package config

import (
	"errors"
	"fmt"

	"docinsight/internal/domain"
)

// Provider names understood by the summarizer factory.
const (
	ProviderAzureOpenAI = "azure_openai"
	ProviderOpenAI      = "openai"
	ProviderClaude      = "claude"
	ProviderOllama      = "ollama"
)

// Missing returns the settings a provider needs but does not have, each
// qualified with prefix (for example "summarizer.primary").
func (p *ProviderConfig) Missing(prefix string) []string {
	var missing []string
	need := func(val, name string) {
		if val == "" {
			missing = append(missing, prefix+"."+name)
		}
	}
	switch p.Provider {
	case ProviderAzureOpenAI:
		need(p.APIKey, "api_key")
		need(p.Endpoint, "endpoint")
		need(p.Deployment, "deployment")
	case ProviderOpenAI, ProviderClaude:
		need(p.APIKey, "api_key")
	case ProviderOllama:
		need(p.Model, "model")
	}
	return missing
}

// Missing returns the OCR settings that are required but empty.
func (o *OCRConfig) Missing() []string {
	var missing []string
	if o.APIKey == "" {
		missing = append(missing, "ocr.api_key")
	}
	if o.Endpoint == "" {
		missing = append(missing, "ocr.endpoint")
	}
	return missing
}

// Validate checks the settings every collaborator needs before the poller may start.
// Missing credentials are reported together as *domain.ConfigurationError values.
func (c *Config) Validate() error {
	var errs []error

	if c.Storage.Bucket == "" {
		errs = append(errs, domain.NewConfigurationError("storage", "storage.bucket"))
	}
	if c.Watch.SourcePrefix == c.Watch.DestinationPrefix {
		errs = append(errs, fmt.Errorf("watch.source_prefix and watch.destination_prefix must differ (both %q)", c.Watch.SourcePrefix))
	}
	if c.Watch.PollIntervalSecs <= 0 {
		errs = append(errs, fmt.Errorf("watch.poll_interval_secs must be positive, got %d", c.Watch.PollIntervalSecs))
	}
	if missing := c.OCR.Missing(); len(missing) > 0 {
		errs = append(errs, domain.NewConfigurationError("ocr", missing...))
	}

	providers := c.Summarizer.Providers()
	if len(providers) == 0 {
		errs = append(errs, domain.NewConfigurationError("summarizer", "summarizer.primary.provider"))
	}
	slots := map[*ProviderConfig]string{
		&c.Summarizer.Primary:   "summarizer.primary",
		&c.Summarizer.Secondary: "summarizer.secondary",
		&c.Summarizer.Tertiary:  "summarizer.tertiary",
	}
	for _, p := range providers {
		if missing := p.Missing(slots[p]); len(missing) > 0 {
			errs = append(errs, domain.NewConfigurationError("summarizer "+p.Provider, missing...))
		}
	}

	if c.Email.Provider == "ses" && len(c.Email.Recipients) == 0 {
		errs = append(errs, domain.NewConfigurationError("email", "email.recipients"))
	}

	return errors.Join(errs...)
}
