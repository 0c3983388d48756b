package summarizer

import (
	"fmt"

	"docinsight/internal/config"
	"docinsight/internal/port"
)

// ProviderFactory is a function that creates a Summarizer from a provider config and prompt template.
type ProviderFactory func(cfg *config.ProviderConfig, template string) (port.Summarizer, error)

// registry of summarizer provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a summarizer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewSummarizer creates a Summarizer from a provider config using the registered factory.
func NewSummarizer(cfg *config.ProviderConfig, template string) (port.Summarizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown summarizer provider: %s", cfg.Provider)
	}
	return factory(cfg, template)
}

// NewFromConfig loads the prompt template and chains every configured provider slot
// behind a FallbackSummarizer, in primary, secondary, tertiary order.
func NewFromConfig(cfg *config.SummarizerConfig) (*FallbackSummarizer, error) {
	template, err := LoadTemplate(cfg.PromptFile)
	if err != nil {
		return nil, err
	}

	slots := cfg.Providers()
	if len(slots) == 0 {
		return nil, fmt.Errorf("no summarizer provider configured")
	}

	summarizers := make([]port.Summarizer, 0, len(slots))
	names := make([]string, 0, len(slots))
	for _, slot := range slots {
		s, err := NewSummarizer(slot, template)
		if err != nil {
			return nil, fmt.Errorf("creating %s summarizer: %w", slot.Provider, err)
		}
		summarizers = append(summarizers, s)
		names = append(names, slot.Provider)
	}
	return NewFallbackSummarizer(summarizers, names), nil
}
