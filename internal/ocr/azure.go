package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"docinsight/internal/config"
	"docinsight/internal/domain"
)

const (
	analyzePath       = "/computervision/imageanalysis:analyze"
	defaultAPIVersion = "2024-02-01"
	defaultLanguage   = "en"
	featureRead       = "read"
)

// AzureVision implements port.TextExtractor using the Azure AI Vision Image Analysis API.
type AzureVision struct {
	apiKey     string
	endpoint   string
	apiVersion string
	language   string
	missing    []string
	limiter    *rate.Limiter
	client     *http.Client
}

// NewAzureVision creates an extractor from config. Missing credentials are not an error here;
// they are reported by ExtractLines before any request is made.
func NewAzureVision(cfg *config.OCRConfig) *AzureVision {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return &AzureVision{
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiVersion: apiVersion,
		language:   language,
		missing:    cfg.Missing(),
		limiter:    limiter,
		client:     &http.Client{Timeout: timeout},
	}
}

// analyzeResponse models the parts of the Image Analysis response we read.
type analyzeResponse struct {
	ModelVersion string `json:"modelVersion"`
	ReadResult   *struct {
		Blocks []struct {
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"blocks"`
	} `json:"readResult"`
}

// ExtractLines sends image to the READ feature and returns the recognized lines,
// block by block, in the order the service reports them.
func (a *AzureVision) ExtractLines(ctx context.Context, image []byte) ([]string, error) {
	if cfgErr := domain.NewConfigurationError("ocr", a.missing...); cfgErr != nil {
		return nil, cfgErr
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for ocr rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.analyzeURL(), bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling azure vision API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("azure vision API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, domain.NewRateLimitError("azure_vision", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	lines := make([]string, 0)
	blocks := 0
	if parsed.ReadResult != nil {
		blocks = len(parsed.ReadResult.Blocks)
		for _, block := range parsed.ReadResult.Blocks {
			for _, line := range block.Lines {
				lines = append(lines, line.Text)
			}
		}
	}

	zap.L().Debug("ocr: completed",
		zap.Int("blocks", blocks),
		zap.Int("lines", len(lines)),
		zap.String("model_version", parsed.ModelVersion),
	)
	return lines, nil
}

func (a *AzureVision) analyzeURL() string {
	q := url.Values{}
	q.Set("features", featureRead)
	q.Set("language", a.language)
	q.Set("api-version", a.apiVersion)
	return a.endpoint + analyzePath + "?" + q.Encode()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
