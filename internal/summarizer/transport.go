package summarizer

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docinsight/internal/domain"
)

const maxErrorBody = 500

// HTTPDoer is the HTTP client handed to the langchaingo provider clients.
// They flatten non-200 responses into plain errors, so a 429 is turned into
// a domain.RateLimitError here, while the Retry-After header is still visible.
type HTTPDoer struct {
	provider string
	client   *http.Client
}

// NewHTTPDoer creates an HTTPDoer whose requests are bounded by timeout.
func NewHTTPDoer(provider string, timeout time.Duration) *HTTPDoer {
	return &HTTPDoer{provider: provider, client: &http.Client{Timeout: timeout}}
}

// Do sends req and maps a 429 response to a domain.RateLimitError.
func (d *HTTPDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	baseErr := fmt.Errorf("%s API error (status %d): %s", d.provider, resp.StatusCode, strings.TrimSpace(string(body)))
	retryAfter := domain.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
	return nil, domain.NewRateLimitError(d.provider, baseErr, retryAfter)
}

// Timeout reports the per-request bound.
func (d *HTTPDoer) Timeout() time.Duration {
	return d.client.Timeout
}
