package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docinsight/internal/domain"
)

func TestRateLimitError(t *testing.T) {
	base := errors.New("status 429")
	err := domain.NewRateLimitError("azure_openai", base, 15)

	assert.Equal(t, 15*time.Second, err.RetryAfter)
	assert.Equal(t, "azure_openai", err.Provider)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "azure_openai rate limited (retry after 15s)")
}

func TestRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := domain.NewRateLimitError("claude", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"30", 30},
		{"abc", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseRetryAfterHeader(tt.in))
		})
	}
}
