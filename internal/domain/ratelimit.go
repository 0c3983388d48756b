package domain

import (
	"fmt"
	"strconv"
	"time"
)

// defaultRetryAfter applies when a provider answers 429 without a usable Retry-After.
const defaultRetryAfter = 60 * time.Second

// RateLimitError indicates an OCR or LLM provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	retryAfter := time.Duration(retryAfterSecs) * time.Second
	if retryAfterSecs <= 0 {
		retryAfter = defaultRetryAfter
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: retryAfter,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
