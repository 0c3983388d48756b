package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoPages  = errors.New("document has no pages")
	ErrNotPDF   = errors.New("object is not a readable PDF")
	ErrEmptyKey = errors.New("object key is empty after normalization")
)

// ErrorKind tags a failure with the part of the system that produced it.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration"
	KindTransientFetch ErrorKind = "transient_fetch"
	KindRasterize      ErrorKind = "rasterize"
	KindExtraction     ErrorKind = "extraction"
	KindSummarization  ErrorKind = "summarization"
	KindRender         ErrorKind = "render"
	KindPersist        ErrorKind = "persist"
	KindUnknown        ErrorKind = "unknown"
)

// ConfigurationError reports required settings that are missing for a component.
// It is raised before any network call is attempted.
type ConfigurationError struct {
	Component string
	Missing   []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: missing %s", e.Component, strings.Join(e.Missing, ", "))
}

// NewConfigurationError returns nil when nothing is missing.
func NewConfigurationError(component string, missing ...string) *ConfigurationError {
	if len(missing) == 0 {
		return nil
	}
	return &ConfigurationError{Component: component, Missing: missing}
}

// PipelineError wraps a per-object failure with the object key and the stage it happened in.
type PipelineError struct {
	Kind  ErrorKind
	Key   string
	Stage string
	Page  int // 1-based; zero when the failure is not tied to a page
	Err   error
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Stage)
	if e.Key != "" {
		fmt.Fprintf(&b, " %q", e.Key)
	}
	if e.Page > 0 {
		fmt.Fprintf(&b, " page %d", e.Page)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError builds a PipelineError. Configuration errors keep their own kind
// regardless of the stage that surfaced them.
func NewPipelineError(kind ErrorKind, key, stage string, err error) *PipelineError {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		kind = KindConfiguration
	}
	return &PipelineError{Kind: kind, Key: key, Stage: stage, Err: err}
}

func TransientFetchError(key string, err error) *PipelineError {
	return NewPipelineError(KindTransientFetch, key, "fetch", err)
}

func RasterizeError(key string, err error) *PipelineError {
	return NewPipelineError(KindRasterize, key, "rasterize", err)
}

func ExtractionError(key string, page int, err error) *PipelineError {
	e := NewPipelineError(KindExtraction, key, "ocr", err)
	e.Page = page
	return e
}

func SummarizationError(key string, err error) *PipelineError {
	return NewPipelineError(KindSummarization, key, "summarize", err)
}

func RenderError(key string, err error) *PipelineError {
	return NewPipelineError(KindRender, key, "render", err)
}

func PersistError(key string, err error) *PipelineError {
	return NewPipelineError(KindPersist, key, "store", err)
}

// KindOf classifies err. Errors outside the taxonomy report KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return KindConfiguration
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUnknown
}

// StageOf returns the pipeline stage recorded on err, or "" if there is none.
func StageOf(err error) string {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Stage
	}
	return ""
}
