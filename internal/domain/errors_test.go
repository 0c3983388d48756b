package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
)

func TestNewConfigurationError_NilWhenNothingMissing(t *testing.T) {
	assert.Nil(t, domain.NewConfigurationError("ocr"))
}

func TestConfigurationError_Message(t *testing.T) {
	err := domain.NewConfigurationError("ocr", "ocr.api_key", "ocr.endpoint")
	assert.Equal(t, "ocr is not configured: missing ocr.api_key, ocr.endpoint", err.Error())
}

func TestPipelineError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.ExtractionError("bronze/a.pdf", 3, cause)

	assert.Equal(t, `[extraction] ocr "bronze/a.pdf" page 3: connection reset`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, err.Page)
}

func TestNewPipelineError_ConfigurationCauseKeepsKind(t *testing.T) {
	cfgErr := domain.NewConfigurationError("ocr", "ocr.api_key")
	err := domain.ExtractionError("bronze/a.pdf", 1, fmt.Errorf("extracting: %w", cfgErr))

	assert.Equal(t, domain.KindConfiguration, err.Kind)
	assert.Equal(t, "ocr", err.Stage)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), domain.KindUnknown},
		{"configuration", domain.NewConfigurationError("llm", "api_key"), domain.KindConfiguration},
		{"fetch", domain.TransientFetchError("k", errors.New("404")), domain.KindTransientFetch},
		{"rasterize", domain.RasterizeError("k", domain.ErrNotPDF), domain.KindRasterize},
		{"summarize wrapped", fmt.Errorf("outer: %w", domain.SummarizationError("k", errors.New("x"))), domain.KindSummarization},
		{"render", domain.RenderError("k", errors.New("x")), domain.KindRender},
		{"persist", domain.PersistError("k", errors.New("x")), domain.KindPersist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestStageOf(t *testing.T) {
	require.Equal(t, "store", domain.StageOf(domain.PersistError("k", errors.New("x"))))
	require.Equal(t, "", domain.StageOf(errors.New("x")))
}
