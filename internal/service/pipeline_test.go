package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/port"
	"docinsight/internal/service"
	"docinsight/mocks"
)

var rawPDF = []byte("%PDF-1.7 test document")

type pipelineMocks struct {
	raster *mocks.MockRasterizer
	ocr    *mocks.MockTextExtractor
	sum    *mocks.MockSummarizer
	render *mocks.MockRenderer
	store  *mocks.MockObjectStorage
}

func newTestPipeline() (*service.Pipeline, *pipelineMocks) {
	m := &pipelineMocks{
		raster: new(mocks.MockRasterizer),
		ocr:    new(mocks.MockTextExtractor),
		sum:    new(mocks.MockSummarizer),
		render: new(mocks.MockRenderer),
		store:  new(mocks.MockObjectStorage),
	}
	p := service.NewPipeline(m.raster, m.ocr, m.sum, m.render, m.store, service.PipelineConfig{
		DestinationPrefix: "silver/",
		OutputSuffix:      "_analysis.pdf",
		Render:            domain.DefaultRenderConfig(),
	})
	return p, m
}

func threePages() []domain.PageImage {
	return []domain.PageImage{
		{Number: 1, PNG: []byte("img1")},
		{Number: 2, PNG: []byte("img2")},
		{Number: 3, PNG: []byte("img3")},
	}
}

// expectOCR makes each page image return the given lines.
func (m *pipelineMocks) expectOCR(pages map[string][]string) {
	for img, lines := range pages {
		m.ocr.On("ExtractLines", mock.Anything, []byte(img)).Return(lines, nil)
	}
}

func TestPipeline_Process_Success(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages(), nil)
	m.expectOCR(map[string][]string{"img1": {"p1"}, "img2": {"p2"}, "img3": {"p3"}})
	m.sum.On("Summarize", mock.Anything, "p1\np2\np3").
		Return(&domain.Summary{Markdown: "# Report", Model: "gpt-4", Provider: "azure_openai"}, nil)
	m.render.On("Render", "# Report", domain.DefaultRenderConfig()).Return([]byte("%PDF-out"), nil)

	var uploaded port.UploadInput
	var body []byte
	m.store.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			uploaded = args.Get(1).(port.UploadInput)
			body, _ = io.ReadAll(uploaded.Body)
		}).
		Return(nil)

	key, err := p.Process(context.Background(), rawPDF, "report")

	require.NoError(t, err)
	assert.Equal(t, "silver/report_analysis.pdf", key)
	assert.Equal(t, "silver/report_analysis.pdf", uploaded.Key)
	assert.Equal(t, domain.ContentTypePDF, uploaded.ContentType)
	assert.Equal(t, []byte("%PDF-out"), body)
	m.sum.AssertExpectations(t)
}

func TestPipeline_Run_ReportsDetails(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"only page"}})
	m.sum.On("Summarize", mock.Anything, "only page").
		Return(&domain.Summary{Markdown: "ok", Model: "gpt-4", Provider: "azure_openai"}, nil)
	m.render.On("Render", "ok", mock.Anything).Return([]byte("pdf"), nil)
	m.store.On("Upload", mock.Anything, mock.Anything).Return(nil)

	res, err := p.Run(context.Background(), rawPDF, "memo")

	require.NoError(t, err)
	assert.Equal(t, "silver/memo_analysis.pdf", res.DestinationKey)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "gpt-4", res.Model)
	assert.Equal(t, "azure_openai", res.Provider)
}

func TestPipeline_Process_PreservesPageAndLineOrder(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages(), nil)
	m.expectOCR(map[string][]string{
		"img1": {"Title", "Intro line"},
		"img2": {},
		"img3": {"Closing"},
	})
	m.sum.On("Summarize", mock.Anything, "Title\nIntro line\n\nClosing").
		Return(&domain.Summary{}, nil)

	key, err := p.Process(context.Background(), rawPDF, "report")

	require.NoError(t, err)
	assert.Empty(t, key)
	m.sum.AssertExpectations(t)
}

func TestPipeline_Process_EmptySummaryStoresNothing(t *testing.T) {
	tests := []struct {
		name    string
		summary *domain.Summary
	}{
		{"nil summary", nil},
		{"empty markdown", &domain.Summary{Model: "gpt-4"}},
		{"whitespace markdown", &domain.Summary{Markdown: " \n\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, m := newTestPipeline()
			m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
			m.expectOCR(map[string][]string{"img1": {"text"}})
			if tt.summary == nil {
				m.sum.On("Summarize", mock.Anything, "text").Return(nil, nil)
			} else {
				m.sum.On("Summarize", mock.Anything, "text").Return(tt.summary, nil)
			}

			key, err := p.Process(context.Background(), rawPDF, "report")

			require.NoError(t, err)
			assert.Empty(t, key)
			m.render.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
			m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestPipeline_Process_RasterizeFailure(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(nil, domain.ErrNotPDF)

	_, err := p.Process(context.Background(), rawPDF, "report")

	require.Error(t, err)
	assert.Equal(t, domain.KindRasterize, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrNotPDF)
	m.ocr.AssertNotCalled(t, "ExtractLines", mock.Anything, mock.Anything)
}

func TestPipeline_Process_ExtractionFailureAbortsDocument(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages(), nil)
	m.ocr.On("ExtractLines", mock.Anything, []byte("img1")).Return([]string{"p1"}, nil)
	m.ocr.On("ExtractLines", mock.Anything, []byte("img2")).Return(nil, errors.New("vision 500"))

	_, err := p.Process(context.Background(), rawPDF, "report")

	require.Error(t, err)
	var pErr *domain.PipelineError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, domain.KindExtraction, pErr.Kind)
	assert.Equal(t, 2, pErr.Page)
	assert.Equal(t, "report", pErr.Key)
	m.ocr.AssertNotCalled(t, "ExtractLines", mock.Anything, []byte("img3"))
	m.sum.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPipeline_Process_SummarizationFailure(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"text"}})
	m.sum.On("Summarize", mock.Anything, "text").Return(nil, errors.New("status 500"))

	_, err := p.Process(context.Background(), rawPDF, "report")

	assert.Equal(t, domain.KindSummarization, domain.KindOf(err))
	assert.Equal(t, "summarize", domain.StageOf(err))
	m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPipeline_Process_SummarizerNotConfigured(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"text"}})
	m.sum.On("Summarize", mock.Anything, "text").
		Return(nil, domain.NewConfigurationError("azure_openai", "summarizer.azure_openai.api_key"))

	_, err := p.Process(context.Background(), rawPDF, "report")

	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.Equal(t, "summarize", domain.StageOf(err))
}

func TestPipeline_Process_RenderFailure(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"text"}})
	m.sum.On("Summarize", mock.Anything, "text").Return(&domain.Summary{Markdown: "# x"}, nil)
	m.render.On("Render", "# x", mock.Anything).Return(nil, errors.New("layout failed"))

	_, err := p.Process(context.Background(), rawPDF, "report")

	assert.Equal(t, domain.KindRender, domain.KindOf(err))
	m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPipeline_Process_PersistFailure(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"text"}})
	m.sum.On("Summarize", mock.Anything, "text").Return(&domain.Summary{Markdown: "# x"}, nil)
	m.render.On("Render", "# x", mock.Anything).Return([]byte("pdf"), nil)
	m.store.On("Upload", mock.Anything, mock.Anything).Return(errors.New("access denied"))

	key, err := p.Process(context.Background(), rawPDF, "report")

	assert.Empty(t, key)
	assert.Equal(t, domain.KindPersist, domain.KindOf(err))
	assert.Contains(t, err.Error(), "access denied")
}

func TestPipeline_Process_OverwritesOnRerun(t *testing.T) {
	p, m := newTestPipeline()
	m.raster.On("Rasterize", mock.Anything, rawPDF).Return(threePages()[:1], nil)
	m.expectOCR(map[string][]string{"img1": {"text"}})
	m.sum.On("Summarize", mock.Anything, "text").Return(&domain.Summary{Markdown: "# x"}, nil)
	m.render.On("Render", "# x", mock.Anything).Return([]byte("pdf"), nil)
	m.store.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == "silver/report_analysis.pdf"
	})).Return(nil).Twice()

	first, err := p.Process(context.Background(), rawPDF, "report")
	require.NoError(t, err)
	second, err := p.Process(context.Background(), rawPDF, "report")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	m.store.AssertExpectations(t)
}
