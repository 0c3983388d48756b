package domain

import (
	"time"
)

// ObjectInfo is one entry of an object store listing.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// PageImage is one rasterized page. Number is 1-based and PNG holds the encoded image.
type PageImage struct {
	Number int
	PNG    []byte
	Width  int
	Height int
}

// Summary is the completion service's answer for one document.
// An empty Markdown means the service returned no usable content.
type Summary struct {
	Markdown string
	Model    string
	Provider string
}

// Analysis describes an analysis document that was written to the destination prefix.
type Analysis struct {
	SourceKey      string
	DestinationKey string
	Pages          int
	Model          string
	Duration       time.Duration
	CompletedAt    time.Time
}

// RenderConfig holds the presentation parameters used when rendering a summary.
// Values are passed through as given; no cross-field validation is done.
type RenderConfig struct {
	PaddingPx      int
	MarginTopCm    float64
	MarginBottomCm float64
	MarginLeftCm   float64
	MarginRightCm  float64

	FontFamily string
	FontSizePt int
	LineHeight float64

	TextColor   string
	H1Color     string
	H2Color     string
	H3Color     string
	AccentColor string

	PageWidthMm  int
	PageHeightMm int
}

// DefaultRenderConfig returns the A4 layout used for analysis documents.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PaddingPx:      20,
		MarginTopCm:    2.0,
		MarginBottomCm: 2.0,
		MarginLeftCm:   2.0,
		MarginRightCm:  2.0,
		FontFamily:     "Arial, sans-serif",
		FontSizePt:     12,
		LineHeight:     1.6,
		TextColor:      "#333",
		H1Color:        "#2c3e50",
		H2Color:        "#34495e",
		H3Color:        "#7f8c8d",
		AccentColor:    "#3498db",
		PageWidthMm:    210,
		PageHeightMm:   297,
	}
}

// RunStatus is a point-in-time view of a watcher run.
type RunStatus struct {
	Ready          bool              `json:"ready"`
	SourcePrefix   string            `json:"source_prefix"`
	Observed       int               `json:"observed"`
	Dispatched     int               `json:"dispatched"`
	Stored         int               `json:"stored"`
	Skipped        int               `json:"skipped"`
	Failed         int               `json:"failed"`
	FailuresByKind map[ErrorKind]int `json:"failures_by_kind"`
	StartedAt      time.Time         `json:"started_at"`
	LastPollAt     *time.Time        `json:"last_poll_at,omitempty"`
	LastStoredKey  string            `json:"last_stored_key,omitempty"`
}
