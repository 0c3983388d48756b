package render

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	ptToMm = 25.4 / 72.0
	// pxToCm converts CSS pixels at 72 DPI to centimeters.
	pxToCm = 0.0353
)

// rgb is an 8-bit color.
type rgb struct{ r, g, b int }

var black = rgb{0, 0, 0}

// parseHexColor accepts #rgb and #rrggbb. Anything else reports ok=false.
func parseHexColor(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return black, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return black, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}

func colorOr(s string, fallback rgb) rgb {
	if c, ok := parseHexColor(s); ok {
		return c
	}
	return fallback
}

// fontFamily maps the first family of a CSS font-family list onto an embedded family.
// Serif requests fall back to the proportional face.
func fontFamily(family string) string {
	first := strings.ToLower(strings.TrimSpace(strings.Split(family, ",")[0]))
	first = strings.Trim(first, `"'`)
	switch first {
	case "courier", "courier new", "consolas", "menlo", "monospace", "go mono":
		return familyMono
	default:
		return familyProportional
	}
}

// marginMm returns a page margin in millimeters, padding included.
func marginMm(cm float64, paddingPx int) float64 {
	return (cm + float64(paddingPx)*pxToCm) * 10
}

func setTextColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setDrawColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(c.r, c.g, c.b)
}

func setFillColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}
