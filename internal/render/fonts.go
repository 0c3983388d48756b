package render

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Embedded font families. Both are registered as UTF-8 fonts so text keeps
// its code points in the PDF text layer.
const (
	familyProportional = "go"
	familyMono         = "gomono"
)

// faces holds the TrueType data per family and fpdf style ("", "B", "I", "BI").
var faces = map[string]map[string][]byte{
	familyProportional: {
		"":   goregular.TTF,
		"B":  gobold.TTF,
		"I":  goitalic.TTF,
		"BI": gobolditalic.TTF,
	},
	familyMono: {
		"":   gomono.TTF,
		"B":  gomonobold.TTF,
		"I":  gomonoitalic.TTF,
		"BI": gomonobolditalic.TTF,
	},
}

// registerFace adds a face to pdf on first use so only the faces a document
// actually sets end up embedded. fpdf ignores repeated registrations.
func registerFace(pdf *fpdf.Fpdf, family, style string) {
	pdf.AddUTF8FontFromBytes(family, style, faces[family][style])
}

var coverageFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(goregular.TTF)
})

// glyphs tracks which runes of a document the embedded fonts cannot draw.
type glyphs struct {
	font    *sfnt.Font
	buf     sfnt.Buffer
	missing map[rune]struct{}
}

func newGlyphs() *glyphs {
	g := &glyphs{missing: map[rune]struct{}{}}
	if f, err := coverageFont(); err == nil {
		g.font = f
	}
	return g
}

// clean prepares s for an fpdf UTF-8 font. fpdf keeps per-rune widths for the
// Basic Multilingual Plane only, so runes beyond it become U+FFFD.
func (g *glyphs) clean(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r = utf8.RuneError
		}
		if g.font != nil && !unicode.IsControl(r) && !unicode.IsSpace(r) {
			if _, seen := g.missing[r]; !seen {
				if idx, err := g.font.GlyphIndex(&g.buf, r); err != nil || idx == 0 {
					g.missing[r] = struct{}{}
				}
			}
		}
		out = append(out, r)
	}
	return string(out)
}

func (g *glyphs) missingCount() int {
	return len(g.missing)
}
