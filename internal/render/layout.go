package render

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"docinsight/internal/domain"
)

const (
	indentStep  = 6.0 // mm per list or quote level
	cellPadding = 1.5 // mm inside table cells
	codeShade   = 0xf4
)

// headingScale mirrors the browser defaults for h1..h6 relative to body text.
var headingScale = [...]float64{1: 2.0, 2: 1.5, 3: 1.17, 4: 1.0, 5: 0.83, 6: 0.67}

var (
	tableBorder = rgb{0xbd, 0xc3, 0xc7}
	tableHeader = rgb{0xec, 0xf0, 0xf1}
)

// writer walks a goldmark AST and emits it onto an fpdf document.
type writer struct {
	pdf    *fpdf.Fpdf
	src    []byte
	glyphs *glyphs
	family string
	base   float64 // body font size in points
	size   float64 // current font size in points
	height float64 // current line height as a multiple of size
	left   float64 // page left margin in mm
	indent float64

	text, h1, h2, h3, accent, fg rgb

	bold, italic, code, underline, strike int
}

func newWriter(pdf *fpdf.Fpdf, src []byte, cfg domain.RenderConfig) *writer {
	size := float64(cfg.FontSizePt)
	if size <= 0 {
		size = 12
	}
	height := cfg.LineHeight
	if height <= 0 {
		height = 1.6
	}
	left, _, _, _ := pdf.GetMargins()
	w := &writer{
		pdf:    pdf,
		src:    src,
		glyphs: newGlyphs(),
		family: fontFamily(cfg.FontFamily),
		base:   size,
		size:   size,
		height: height,
		left:   left,
		text:   colorOr(cfg.TextColor, black),
		accent: colorOr(cfg.AccentColor, black),
	}
	w.h1 = colorOr(cfg.H1Color, w.text)
	w.h2 = colorOr(cfg.H2Color, w.text)
	w.h3 = colorOr(cfg.H3Color, w.text)
	w.fg = w.text
	w.applyFont()
	return w
}

func (w *writer) lineHeight() float64 {
	return w.size * w.height * ptToMm
}

// contentWidth is the width between the page margins, ignoring indentation.
func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	_, _, right, _ := w.pdf.GetMargins()
	return pageW - w.left - right
}

func (w *writer) applyFont() {
	family := w.family
	if w.code > 0 {
		family = familyMono
	}
	var style strings.Builder
	if w.bold > 0 {
		style.WriteByte('B')
	}
	if w.italic > 0 {
		style.WriteByte('I')
	}
	registerFace(w.pdf, family, style.String())
	if w.underline > 0 {
		style.WriteByte('U')
	}
	if w.strike > 0 {
		style.WriteByte('S')
	}
	w.pdf.SetFont(family, style.String(), w.size)
	setTextColor(w.pdf, w.fg)
}

// setIndent moves the left margin so that wrapped lines align with the current block.
func (w *writer) setIndent(indent float64) {
	w.indent = indent
	w.pdf.SetLeftMargin(w.left + indent)
	w.pdf.SetX(w.left + indent)
}

func (w *writer) gap(scale float64) {
	w.pdf.Ln(w.lineHeight() * scale)
}

func (w *writer) blocks(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c)
	}
}

func (w *writer) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node)
	case *ast.Paragraph:
		w.inline(node)
		w.pdf.Ln(w.lineHeight())
		w.gap(0.5)
	case *ast.TextBlock:
		w.inline(node)
		w.pdf.Ln(w.lineHeight())
	case *ast.List:
		w.list(node)
	case *ast.Blockquote:
		w.blockquote(node)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.codeBlock(n)
	case *ast.ThematicBreak:
		w.rule()
	case *east.Table:
		w.table(node)
	case *ast.HTMLBlock:
		// raw HTML is not rendered
	default:
		w.blocks(n)
	}
}

func (w *writer) heading(h *ast.Heading) {
	level := h.Level
	if level < 1 || level >= len(headingScale) {
		level = len(headingScale) - 1
	}
	color := w.h3
	switch level {
	case 1:
		color = w.h1
	case 2:
		color = w.h2
	}

	prevSize, prevFg := w.size, w.fg
	w.size = w.base * headingScale[level]
	if level > 3 && w.size < w.base {
		w.size = w.base
	}
	w.fg = color
	_, top, _, _ := w.pdf.GetMargins()
	if w.pdf.GetY() > top+0.1 {
		w.gap(0.3)
	}

	w.bold++
	w.inline(h)
	w.bold--
	w.pdf.Ln(w.lineHeight())

	if level == 1 {
		y := w.pdf.GetY() + 0.5
		setDrawColor(w.pdf, w.accent)
		w.pdf.SetLineWidth(0.7)
		w.pdf.Line(w.left+w.indent, y, w.left+w.contentWidth(), y)
		w.pdf.SetY(y + 2)
	}

	w.size, w.fg = prevSize, prevFg
	w.applyFont()
	w.gap(0.25)
}

func (w *writer) list(l *ast.List) {
	number := l.Start
	if number == 0 {
		number = 1
	}
	outer := w.indent
	w.setIndent(outer + indentStep)
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d%c", number, l.Marker)
			number++
		}
		w.applyFont()
		w.pdf.SetX(w.left + outer)
		w.pdf.CellFormat(indentStep, w.lineHeight(), w.glyphs.clean(marker), "", 0, "L", false, 0, "")
		w.blocks(item)
	}
	w.setIndent(outer)
	if _, nested := l.Parent().(*ast.ListItem); !nested {
		w.gap(0.5)
	}
}

func (w *writer) blockquote(b *ast.Blockquote) {
	page, startY := w.pdf.PageNo(), w.pdf.GetY()
	outer, prevFg := w.indent, w.fg

	w.setIndent(outer + indentStep)
	w.fg = w.h3
	w.italic++
	w.blocks(b)
	w.italic--
	w.fg = prevFg
	w.setIndent(outer)

	endY := w.pdf.GetY() - w.lineHeight()*0.5
	if w.pdf.PageNo() == page && endY > startY {
		x := w.left + outer + indentStep/3
		setDrawColor(w.pdf, w.accent)
		w.pdf.SetLineWidth(1.0)
		w.pdf.Line(x, startY, x, endY)
	}
	w.applyFont()
}

func (w *writer) codeBlock(n ast.Node) {
	prevSize := w.size
	w.size = w.base - 1
	w.code++
	w.applyFont()

	width := w.contentWidth() - w.indent
	w.pdf.SetFillColor(codeShade, codeShade, codeShade)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(w.src)), "\r\n")
		line = strings.ReplaceAll(line, "\t", "    ")
		w.pdf.SetX(w.left + w.indent)
		w.pdf.MultiCell(width, w.lineHeight(), w.glyphs.clean(line), "", "L", true)
	}

	w.code--
	w.size = prevSize
	w.applyFont()
	w.gap(0.5)
}

func (w *writer) rule() {
	y := w.pdf.GetY() + w.lineHeight()*0.25
	setDrawColor(w.pdf, tableBorder)
	w.pdf.SetLineWidth(0.3)
	w.pdf.Line(w.left+w.indent, y, w.left+w.contentWidth(), y)
	w.pdf.SetY(y)
	w.gap(0.5)
}

type tableRow struct {
	header bool
	cells  []string
}

func (w *writer) table(t *east.Table) {
	var rows []tableRow
	cols := 0
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		r := tableRow{header: header}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.cells = append(r.cells, w.plainText(cell))
		}
		if len(r.cells) > cols {
			cols = len(r.cells)
		}
		rows = append(rows, r)
	}
	if cols == 0 {
		return
	}

	x0 := w.left + w.indent
	colW := (w.contentWidth() - w.indent) / float64(cols)
	lh := w.lineHeight()
	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()

	setDrawColor(w.pdf, tableBorder)
	w.pdf.SetLineWidth(0.2)
	for _, r := range rows {
		if r.header {
			w.bold++
		}
		w.applyFont()

		wrapped := make([][]string, cols)
		lines := 1
		for i := 0; i < cols; i++ {
			if i < len(r.cells) && r.cells[i] != "" {
				wrapped[i] = w.pdf.SplitText(w.glyphs.clean(r.cells[i]), colW-2*cellPadding)
			}
			if len(wrapped[i]) > lines {
				lines = len(wrapped[i])
			}
		}
		rowH := float64(lines)*lh + 2*cellPadding

		if w.pdf.GetY()+rowH > pageH-bottom {
			w.pdf.AddPage()
		}
		y := w.pdf.GetY()
		for i := 0; i < cols; i++ {
			x := x0 + float64(i)*colW
			style := "D"
			if r.header {
				setFillColor(w.pdf, tableHeader)
				style = "FD"
			}
			w.pdf.Rect(x, y, colW, rowH, style)
			for j, line := range wrapped[i] {
				w.pdf.SetXY(x+cellPadding, y+cellPadding+float64(j)*lh)
				w.pdf.CellFormat(colW-2*cellPadding, lh, line, "", 0, cellAlign(t, i), false, 0, "")
			}
		}
		w.pdf.SetXY(x0, y+rowH)

		if r.header {
			w.bold--
		}
	}
	w.applyFont()
	w.gap(0.5)
}

func cellAlign(t *east.Table, col int) string {
	if col >= len(t.Alignments) {
		return "L"
	}
	switch t.Alignments[col] {
	case east.AlignRight:
		return "R"
	case east.AlignCenter:
		return "C"
	default:
		return "L"
	}
}

// inline writes the inline children of n as flowing text.
func (w *writer) inline(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			w.write(string(node.Segment.Value(w.src)))
			if node.HardLineBreak() {
				w.pdf.Ln(w.lineHeight())
			} else if node.SoftLineBreak() {
				w.write(" ")
			}
		case *ast.String:
			w.write(string(node.Value))
		case *ast.Emphasis:
			if node.Level >= 2 {
				w.bold++
				w.inline(node)
				w.bold--
			} else {
				w.italic++
				w.inline(node)
				w.italic--
			}
		case *ast.CodeSpan:
			w.code++
			w.inline(node)
			w.code--
		case *east.Strikethrough:
			w.strike++
			w.inline(node)
			w.strike--
		case *ast.Link:
			w.link(w.plainText(node), string(node.Destination))
		case *ast.AutoLink:
			w.link(string(node.Label(w.src)), string(node.URL(w.src)))
		case *ast.Image:
			w.write(w.plainText(node))
		case *ast.RawHTML:
			// raw HTML is not rendered
		default:
			w.inline(c)
		}
	}
}

func (w *writer) write(s string) {
	if s == "" {
		return
	}
	w.applyFont()
	w.pdf.Write(w.lineHeight(), w.glyphs.clean(s))
}

func (w *writer) link(label, url string) {
	if label == "" {
		label = url
	}
	prevFg := w.fg
	w.fg = w.accent
	w.underline++
	w.applyFont()
	w.pdf.WriteLinkString(w.lineHeight(), w.glyphs.clean(label), url)
	w.underline--
	w.fg = prevFg
	w.applyFont()
}

// plainText flattens the inline content of n.
func (w *writer) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(w.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(w.src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
