// Package layout wraps the page layout engine behind a small interface so the
// assembler can be driven against a real PDF writer or a recording decorator.
package layout

import (
	"io"

	"github.com/opd-ai/chapterpress/internal/document"
)

// PageFunc draws repeated page content. It receives the engine to draw on and
// the 1-based number of the page being decorated.
type PageFunc func(e Engine, page int)

// ImageBlock places an encoded image on the current page. Coordinates and
// sizes are in the engine's unit (millimetres for NewPDF).
type ImageBlock struct {
	Name string
	Type document.ImageType
	Data []byte
	X, Y float64
	W, H float64
}

// Engine is the set of directives the assembler issues. Pagination, font
// metrics and line wrapping are the engine's responsibility.
type Engine interface {
	SetHeaderFunc(fn PageFunc)
	SetFooterFunc(fn PageFunc)
	SetTitle(title string)
	SetAuthor(author string)

	AddPage()
	PageNo() int
	PageSize() (w, h float64)
	Margins() (left, top, right, bottom float64)

	SetFont(style Style, size float64)
	// Cell writes a single line of text. When newline is set the cursor
	// moves to the start of the next line, otherwise to the right of the cell.
	Cell(w, h float64, text string, align Align, newline bool)
	// MultiCell wraps text to w, breaking pages as needed.
	MultiCell(w, h float64, text string, align Align)
	Image(img ImageBlock)
	Ln(h float64)
	SetY(y float64)
	GetY() float64

	// Err returns the first error recorded by the engine, if any.
	Err() error
	// Output closes the document and writes it to w.
	Output(w io.Writer) error
}

// WritableWidth is the page width between the left and right margins.
func WritableWidth(e Engine) float64 {
	w, _ := e.PageSize()
	left, _, right, _ := e.Margins()
	return w - left - right
}
