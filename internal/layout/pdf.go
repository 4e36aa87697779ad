package layout

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Page sizes accepted by PDFConfig.
const (
	PageA4     = "A4"
	PageLetter = "Letter"
	PageLegal  = "Legal"
)

// PDFConfig configures a gofpdf backed engine. Zero values fall back to the
// engine defaults: A4 portrait in millimetres with 10 mm side margins and a
// 20 mm bottom break margin.
type PDFConfig struct {
	PageSize     string
	SideMargin   float64
	TopMargin    float64
	BottomMargin float64
	// CreationDate is stamped into the document info dictionary. Fixing it
	// makes output reproducible.
	CreationDate time.Time
	Creator      string
}

// PDF implements Engine on top of gofpdf.
type PDF struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
}

// NewPDF creates a portrait document in millimetres.
func NewPDF(cfg PDFConfig) (*PDF, error) {
	size := cfg.PageSize
	if size == "" {
		size = PageA4
	}
	switch size {
	case PageA4, PageLetter, PageLegal:
	default:
		return nil, fmt.Errorf("layout: unknown page size %q", size)
	}

	pdf := gofpdf.New("P", "mm", size, "")
	side, top, bottom := cfg.SideMargin, cfg.TopMargin, cfg.BottomMargin
	if side <= 0 {
		side = 10
	}
	if top <= 0 {
		top = side
	}
	if bottom <= 0 {
		bottom = 20
	}
	pdf.SetMargins(side, top, side)
	pdf.SetAutoPageBreak(true, bottom)
	pdf.SetCatalogSort(true)
	if !cfg.CreationDate.IsZero() {
		pdf.SetCreationDate(cfg.CreationDate)
	}
	if cfg.Creator != "" {
		pdf.SetCreator(cfg.Creator, true)
	}

	return &PDF{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}, nil
}

func (p *PDF) SetHeaderFunc(fn PageFunc) {
	p.pdf.SetHeaderFunc(func() { fn(p, p.pdf.PageNo()) })
}

func (p *PDF) SetFooterFunc(fn PageFunc) {
	p.pdf.SetFooterFunc(func() { fn(p, p.pdf.PageNo()) })
}

func (p *PDF) SetTitle(title string) { p.pdf.SetTitle(title, true) }
func (p *PDF) SetAuthor(author string) { p.pdf.SetAuthor(author, true) }
func (p *PDF) AddPage() { p.pdf.AddPage() }
func (p *PDF) PageNo() int { return p.pdf.PageNo() }

func (p *PDF) PageSize() (w, h float64) {
	return p.pdf.GetPageSize()
}

func (p *PDF) Margins() (left, top, right, bottom float64) {
	return p.pdf.GetMargins()
}

func (p *PDF) SetFont(style Style, size float64) {
	if err := style.Validate(); err != nil {
		p.pdf.SetError(err)
		return
	}
	p.pdf.SetFont(style.Family.String(), style.code(), size)
}

func (p *PDF) Cell(w, h float64, text string, align Align, newline bool) {
	ln := 0
	if newline {
		ln = 1
	}
	p.pdf.CellFormat(w, h, p.translate(text), "", ln, string(align), false, 0, "")
}

func (p *PDF) MultiCell(w, h float64, text string, align Align) {
	p.pdf.MultiCell(w, h, p.translate(text), "", string(align), false)
}

func (p *PDF) Image(img ImageBlock) {
	opts := gofpdf.ImageOptions{ImageType: string(img.Type)}
	p.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	if p.pdf.Err() {
		return
	}
	p.pdf.ImageOptions(img.Name, img.X, img.Y, img.W, img.H, false, opts, 0, "")
}

func (p *PDF) Ln(h float64) { p.pdf.Ln(h) }
func (p *PDF) SetY(y float64) { p.pdf.SetY(y) }
func (p *PDF) GetY() float64 { return p.pdf.GetY() }
func (p *PDF) Err() error { return p.pdf.Error() }

func (p *PDF) Output(w io.Writer) error {
	return p.pdf.Output(w)
}
