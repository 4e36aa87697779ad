// Package assembler turns a document request into layout directives and
// drives the layout engine to produce the finished PDF.
package assembler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/opd-ai/chapterpress/internal/document"
	"github.com/opd-ai/chapterpress/internal/layout"
)

// Fixed page furniture, in millimetres and points.
const (
	headerSize   = 12
	headerHeight = 10
	footerSize   = 8
	footerHeight = 10
	footerOffset = -15
	imageTop     = 25
	imageGap     = 5
	titleGap     = 10
)

var (
	headerStyle = layout.Style{Family: document.FontSans, Weight: layout.Bold}
	footerStyle = layout.Style{Family: document.FontSans, Slant: layout.Italic}
)

// DefaultCreationDate is stamped into every document unless overridden, so
// that identical requests yield identical bytes.
var DefaultCreationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Assembler renders requests into PDF documents. It holds no per-document
// state and is safe for concurrent use.
type Assembler struct {
	pageSize     string
	lineHeight   float64
	creationDate time.Time
	creator      string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithPageSize selects the page size (layout.PageA4, PageLetter, PageLegal).
func WithPageSize(size string) Option {
	return func(a *Assembler) { a.pageSize = size }
}

// WithLineHeight sets the height of title cells and body lines in mm.
func WithLineHeight(h float64) Option {
	return func(a *Assembler) {
		if h > 0 {
			a.lineHeight = h
		}
	}
}

// WithCreationDate overrides the creation date written to the metadata.
func WithCreationDate(t time.Time) Option {
	return func(a *Assembler) { a.creationDate = t }
}

// WithCreator sets the /Creator metadata entry.
func WithCreator(creator string) Option {
	return func(a *Assembler) { a.creator = creator }
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		pageSize:     layout.PageA4,
		lineHeight:   10,
		creationDate: DefaultCreationDate,
		creator:      "chapterpress",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewEngine creates a PDF engine configured for this assembler.
func (a *Assembler) NewEngine() (*layout.PDF, error) {
	return layout.NewPDF(layout.PDFConfig{
		PageSize:     a.pageSize,
		CreationDate: a.creationDate,
		Creator:      a.creator,
	})
}

// Assemble renders req and returns the PDF bytes. Nothing is returned on
// failure.
func (a *Assembler) Assemble(req document.Request) ([]byte, error) {
	e, err := a.NewEngine()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := a.Render(&buf, e, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render issues the directives for req on e, then writes the document to w.
// It returns the number of pages produced.
func (a *Assembler) Render(w io.Writer, e layout.Engine, req document.Request) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	var img *placedImage
	if req.Image != nil {
		var err error
		if img, err = prepareImage(req.Image); err != nil {
			return 0, err
		}
	}

	if req.HasTitle() {
		e.SetTitle(req.Title)
		e.SetHeaderFunc(header(normalizeText(req.Title)))
	}
	if req.Author != "" {
		e.SetAuthor(req.Author)
	}
	e.SetFooterFunc(footer)

	e.AddPage()

	if img != nil {
		a.placeImage(e, img)
		if err := e.Err(); err != nil {
			return 0, fmt.Errorf("%w: %w", document.ErrImageLoad, err)
		}
	}

	for i, ch := range req.Chapters {
		a.chapter(e, ch)
		if err := e.Err(); err != nil {
			return 0, fmt.Errorf("rendering chapter %d: %w", i+1, err)
		}
	}

	pages := e.PageNo()
	if err := e.Output(w); err != nil {
		return 0, fmt.Errorf("writing document: %w", err)
	}
	return pages, nil
}

func header(title string) layout.PageFunc {
	return func(e layout.Engine, _ int) {
		e.SetFont(headerStyle, headerSize)
		e.Cell(layout.WritableWidth(e), headerHeight, title, layout.AlignCenter, true)
	}
}

func footer(e layout.Engine, page int) {
	e.SetY(footerOffset)
	e.SetFont(footerStyle, footerSize)
	e.Cell(layout.WritableWidth(e), footerHeight, fmt.Sprintf("Page %d", page), layout.AlignCenter, false)
}

// chapter writes a bold title line followed by the wrapped body.
func (a *Assembler) chapter(e layout.Engine, ch document.Chapter) {
	width := layout.WritableWidth(e)
	size := float64(ch.Size)

	e.SetFont(layout.Style{Family: ch.Font, Weight: layout.Bold}, size)
	e.Cell(width, a.lineHeight, normalizeText(ch.Title), layout.AlignLeft, true)
	e.Ln(titleGap)

	e.SetFont(layout.Style{Family: ch.Font}, size)
	e.MultiCell(width, a.lineHeight, normalizeText(ch.Body), layout.AlignLeft)
	e.Ln(a.lineHeight)
}

type placedImage struct {
	*document.Image
	kind          document.ImageType
	width, height int
}

func prepareImage(img *document.Image) (*placedImage, error) {
	kind, err := img.Type()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", document.ErrImageLoad, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", document.ErrImageLoad, img.Name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s: empty image", document.ErrImageLoad, img.Name)
	}
	return &placedImage{Image: img, kind: kind, width: cfg.Width, height: cfg.Height}, nil
}

// placeImage draws img across the writable width below the header band and
// moves the cursor past it. Images too tall for the first page are scaled
// down to fit.
func (a *Assembler) placeImage(e layout.Engine, img *placedImage) {
	left, _, _, bottom := e.Margins()
	_, pageH := e.PageSize()
	maxW := layout.WritableWidth(e)
	maxH := pageH - bottom - imageTop

	w := maxW
	h := w * float64(img.height) / float64(img.width)
	if h > maxH {
		h = maxH
		w = h * float64(img.width) / float64(img.height)
	}

	name := img.Name
	if name == "" {
		name = "image"
	}
	e.Image(layout.ImageBlock{
		Name: name,
		Type: img.kind,
		Data: img.Data,
		X:    left + (maxW-w)/2,
		Y:    imageTop,
		W:    w,
		H:    h,
	})
	e.SetY(imageTop + h + imageGap)
}
