package layout

import (
	"io"
	"sync"
)

// Region identifies which part of a page an instruction was issued for.
type Region int

const (
	RegionBody Region = iota
	RegionHeader
	RegionFooter
)

func (r Region) String() string {
	switch r {
	case RegionHeader:
		return "header"
	case RegionFooter:
		return "footer"
	}
	return "body"
}

// OpKind names a recorded directive.
type OpKind string

const (
	OpAddPage   OpKind = "AddPage"
	OpSetFont   OpKind = "SetFont"
	OpCell      OpKind = "Cell"
	OpMultiCell OpKind = "MultiCell"
	OpImage     OpKind = "Image"
	OpLn        OpKind = "Ln"
	OpSetY      OpKind = "SetY"
	OpTitle     OpKind = "SetTitle"
	OpAuthor    OpKind = "SetAuthor"
)

// Op is one recorded directive. Fields irrelevant to Kind are left zero.
type Op struct {
	Kind   OpKind
	Region Region
	Page   int
	Style  Style
	Size   float64
	Text   string
	Align  Align
	W, H   float64
	Y      float64
}

// Recorder decorates an Engine and keeps the instruction stream it receives,
// including instructions issued from header and footer callbacks during
// automatic page breaks.
type Recorder struct {
	inner  Engine
	mu     sync.Mutex
	region Region
	ops    []Op
}

// NewRecorder wraps inner.
func NewRecorder(inner Engine) *Recorder {
	return &Recorder{inner: inner}
}

// Ops returns a copy of the recorded instructions.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

// Filter returns the recorded instructions matching keep.
func (r *Recorder) Filter(keep func(Op) bool) []Op {
	var out []Op
	for _, op := range r.Ops() {
		if keep(op) {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.Region = r.region
	op.Page = r.inner.PageNo()
	r.ops = append(r.ops, op)
}

func (r *Recorder) enter(region Region) Region {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.region
	r.region = region
	return prev
}

func (r *Recorder) wrap(region Region, fn PageFunc) PageFunc {
	return func(_ Engine, page int) {
		prev := r.enter(region)
		defer r.enter(prev)
		fn(r, page)
	}
}

func (r *Recorder) SetHeaderFunc(fn PageFunc) { r.inner.SetHeaderFunc(r.wrap(RegionHeader, fn)) }
func (r *Recorder) SetFooterFunc(fn PageFunc) { r.inner.SetFooterFunc(r.wrap(RegionFooter, fn)) }

func (r *Recorder) SetTitle(title string) {
	r.record(Op{Kind: OpTitle, Text: title})
	r.inner.SetTitle(title)
}

func (r *Recorder) SetAuthor(author string) {
	r.record(Op{Kind: OpAuthor, Text: author})
	r.inner.SetAuthor(author)
}

func (r *Recorder) AddPage() {
	r.inner.AddPage()
	r.record(Op{Kind: OpAddPage})
}

func (r *Recorder) PageNo() int              { return r.inner.PageNo() }
func (r *Recorder) PageSize() (w, h float64) { return r.inner.PageSize() }

func (r *Recorder) Margins() (left, top, right, bottom float64) {
	return r.inner.Margins()
}

func (r *Recorder) SetFont(style Style, size float64) {
	r.record(Op{Kind: OpSetFont, Style: style, Size: size})
	r.inner.SetFont(style, size)
}

func (r *Recorder) Cell(w, h float64, text string, align Align, newline bool) {
	r.record(Op{Kind: OpCell, Text: text, Align: align, W: w, H: h})
	r.inner.Cell(w, h, text, align, newline)
}

func (r *Recorder) MultiCell(w, h float64, text string, align Align) {
	r.record(Op{Kind: OpMultiCell, Text: text, Align: align, W: w, H: h})
	r.inner.MultiCell(w, h, text, align)
}

func (r *Recorder) Image(img ImageBlock) {
	r.record(Op{Kind: OpImage, Text: img.Name, W: img.W, H: img.H, Y: img.Y})
	r.inner.Image(img)
}

func (r *Recorder) Ln(h float64) {
	r.record(Op{Kind: OpLn, H: h})
	r.inner.Ln(h)
}

func (r *Recorder) SetY(y float64) {
	r.record(Op{Kind: OpSetY, Y: y})
	r.inner.SetY(y)
}

func (r *Recorder) GetY() float64 { return r.inner.GetY() }
func (r *Recorder) Err() error    { return r.inner.Err() }

func (r *Recorder) Output(w io.Writer) error {
	return r.inner.Output(w)
}
