package layout

import (
	"fmt"

	"github.com/opd-ai/chapterpress/internal/document"
)

// Weight is the stroke weight of a font.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Slant is the posture of a font.
type Slant int

const (
	Upright Slant = iota
	Italic
)

// Style is a font family combined with weight and slant.
type Style struct {
	Family document.FontFamily
	Weight Weight
	Slant  Slant
}

// Validate rejects combinations the core fonts cannot render.
func (s Style) Validate() error {
	if !s.Family.Valid() {
		return fmt.Errorf("%w: %s", document.ErrUnsupportedFont, s.Family)
	}
	if s.Weight != Regular && s.Weight != Bold {
		return fmt.Errorf("%w: weight %d", document.ErrUnsupportedFont, s.Weight)
	}
	if s.Slant != Upright && s.Slant != Italic {
		return fmt.Errorf("%w: slant %d", document.ErrUnsupportedFont, s.Slant)
	}
	return nil
}

// code returns the style letters understood by core PDF fonts ("", "B",
// "I" or "BI").
func (s Style) code() string {
	var c string
	if s.Weight == Bold {
		c += "B"
	}
	if s.Slant == Italic {
		c += "I"
	}
	return c
}

func (s Style) String() string {
	if c := s.code(); c != "" {
		return s.Family.String() + " " + c
	}
	return s.Family.String()
}

// Align is the horizontal alignment of text inside a cell.
type Align string

const (
	AlignLeft    Align = "L"
	AlignCenter  Align = "C"
	AlignRight   Align = "R"
	AlignJustify Align = "J"
)
