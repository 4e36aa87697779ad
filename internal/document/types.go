// Package document defines the request a user submits to generate a PDF and
// the validation rules shared by the form collector and the assembler.
package document

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// Chapter limits enforced by the form collector.
const (
	MinChapters     = 1
	MaxChapters     = 10
	MinFontSize     = 8
	MaxFontSize     = 24
	DefaultFontSize = 12
)

// FontFamily is one of the three core font families a chapter may use.
type FontFamily int

const (
	FontSans FontFamily = iota + 1
	FontMono
	FontSerif
)

// FontFamilies lists the supported families in the order the form offers them.
var FontFamilies = []FontFamily{FontSans, FontMono, FontSerif}

// String returns the display name, which is also the core font name.
func (f FontFamily) String() string {
	switch f {
	case FontSans:
		return "Arial"
	case FontMono:
		return "Courier"
	case FontSerif:
		return "Times"
	}
	return fmt.Sprintf("FontFamily(%d)", int(f))
}

// Valid reports whether f is one of the supported families.
func (f FontFamily) Valid() bool {
	return f >= FontSans && f <= FontSerif
}

// ParseFontFamily maps a display name (case-insensitive) to a FontFamily.
func ParseFontFamily(name string) (FontFamily, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "arial", "helvetica":
		return FontSans, nil
	case "courier":
		return FontMono, nil
	case "times":
		return FontSerif, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFont, name)
}

// Chapter is a titled block of body text with its own font.
type Chapter struct {
	Title string
	Body  string
	Font  FontFamily
	Size  int
}

// Validate checks the font family and size of the chapter.
func (c Chapter) Validate() error {
	if !c.Font.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFont, c.Font)
	}
	if c.Size < MinFontSize || c.Size > MaxFontSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, c.Size, MinFontSize, MaxFontSize)
	}
	return nil
}

// ImageType names an image encoding the layout engine understands.
type ImageType string

const (
	ImagePNG ImageType = "PNG"
	ImageJPG ImageType = "JPG"
)

// Image is an uploaded picture placed at the top of the first page.
type Image struct {
	Name string
	Data []byte
}

// Type sniffs the image encoding from its content.
func (img *Image) Type() (ImageType, error) {
	switch http.DetectContentType(img.Data) {
	case "image/png":
		return ImagePNG, nil
	case "image/jpeg":
		return ImageJPG, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, img.Name)
}

// AllowedImageName reports whether the file name carries a JPG or PNG
// extension.
func AllowedImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Request is everything needed to render one document. An empty Title means
// no title was configured and suppresses the page header.
type Request struct {
	Title    string
	Author   string
	Image    *Image
	Chapters []Chapter
}

// HasTitle reports whether a title was configured.
func (r Request) HasTitle() bool {
	return r.Title != ""
}

// Validate checks the constraints the assembler relies on.
func (r Request) Validate() error {
	if len(r.Chapters) == 0 {
		return ErrEmptyChapterList
	}
	for i, ch := range r.Chapters {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("chapter %d: %w", i+1, err)
		}
	}
	return nil
}
