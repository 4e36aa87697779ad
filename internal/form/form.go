// Package form maps the submitted HTML form onto a document request and holds
// the values used to render the form back to the user.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/opd-ai/chapterpress/internal/document"
)

// Field names shared with the HTML template.
const (
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldImage    = "image"
	FieldChapters = "chapters"
)

// DefaultTitle is the value the title field starts with.
const DefaultTitle = "Write here ...."

// ChapterFieldName returns the form field name for attribute attr of the
// i-th (1-based) chapter.
func ChapterFieldName(i int, attr string) string {
	return fmt.Sprintf("chapter_%d_%s", i, attr)
}

// Chapter holds the raw values of one chapter as shown in the form.
type Chapter struct {
	Index int
	Title string
	Body  string
	Font  string
	Size  int
}

// State is the current content of the form.
type State struct {
	Title    string
	Author   string
	Chapters []Chapter
}

// Defaults returns a form with n default chapters, clamped to the allowed
// range.
func Defaults(n int) State {
	s := State{Title: DefaultTitle}
	s.Resize(n)
	return s
}

func defaultChapter(i int) Chapter {
	return Chapter{
		Index: i,
		Title: fmt.Sprintf("Chapter title %d", i),
		Body:  fmt.Sprintf("Chapter body %d", i),
		Font:  document.FontSans.String(),
		Size:  document.DefaultFontSize,
	}
}

// Resize truncates or extends the chapter list to n entries, keeping the
// values already entered.
func (s *State) Resize(n int) {
	n = clampChapters(n)
	if len(s.Chapters) > n {
		s.Chapters = s.Chapters[:n]
		return
	}
	for i := len(s.Chapters) + 1; i <= n; i++ {
		s.Chapters = append(s.Chapters, defaultChapter(i))
	}
}

func clampChapters(n int) int {
	if n < document.MinChapters {
		return document.MinChapters
	}
	if n > document.MaxChapters {
		return document.MaxChapters
	}
	return n
}

// ParseChapterCount parses the chapter count field.
func ParseChapterCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return document.MinChapters, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < document.MinChapters || n > document.MaxChapters {
		return 0, fmt.Errorf("%w: %q (must be between %d and %d)",
			document.ErrChapterCount, raw, document.MinChapters, document.MaxChapters)
	}
	return n, nil
}

// Parse reads a submitted form. The returned State reflects what the user
// entered even when err is non-nil, so the form can be shown again.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) (State, document.Request, error) {
	var state State
	var req document.Request

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return state, req, fmt.Errorf("%w: limit is %d bytes", document.ErrDocumentTooLarge, maxBytes)
		case errors.Is(err, http.ErrNotMultipart):
			if err := r.ParseForm(); err != nil {
				return state, req, fmt.Errorf("%w: %v", document.ErrMissingParameters, err)
			}
		default:
			return state, req, fmt.Errorf("%w: %v", document.ErrMissingParameters, err)
		}
	}

	state.Title = strings.TrimSpace(r.FormValue(FieldTitle))
	state.Author = strings.TrimSpace(r.FormValue(FieldAuthor))
	req.Title = state.Title
	req.Author = state.Author

	n, err := ParseChapterCount(r.FormValue(FieldChapters))
	if err != nil {
		state.Resize(document.MinChapters)
		return state, req, err
	}

	var firstErr error
	for i := 1; i <= n; i++ {
		field := Chapter{
			Index: i,
			Title: r.FormValue(ChapterFieldName(i, "title")),
			Body:  r.FormValue(ChapterFieldName(i, "body")),
			Font:  r.FormValue(ChapterFieldName(i, "font")),
		}
		ch, err := parseChapter(&field, r.FormValue(ChapterFieldName(i, "size")))
		state.Chapters = append(state.Chapters, field)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chapter %d: %w", i, err)
			}
			continue
		}
		req.Chapters = append(req.Chapters, ch)
	}
	if firstErr != nil {
		return state, req, firstErr
	}

	img, err := parseImage(r)
	if err != nil {
		return state, req, err
	}
	req.Image = img

	return state, req, nil
}

func parseChapter(field *Chapter, rawSize string) (document.Chapter, error) {
	size, err := strconv.Atoi(strings.TrimSpace(rawSize))
	if err != nil {
		field.Size = document.DefaultFontSize
		return document.Chapter{}, fmt.Errorf("%w: %q", document.ErrInvalidFontSize, rawSize)
	}
	field.Size = size
	if size < document.MinFontSize || size > document.MaxFontSize {
		return document.Chapter{}, fmt.Errorf("%w: %d (must be between %d and %d)",
			document.ErrInvalidFontSize, size, document.MinFontSize, document.MaxFontSize)
	}

	font, err := document.ParseFontFamily(field.Font)
	if err != nil {
		return document.Chapter{}, err
	}

	return document.Chapter{
		Title: field.Title,
		Body:  field.Body,
		Font:  font,
		Size:  size,
	}, nil
}

func parseImage(r *http.Request) (*document.Image, error) {
	file, header, err := r.FormFile(FieldImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", document.ErrMissingParameters, err)
	}
	defer file.Close()

	if !document.AllowedImageName(header.Filename) {
		return nil, fmt.Errorf("%w: %s (JPG or PNG only)", document.ErrUnsupportedImage, header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", document.ErrFileIO, header.Filename, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	img := &document.Image{Name: header.Filename, Data: data}
	if _, err := img.Type(); err != nil {
		return nil, err
	}
	return img, nil
}
