package document

import "errors"

// Sentinel errors for document generation.
var (
	ErrUnsupportedFont   = errors.New("unsupported font")
	ErrEmptyChapterList  = errors.New("document has no chapters")
	ErrInvalidFontSize   = errors.New("invalid font size")
	ErrImageLoad         = errors.New("image could not be loaded")
	ErrFileIO            = errors.New("file i/o failed")
	ErrChapterCount      = errors.New("invalid chapter count")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrDocumentTooLarge  = errors.New("document exceeds upload limit")
	ErrMissingParameters = errors.New("missing form parameters")
)

// IsInputError reports whether err was caused by the submitted input rather
// than by the server.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedFont,
		ErrEmptyChapterList,
		ErrInvalidFontSize,
		ErrImageLoad,
		ErrChapterCount,
		ErrUnsupportedImage,
		ErrDocumentTooLarge,
		ErrMissingParameters,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
