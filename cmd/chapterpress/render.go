package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"

	"github.com/opd-ai/chapterpress/internal/assembler"
	"github.com/opd-ai/chapterpress/internal/config"
	"github.com/opd-ai/chapterpress/internal/document"
	"github.com/opd-ai/chapterpress/internal/logging"
	"github.com/opd-ai/chapterpress/internal/spool"
	"github.com/opd-ai/chapterpress/internal/web"
)

// maxRequestFileSize bounds the YAML request file.
const maxRequestFileSize = 4 << 20

// ErrRequestFile reports a malformed request file.
var ErrRequestFile = errors.New("invalid request file")

// requestFile is the YAML form of a document request. Image is a path,
// relative paths resolve against the request file's directory.
type requestFile struct {
	Title    string        `yaml:"title"`
	Author   string        `yaml:"author"`
	Image    string        `yaml:"image"`
	Chapters []chapterFile `yaml:"chapters"`
}

type chapterFile struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Font  string `yaml:"font"` // Arial, Courier or Times; default Arial
	Size  int    `yaml:"size"` // default 12
}

func runRender(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("page-size", "A4", "page size: A4, Letter or Legal")
	input := fs.StringP("input", "i", "", "YAML request file")
	output := fs.StringP("output", "o", spool.DefaultOutputName, "output PDF path")
	if err := fs.Parse(args); err != nil {
		return flagError(err)
	}
	if *input == "" {
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: render needs --input or one request file argument", ErrUsage)
		}
		*input = fs.Arg(0)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	req, err := loadRequest(*input)
	if err != nil {
		return err
	}

	asm := assembler.New(
		assembler.WithPageSize(cfg.Document.PageSize),
		assembler.WithLineHeight(cfg.Document.LineHeight),
	)
	e, err := asm.NewEngine()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	pages, err := asm.Render(&buf, e, req)
	if err != nil {
		return err
	}
	if err := spool.WriteFile(*output, buf.Bytes()); err != nil {
		return err
	}

	logging.Info.Printf("wrote %s: %d page(s), %d bytes", *output, pages, buf.Len())
	fmt.Fprintf(stdout, "%s: %s\n", web.SuccessMessage, *output)
	return nil
}

// loadRequest reads and converts a request file.
func loadRequest(path string) (document.Request, error) {
	var req document.Request

	data, err := spool.ReadFile(path)
	if err != nil {
		return req, err
	}
	if len(data) > maxRequestFileSize {
		return req, fmt.Errorf("%w: %s exceeds %d bytes", ErrRequestFile, path, maxRequestFileSize)
	}

	var rf requestFile
	if err := yaml.UnmarshalWithOptions(data, &rf, yaml.Strict()); err != nil {
		return req, fmt.Errorf("%w: %s: %v", ErrRequestFile, path, err)
	}
	return rf.toRequest(filepath.Dir(path))
}

func (rf requestFile) toRequest(baseDir string) (document.Request, error) {
	req := document.Request{Title: rf.Title, Author: rf.Author}

	if len(rf.Chapters) > document.MaxChapters {
		return req, fmt.Errorf("%w: %d (must be between %d and %d)",
			document.ErrChapterCount, len(rf.Chapters), document.MinChapters, document.MaxChapters)
	}
	for i, cf := range rf.Chapters {
		ch := document.Chapter{
			Title: cf.Title,
			Body:  cf.Body,
			Font:  document.FontSans,
			Size:  cf.Size,
		}
		if cf.Font != "" {
			font, err := document.ParseFontFamily(cf.Font)
			if err != nil {
				return req, fmt.Errorf("chapter %d: %w", i+1, err)
			}
			ch.Font = font
		}
		if ch.Size == 0 {
			ch.Size = document.DefaultFontSize
		}
		req.Chapters = append(req.Chapters, ch)
	}

	if rf.Image != "" {
		path := rf.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		img, err := spool.LoadImage(path)
		if err != nil {
			return req, err
		}
		req.Image = img
	}
	return req, nil
}
