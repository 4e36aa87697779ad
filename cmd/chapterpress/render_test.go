package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/chapterpress/internal/config"
	"github.com/opd-ai/chapterpress/internal/document"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, name, buf.Bytes())
}

const demoRequest = `title: Demo
author: Ada
image: cover.png
chapters:
  - title: Intro
    body: Hello world
  - title: Second
    body: More text
    font: Times
    size: 14
`

// ---------------------------------------------------------------------------
// render
// ---------------------------------------------------------------------------

func TestRunRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "cover.png")
	input := writeFile(t, dir, "request.yaml", []byte(demoRequest))
	output := filepath.Join(dir, "out", "history.pdf")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"render", "--input", input, "--output", output}, &stdout)
	if err != nil {
		t.Fatalf("run(render) unexpected error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF")
	}
	if !strings.Contains(stdout.String(), "PDF was generated successfully") {
		t.Errorf("stdout = %q, want success message", stdout.String())
	}
}

func TestRunRender_PositionalInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "request.yaml", []byte("chapters:\n  - title: Only\n    body: text\n"))
	output := filepath.Join(dir, "history.pdf")

	if err := run(context.Background(), []string{"render", "-o", output, input}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(render) unexpected error: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRunRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		request  string
		wantErr  error
		wantCode int
	}{
		{
			name:     "unknown field",
			request:  "title: x\nsubtitle: y\nchapters:\n  - title: a\n    body: b\n",
			wantErr:  ErrRequestFile,
			wantCode: ExitUsage,
		},
		{
			name:     "no chapters",
			request:  "title: x\n",
			wantErr:  document.ErrEmptyChapterList,
			wantCode: ExitUsage,
		},
		{
			name:     "unknown font",
			request:  "chapters:\n  - title: a\n    body: b\n    font: Papyrus\n",
			wantErr:  document.ErrUnsupportedFont,
			wantCode: ExitUsage,
		},
		{
			name:     "size out of range",
			request:  "chapters:\n  - title: a\n    body: b\n    size: 25\n",
			wantErr:  document.ErrInvalidFontSize,
			wantCode: ExitUsage,
		},
		{
			name:     "missing image",
			request:  "image: nowhere.png\nchapters:\n  - title: a\n    body: b\n",
			wantErr:  document.ErrFileIO,
			wantCode: ExitIO,
		},
		{
			name:     "unsupported image",
			request:  "image: cover.gif\nchapters:\n  - title: a\n    body: b\n",
			wantErr:  document.ErrUnsupportedImage,
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := writeFile(t, dir, "request.yaml", []byte(tt.request))
			output := filepath.Join(dir, "history.pdf")

			err := run(context.Background(), []string{"render", "-i", input, "-o", output}, &bytes.Buffer{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if _, statErr := os.Stat(output); statErr == nil {
				t.Error("failed render left an output file")
			}
		})
	}
}

func TestRunRender_ManyChapters(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("chapters:\n")
	for i := 1; i <= document.MaxChapters+1; i++ {
		fmt.Fprintf(&b, "  - title: c%d\n    body: b\n", i)
	}
	dir := t.TempDir()
	input := writeFile(t, dir, "request.yaml", []byte(b.String()))

	err := run(context.Background(), []string{"render", "-i", input, "-o", filepath.Join(dir, "x.pdf")}, &bytes.Buffer{})
	if !errors.Is(err, document.ErrChapterCount) {
		t.Fatalf("error = %v, want ErrChapterCount", err)
	}
}

// ---------------------------------------------------------------------------
// Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := run(context.Background(), []string{"version"}, &out); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "chapterpress ") {
		t.Errorf("version output = %q", out.String())
	}

	if err := run(context.Background(), nil, &bytes.Buffer{}); !errors.Is(err, ErrUsage) {
		t.Errorf("no command error = %v, want ErrUsage", err)
	}
	if err := run(context.Background(), []string{"publish"}, &bytes.Buffer{}); !errors.Is(err, ErrUsage) {
		t.Errorf("unknown command error = %v, want ErrUsage", err)
	}
	if err := run(context.Background(), []string{"render"}, &bytes.Buffer{}); !errors.Is(err, ErrUsage) {
		t.Errorf("render without input error = %v, want ErrUsage", err)
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", fmt.Errorf("%w: x", ErrUsage), ExitUsage},
		{"config", fmt.Errorf("%w: x", config.ErrInvalidConfig), ExitUsage},
		{"input", fmt.Errorf("chapter 1: %w", document.ErrInvalidFontSize), ExitUsage},
		{"file io", fmt.Errorf("%w: x", document.ErrFileIO), ExitIO},
		{"not exist", os.ErrNotExist, ExitIO},
		{"other", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
