package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opd-ai/chapterpress/internal/document"
	"github.com/opd-ai/chapterpress/internal/form"
	"github.com/opd-ai/chapterpress/internal/logging"
	"github.com/opd-ai/chapterpress/internal/metrics"
	"github.com/opd-ai/chapterpress/internal/spool"
)

type formPage struct {
	form.State
	Error   string
	Counts  []int
	Fonts   []string
	MinSize int
	MaxSize int
}

type resultPage struct {
	Message     string
	DownloadURL string
	FileName    string
	Pages       int
	Size        int
}

func newFormPage(state form.State, msg string) formPage {
	p := formPage{
		State:   state,
		Error:   msg,
		MinSize: document.MinFontSize,
		MaxSize: document.MaxFontSize,
	}
	if len(p.Chapters) == 0 {
		p.Resize(document.MinChapters)
	}
	for n := document.MinChapters; n <= document.MaxChapters; n++ {
		p.Counts = append(p.Counts, n)
	}
	for _, f := range document.FontFamilies {
		p.Fonts = append(p.Fonts, f.String())
	}
	return p
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	n, err := form.ParseChapterCount(r.URL.Query().Get(form.FieldChapters))
	if err != nil {
		s.render(w, http.StatusBadRequest, "form", newFormPage(form.Defaults(document.MinChapters), err.Error()))
		return
	}
	s.render(w, http.StatusOK, "form", newFormPage(form.Defaults(n), ""))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := middleware.GetReqID(r.Context())

	state, req, err := form.Parse(w, r, s.cfg.MaxUploadBytes)
	if err != nil {
		s.generateFailed(w, reqID, state, err, start)
		return
	}

	e, err := s.assembler.NewEngine()
	if err != nil {
		s.generateFailed(w, reqID, state, err, start)
		return
	}
	var buf bytes.Buffer
	pages, err := s.assembler.Render(&buf, e, req)
	if err != nil {
		s.generateFailed(w, reqID, state, err, start)
		return
	}

	id := s.downloads.put(buf.Bytes())
	s.metrics.ObserveGeneration(metrics.ResultOK, time.Since(start), pages, buf.Len())
	logging.Info.Printf("[%s] generated %d chapter(s), %d page(s), %d bytes as %s",
		reqID, len(req.Chapters), pages, buf.Len(), id)

	s.render(w, http.StatusOK, "result", resultPage{
		Message:     SuccessMessage,
		DownloadURL: "/download/" + id,
		FileName:    spool.DefaultOutputName,
		Pages:       pages,
		Size:        buf.Len(),
	})
}

func (s *Server) generateFailed(w http.ResponseWriter, reqID string, state form.State, err error, start time.Time) {
	status, result := http.StatusInternalServerError, metrics.ResultError
	if document.IsInputError(err) {
		status, result = http.StatusBadRequest, metrics.ResultInvalid
	}
	s.metrics.ObserveGeneration(result, time.Since(start), 0, 0)

	msg := "Error generating PDF: " + err.Error()
	if status == http.StatusInternalServerError {
		logging.Error.Printf("[%s] generation failed: %v", reqID, err)
		msg = "Error generating PDF. Please try again."
	} else {
		logging.Info.Printf("[%s] rejected request: %v", reqID, err)
	}
	s.render(w, status, "form", newFormPage(state, msg))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, ok := s.downloads.get(id)
	s.metrics.ObserveDownload(ok)
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+spool.DefaultOutputName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		logging.Error.Printf("[%s] download %s: %v", middleware.GetReqID(r.Context()), id, err)
	}
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"downloads": s.downloads.len(),
	})
	if err != nil {
		logging.Error.Printf("[%s] health check: %v", middleware.GetReqID(r.Context()), err)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error.Printf("rendering %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
