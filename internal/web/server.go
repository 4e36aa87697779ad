// Package web serves the form that collects a document request and hands the
// generated PDF back as a download.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	secure "github.com/srikrsna/security-headers"

	"github.com/opd-ai/chapterpress/internal/assembler"
	"github.com/opd-ai/chapterpress/internal/config"
	"github.com/opd-ai/chapterpress/internal/form"
	"github.com/opd-ai/chapterpress/internal/logging"
	"github.com/opd-ai/chapterpress/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// SuccessMessage is shown after a document has been generated.
const SuccessMessage = "PDF was generated successfully"

// Server is the HTTP front end. It implements http.Handler.
type Server struct {
	cfg       config.ServerConfig
	router    chi.Router
	assembler *assembler.Assembler
	metrics   *metrics.Metrics
	downloads *downloads
	templates *template.Template
}

// New builds a server that renders documents with asm and reports to m.
func New(cfg config.ServerConfig, asm *assembler.Assembler, m *metrics.Metrics) (*Server, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{"field": form.ChapterFieldName}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		assembler: asm,
		metrics:   m,
		downloads: newDownloads(cfg.DownloadTTL),
		templates: tmpl,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	headers := &secure.Secure{
		FrameOption:        secure.FrameDeny,
		ContentTypeNoSniff: true,
		XSSFilterBlock:     true,
	}
	if s.cfg.TLS.Enabled {
		headers.STSMaxAgeSeconds = 31536000
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.Middleware)
	s.router.Use(logging.Recovery)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(headers.Middleware())

	s.router.Get("/", s.handleForm)
	s.router.With(httprate.LimitByIP(s.cfg.RateLimit, s.cfg.RateWindow)).
		Post("/generate", s.handleGenerate)
	s.router.Get("/download/{id}", s.handleDownload)
	s.router.Get("/healthz", s.handleHealthCheck)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
