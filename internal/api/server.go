package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/resumelang/internal/config"
	"github.com/dgallion1/resumelang/internal/markup"
	"github.com/dgallion1/resumelang/internal/metrics"
	"github.com/dgallion1/resumelang/internal/parser"
	"github.com/dgallion1/resumelang/internal/source"
)

// Server is the HTTP API server for resumelang.
type Server struct {
	router   chi.Router
	log      *slog.Logger
	cfg      config.Config
	renderer markup.Renderer
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	docs     *source.Dir
}

// NewServer creates and configures the HTTP server. Parse metrics are
// registered with reg and served from /metrics.
func NewServer(log *slog.Logger, cfg config.Config, reg *prometheus.Registry) *Server {
	s := &Server{
		log:      log,
		cfg:      cfg,
		renderer: markup.New(),
		metrics:  metrics.New(reg),
		gatherer: reg,
		docs:     source.NewDir(cfg.RootDir),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/format", s.handleFormat)
		r.Get("/api/documents/{name}", s.handleDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// newParser returns a parser for one request. Parsers are cheap; the
// renderer and metrics are shared.
func (s *Server) newParser(mode parser.Mode, reader source.Reader, rootDir string) *parser.Parser {
	return parser.New(
		parser.WithRootDir(rootDir),
		parser.WithReader(reader),
		parser.WithRenderer(s.renderer),
		parser.WithLogger(s.log),
		parser.WithMode(mode),
		parser.WithMaxImportDepth(s.cfg.MaxImportDepth),
		parser.WithObserver(s.metrics),
	)
}
