package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/umlweb"
	"github.com/aretw0/umlweb/pkg/store"
)

// Server exposes a Store over REST.
type Server struct {
	Store   *store.Store
	Streams *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	origins  []string
	now      func() time.Time
}

// Option configures the handler returned by NewHandler.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics serves g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCORSOrigins restricts the allowed origins (default any).
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithClock overrides the time used to name exported files.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewHandler creates the REST handler for st. Store changes are streamed to
// GET /events subscribers until the returned handler is discarded.
func NewHandler(st *store.Store, opts ...Option) http.Handler {
	s := &Server{
		Store:   st,
		Streams: NewStreamManager(),
		logger:  slog.New(slog.DiscardHandler),
		origins: []string{"*"},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	st.Subscribe(s.broadcast)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/project", func(r chi.Router) {
		r.Get("/", s.GetProject)
		r.Put("/", s.PutProject)
		r.Delete("/", s.ResetProject)
		r.Get("/export", s.ExportXML)
		r.Post("/import", s.ImportXML)
		r.Get("/report", s.ProjectReport)
		r.Get("/diagram.mmd", s.Mermaid)
		r.Get("/diagram.dot", s.DOT)
		r.Get("/diagram.svg", s.SVG)
	})

	r.Route("/canvas", func(r chi.Router) {
		r.Get("/nodes", s.CanvasNodes)
		r.Get("/edges", s.CanvasEdges)
		r.Post("/drop", s.CanvasDrop)
		r.Post("/connect", s.Connect)
		r.Put("/positions/{id}", s.SetPosition)
	})

	r.Route("/actors", func(r chi.Router) {
		r.Post("/", s.AddActor)
		r.Patch("/{id}", s.UpdateActor)
		r.Delete("/{id}", s.RemoveActor)
	})

	r.Route("/use-cases", func(r chi.Router) {
		r.Post("/", s.AddUseCase)
		r.Patch("/{id}", s.UpdateUseCase)
		r.Delete("/{id}", s.RemoveUseCase)
		r.Get("/{id}/report", s.UseCaseReport)

		r.Post("/{id}/phrases", s.AddPhrase)
		r.Put("/{id}/phrases/{phraseID}", s.EditPhrase)
		r.Delete("/{id}/phrases/{phraseID}", s.RemovePhrase)

		r.Post("/{id}/alternative-flows", s.AddAlternativeFlow)
		r.Patch("/{id}/alternative-flows/{altID}", s.UpdateAlternativeFlow)
		r.Delete("/{id}/alternative-flows/{altID}", s.RemoveAlternativeFlow)
		r.Post("/{id}/alternative-flows/{altID}/phrases", s.AddAlternativeFlowPhrase)
		r.Put("/{id}/alternative-flows/{altID}/phrases/{phraseID}", s.EditAlternativeFlowPhrase)
		r.Delete("/{id}/alternative-flows/{altID}/phrases/{phraseID}", s.RemoveAlternativeFlowPhrase)
	})

	r.Route("/links", func(r chi.Router) {
		r.Post("/", s.AddLink)
		r.Delete("/{id}", s.RemoveLink)
	})
	r.Route("/associations", func(r chi.Router) {
		r.Post("/", s.AddAssociation)
		r.Delete("/{id}", s.RemoveAssociation)
	})

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.GetSelection)
		r.Put("/focus", s.Focus)
		r.Put("/inspector", s.OpenInspector)
		r.Delete("/inspector", s.CloseInspector)
	})

	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "umlweb-http",
		"version": strings.TrimSpace(umlweb.Version),
	})
}

func (s *Server) broadcast(c store.Change) {
	event := Event{Op: c.Op, Diff: c.Diff}
	if c.Diff == nil {
		sel := c.Selection
		event.Selection = &sel
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode event", "op", c.Op, "err", err)
		return
	}
	s.Streams.Broadcast(string(payload))
}
