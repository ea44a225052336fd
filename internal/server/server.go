package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nao1215/sitepulse/internal/analysis"
	"github.com/nao1215/sitepulse/internal/kvstore"
	"github.com/nao1215/sitepulse/internal/model"
	"github.com/nao1215/sitepulse/internal/probe"
	"github.com/nao1215/sitepulse/internal/simulator"
)

// maxBodySize bounds request bodies. Report bodies may embed a screenshot.
const maxBodySize = 16 << 20

// Analyzer runs analyses. *analysis.Service satisfies it.
type Analyzer interface {
	LiveEnabled() bool
	Analyze(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, urls []string) ([]analysis.Outcome, error)
}

// History persists saved analyses. *history.Store satisfies it.
type History interface {
	Save(ctx context.Context, result *model.AnalysisResult) ([]model.HistoryEntry, error)
	List(ctx context.Context) ([]model.HistoryEntry, error)
	Get(ctx context.Context, id string) (*model.HistoryEntry, bool, error)
	Compare(ctx context.Context, id1, id2 string) (*model.Comparison, error)
	Clear(ctx context.Context) error
}

// Prober checks site reachability. *probe.Prober satisfies it.
type Prober interface {
	Check(ctx context.Context, target string) *probe.Result
}

// KeySetter receives a new audit API key. *pagespeed.Client satisfies it.
type KeySetter interface {
	SetAPIKey(key string)
}

// Server holds the API dependencies.
type Server struct {
	analyzer Analyzer
	history  History
	kv       kvstore.Store
	prober   Prober
	keys     KeySetter
	logger   *slog.Logger
	now      func() time.Time
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock sets the clock used for report and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAllowedOrigins restricts CORS to origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithProber sets the site prober used by /api/check.
func WithProber(p Prober) Option {
	return func(s *Server) {
		s.prober = p
	}
}

// WithKeySetter receives API keys stored through /api/settings.
func WithKeySetter(k KeySetter) Option {
	return func(s *Server) {
		s.keys = k
	}
}

// New creates a Server.
func New(analyzer Analyzer, hist History, kv kvstore.Store, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		history:  hist,
		kv:       kv,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.prober == nil {
		s.prober = probe.New()
	}
	return s
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/healthz", s.wrap(s.handleHealth))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.wrap(s.handleAnalyze))
		r.Post("/analyze/batch", s.wrap(s.handleAnalyzeBatch))

		r.Get("/history", s.wrap(s.handleHistoryList))
		r.Delete("/history", s.wrap(s.handleHistoryClear))
		r.Get("/history/export", s.wrap(s.handleHistoryExport))
		r.Get("/history/{id}", s.wrap(s.handleHistoryGet))

		r.Get("/compare", s.wrap(s.handleCompare))
		r.Post("/report", s.wrap(s.handleReport))

		r.Get("/settings", s.wrap(s.handleSettingsGet))
		r.Put("/settings", s.wrap(s.handleSettingsPut))

		r.Get("/check", s.wrap(s.handleCheck))
	})

	return r
}

func (s *Server) corsOptions() cors.Options {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}
}

// Run serves the API on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap converts handler errors into JSON error responses.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var reqErr *requestError
		var inputErr *simulator.InputError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &reqErr):
			writeError(w, reqErr.code, reqErr.msg)
		case errors.As(err, &inputErr):
			writeError(w, http.StatusBadRequest, inputErr.Error())
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		default:
			s.logger.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	_ = writeJSON(w, code, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
