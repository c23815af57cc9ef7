// Package server exposes the scene generator and renderers over HTTP.
//
// The service is stateless: every request carries the seed and the
// generation parameters, and finished artifacts are cached by their
// input fingerprint. Endpoints:
//
//	GET  /healthz           liveness probe
//	GET  /v1/system.png     raster render
//	GET  /v1/system.svg     vector document
//	GET  /v1/system.json    snapshot document
//	POST /v1/import         validate a snapshot, echo its normalized form
//
// Render endpoints accept seed, planets, stars, moons, w and h query
// parameters.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orrery/pkg/cache"
	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/render/raster"
	"github.com/matzehuels/orrery/pkg/render/vector"
	"github.com/matzehuels/orrery/pkg/scene"
	"github.com/matzehuels/orrery/pkg/snapshot"
)

const (
	defaultSurfaceWidth  = 1200
	defaultSurfaceHeight = 800

	// maxSurfaceDim caps requested render sizes; 4K is the largest
	// export preset.
	maxSurfaceDim = 3840

	shutdownTimeout = 10 * time.Second
)

// Options configures the HTTP service.
type Options struct {
	Addr        string
	Cache       cache.Cache
	Logger      *log.Logger
	ArtifactTTL time.Duration
}

// Server is the HTTP front end. It owns no scene state; the artifact
// cache is the only shared resource.
type Server struct {
	addr   string
	cache  cache.Cache
	logger *log.Logger
	ttl    time.Duration
	http   *http.Server
}

// New builds a configured server. A nil cache disables artifact
// caching; a nil logger falls back to the default logger.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{
		addr:   opts.Addr,
		cache:  opts.Cache,
		logger: opts.Logger,
		ttl:    opts.ArtifactTTL,
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed separately so tests can
// drive the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/system.png", s.handlePNG)
	r.Get("/v1/system.svg", s.handleSVG)
	r.Get("/v1/system.json", s.handleSnapshot)
	r.Post("/v1/import", s.handleImport)
	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info("listening", "addr", s.addr)
	go func() {
		serveErr <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	})
}

// sceneQuery is the parsed render request.
type sceneQuery struct {
	seed int64
	cfg  scene.Config
	w, h int
}

func parseSceneQuery(r *http.Request) (sceneQuery, error) {
	q := sceneQuery{cfg: scene.DefaultConfig(), w: defaultSurfaceWidth, h: defaultSurfaceHeight}
	vals := r.URL.Query()

	if v := vals.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, errors.New(errors.ErrCodeInvalidConfig, "seed %q is not an integer", v)
		}
		q.seed = seed
	}
	if v := vals.Get("planets"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New(errors.ErrCodeInvalidConfig, "planets %q is not an integer", v)
		}
		q.cfg.NumPlanets = n
	}
	if v := vals.Get("stars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New(errors.ErrCodeInvalidConfig, "stars %q is not an integer", v)
		}
		q.cfg.NumStars = n
	}
	if v := vals.Get("moons"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return q, errors.New(errors.ErrCodeInvalidConfig, "moons %q is not a boolean", v)
		}
		q.cfg.ShowMoons = show
	}
	for _, dim := range []struct {
		name string
		dst  *int
	}{{"w", &q.w}, {"h", &q.h}} {
		v := vals.Get(dim.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxSurfaceDim {
			return q, errors.New(errors.ErrCodeInvalidConfig, "%s %q is not a valid dimension", dim.name, v)
		}
		*dim.dst = n
	}
	return q, nil
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.handleArtifact(w, r, "png", "image/png", func(q sceneQuery) ([]byte, error) {
		img, err := raster.Render(scene.Build(q.seed, q.cfg), q.w, q.h)
		if err != nil {
			return nil, err
		}
		return raster.EncodePNG(img)
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.handleArtifact(w, r, "svg", "image/svg+xml", func(q sceneQuery) ([]byte, error) {
		return vector.Render(scene.Build(q.seed, q.cfg), q.w, q.h)
	})
}

// handleArtifact serves one rendered artifact, consulting the cache
// before rendering. Cache failures degrade to a fresh render.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request, format, contentType string, produce func(sceneQuery) ([]byte, error)) {
	q, err := parseSceneQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := cache.ArtifactKey(q.seed, cache.ConfigHash(q.cfg), format, q.w, q.h)
	if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warn("cache get failed", "key", key, "err", err)
	} else if ok {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
		return
	}

	data, err := produce(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	q, err := parseSceneQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := snapshot.Write(scene.Build(q.seed, q.cfg), w); err != nil {
		s.logger.Error("write snapshot", "err", err)
	}
}

// handleImport validates a snapshot document and echoes the normalized
// form the generator would reproduce. Nothing is persisted; a broken
// document is rejected without side effects.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	doc, err := snapshot.Read(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	seed, cfg, err := snapshot.Decode(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := snapshot.Write(scene.Build(seed, cfg), w); err != nil {
		s.logger.Error("write snapshot", "err", err)
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	body.Error.Message = errors.UserMessage(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeRenderTarget:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeExportInFlight:
		return http.StatusConflict
	case errors.ErrCodeResource:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
