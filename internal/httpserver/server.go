// internal/httpserver/server.go
//
// HTTP server wiring for the connections backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     access log, metrics, JSON, CORS, body size limit).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Puzzle endpoints: POST /api/create, GET /api/fetch/{id}.
//   - Static frontend under /index when the build directory exists.
//
// Notes:
//   - Validation messages are returned verbatim with 400; internal failures
//     only return a short code and are logged with the request id.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/metrics"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/store"
)

// Options configures a Server.
type Options struct {
	ClientOrigins  []string
	StaticDir      string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Metrics        *metrics.Metrics
}

// Server bundles router, puzzle service, and store handle.
type Server struct {
	r     *chi.Mux
	svc   *puzzles.Service
	store store.Store
	opts  Options
	http  *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *puzzles.Service, st store.Store, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Server{r: chi.NewRouter(), svc: svc, store: st, opts: opts}
	s.http = &http.Server{
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // zerolog request log
	s.r.Use(opts.Metrics.Middleware)            // prometheus
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(corsHandler(opts.ClientOrigins))    // browser client on another origin

	// --- diagnostics ---
	s.r.With(jsonContentType).Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","/metrics","POST /api/create","GET /api/fetch/{id}"]}`))
	})
	s.r.With(jsonContentType).Get("/health", s.handleHealth)
	s.r.Handle("/metrics", opts.Metrics.Handler())

	// --- puzzles ---
	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.With(limitBody(opts.MaxBodyBytes)).Post("/create", s.handleCreate)
		r.Get("/fetch/{id}", s.handleFetch)
	})

	// --- frontend ---
	s.mountStatic()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start listens on addr and serves HTTP. It returns http.ErrServerClosed
// after Shutdown, including when Shutdown ran first.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	return s.http.Serve(ln)
}

// Shutdown gracefully stops the server. Safe to call before or during Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsHandler allows the configured origins; "*" allows any origin.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Access-Control-Allow-Origin"},
		MaxAge:         300,
	})
}

// limitBody caps request bodies at n bytes.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog attaches a request-scoped zerolog logger and logs each request
// once it completes.
func accessLog(next http.Handler) http.Handler {
	logged := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		lvl := zerolog.InfoLevel
		if status >= 500 {
			lvl = zerolog.WarnLevel
		}
		hlog.FromRequest(r).WithLevel(lvl).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
	return hlog.NewHandler(log.Logger)(withRequestID(logged))
}

// withRequestID tags the request logger with chi's request id.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("requestId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ PUZZLES ------------------------------------

type createRes struct {
	ID string `json:"id"`
}

type fetchRes struct {
	GameEncoding string `json:"game_encoding"`
}

// handleCreate validates, encodes and stores a puzzle, returning its id.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req puzzle.GameState
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	id, err := s.svc.Create(r.Context(), req)
	if err != nil {
		var ve *puzzle.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, puzzle.ErrEncoding):
			hlog.FromRequest(r).Error().Err(err).Msg("encode puzzle")
			writeError(w, http.StatusInternalServerError, "encode_failed")
		default:
			hlog.FromRequest(r).Error().Err(err).Msg("save puzzle")
			writeError(w, http.StatusInternalServerError, "save_failed")
		}
		return
	}

	hlog.FromRequest(r).Info().Str("id", id.String()).
		Int("rows", req.Rows).Int("categorySize", req.CategorySize).
		Msg("puzzle created")
	writeJSON(w, http.StatusOK, createRes{ID: id.String()})
}

// handleFetch returns the stored token for {id}.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token, err := s.svc.Fetch(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("id", id).Msg("fetch puzzle")
		writeError(w, http.StatusInternalServerError, "fetch_failed")
		return
	}
	writeJSON(w, http.StatusOK, fetchRes{GameEncoding: token})
}

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health: store unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ------------------------------ STATIC -------------------------------------

// mountStatic serves the built frontend under /index if StaticDir exists.
func (s *Server) mountStatic() {
	dir := s.opts.StaticDir
	if dir == "" {
		return
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		log.Warn().Str("dir", dir).Msg("static dir not found; frontend not served")
		return
	}
	fs := http.StripPrefix("/index", http.FileServer(http.Dir(dir)))
	s.r.Get("/index", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/index/", http.StatusMovedPermanently)
	})
	s.r.Get("/index/*", fs.ServeHTTP)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
