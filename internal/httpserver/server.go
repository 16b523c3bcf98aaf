// internal/httpserver/server.go
//
// HTTP server wiring for the cursed-dice backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Run endpoints (optional auth): /runs/* drive a live game.Session.
//   - Daily run endpoints (optional auth): mounted under /daily.
//   - Progress + settings (optional auth): /progress, /settings.
//   - Auth endpoints: /auth/*.
//   - Live event stream: GET /runs/{id}/events (websocket).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests are identified by an anonymous cookie; their progress is keyed
//     by that id until they sign up.
//   - The websocket route sits outside the request timeout middleware.
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/internal/config"
	"github.com/robalobadob/cursed-dice/internal/daily"
	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/game"
	"github.com/robalobadob/cursed-dice/internal/progression"
	"github.com/robalobadob/cursed-dice/internal/settings"
	"github.com/robalobadob/cursed-dice/internal/store"
)

// Deps are the collaborators a Server needs. Zero-value stores are replaced
// by in-memory ones.
type Deps struct {
	Config   config.Config
	Modes    progression.File
	Runs     store.RunStore
	Users    store.UserStore
	Progress store.ProgressStore
	Settings settings.Provider
	Daily    daily.Store
	Clock    game.Clock
	// NewSource supplies dice for normal runs; nil means dice.NewSource.
	// Daily runs always use the date seed.
	NewSource func() dice.Source
}

// Server bundles the router and its dependencies.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	modes    progression.File
	runs     store.RunStore
	users    store.UserStore
	progress store.ProgressStore
	settings settings.Provider
	clock    game.Clock
	source   func() dice.Source
	daily    *dailyServer
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Runs == nil {
		d.Runs = store.NewMemoryStore()
	}
	if d.Users == nil {
		d.Users = store.NewMemoryUserStore()
	}
	if d.Progress == nil {
		d.Progress = store.NewMemoryProgressStore()
	}
	if d.Settings == nil {
		d.Settings = settings.NewMemoryProvider()
	}
	if d.Daily == nil {
		d.Daily = daily.NewMemoryStore()
	}
	if d.Clock == nil {
		d.Clock = game.SystemClock()
	}
	if d.NewSource == nil {
		d.NewSource = dice.NewSource
	}
	if len(d.Modes.Modes) == 0 {
		d.Modes = progression.DefaultModes()
	}

	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		modes:    d.Modes,
		runs:     d.Runs,
		users:    d.Users,
		progress: d.Progress,
		settings: d.Settings,
		clock:    d.Clock,
		source:   d.NewSource,
	}
	s.daily = newDailyServer(s, d.Daily)
	origin := s.cfg.ClientOrigin
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == origin
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.corsFromConfig)

	// Live stream: long-lived, no handler timeout.
	s.r.With(s.withOptionalAuth()).Get("/runs/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"cursed-dice","endpoints":["/health","POST /runs","/daily","/progress","/settings","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountAuthRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			s.mountRuns(r)
			s.daily.mount(r)
			s.mountProgress(r)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.r)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromConfig enables credentialed CORS for the configured client origin.
func (s *Server) corsFromConfig(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes an optional JSON body into v. An empty body is fine.
func decodeBody(r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(v)
	return err == nil || errors.Is(err, io.EOF)
}
