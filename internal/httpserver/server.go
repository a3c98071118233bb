// internal/httpserver/server.go
//
// HTTP wiring for the word-grab backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, CORS).
//   - Diagnostics: "/", "/health", "/debug/words", "/debug/rooms".
//   - GET /ws: websocket upgrade into a player session.
//
// The server is a pure transport collaborator: it decodes client payloads
// into room actions, forwards them through the registry, and fans the
// returned events back out to the room's connections. It never mutates game
// state itself.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/game"
	"github.com/tilegrab/go-server/internal/lexicon"
	"github.com/tilegrab/go-server/internal/notify"
	"github.com/tilegrab/go-server/internal/registry"
)

// Server bundles the router, the room registry and the live sessions.
type Server struct {
	r        *chi.Mux
	registry *registry.Registry
	lex      *lexicon.Lexicon
	notifier notify.Notifier
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session // keyed by player id
}

// New constructs a Server, installs middleware, and registers routes.
func New(reg *registry.Registry, lex *lexicon.Lexicon, notifier notify.Notifier) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		registry: reg,
		lex:      lex,
		notifier: notifier,
		sessions: make(map[string]*session),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: checkOriginFromEnv()}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"service":"tilegrab-go","endpoints":["/health","GET /ws"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Debug: dictionary size and live room count.
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"words": s.lex.Size()})
	})
	s.r.Get("/debug/rooms", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"rooms": s.registry.Count()})
	})

	s.r.Get("/ws", s.handleWS)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleWS upgrades the connection and runs the session read loop until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sess := newSession(s, conn)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go sess.run()
}

// sessionFor returns the live session for a player id.
func (s *Server) sessionFor(playerID string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[playerID]
	return sess, ok
}

// dropSession forgets a closed session.
func (s *Server) dropSession(playerID string) {
	s.mu.Lock()
	delete(s.sessions, playerID)
	s.mu.Unlock()
}

// deliver fans room events out: targeted events go to one session,
// broadcasts to every player currently in the room (minus Except).
func (s *Server) deliver(room *game.Room, events []game.Event) {
	for _, ev := range events {
		if ev.To != "" {
			if sess, ok := s.sessionFor(ev.To); ok {
				sess.send(ev.Type, ev.Data)
			}
			continue
		}
		for _, id := range room.PlayerIDs() {
			if id == ev.Except {
				continue
			}
			if sess, ok := s.sessionFor(id); ok {
				sess.send(ev.Type, ev.Data)
			}
		}
	}
}

// checkOriginFromEnv allows the configured client origin, or any origin
// when CLIENT_ORIGIN is unset (development).
func checkOriginFromEnv() func(*http.Request) bool {
	origin := os.Getenv("CLIENT_ORIGIN")
	return func(r *http.Request) bool {
		if origin == "" {
			return true
		}
		return r.Header.Get("Origin") == origin
	}
}

// corsFromEnv mirrors the websocket origin policy for the plain HTTP routes.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
