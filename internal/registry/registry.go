// internal/registry/registry.go
//
// Room registry: creates rooms with short uppercase codes, looks them up,
// and drops them once their last player has left. Rooms are fully
// independent; the registry only guards the code→room map.

package registry

import (
	"math/rand"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/tilegrab/go-server/internal/game"
	"github.com/tilegrab/go-server/internal/lexicon"
)

const (
	codeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeBaseLength = 4
	// codeRetries collisions at one length before growing the code.
	codeRetries = 10
)

// Registry holds the live rooms keyed by room code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room

	lex    *lexicon.Lexicon
	scorer game.Scorer
}

// New returns an empty Registry. All rooms created through it share the
// lexicon and scoring configuration.
func New(lex *lexicon.Lexicon, scorer game.Scorer) *Registry {
	return &Registry{
		rooms:  make(map[string]*game.Room),
		lex:    lex,
		scorer: scorer,
	}
}

// Create makes a new room with a fresh code and the host already joined.
func (r *Registry) Create(hostID, hostName string) *game.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCodeLocked()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	room := game.NewRoom(code, r.lex, r.scorer, rng, hostID, hostName)
	r.rooms[code] = room

	log.Info().Str("room", code).Str("host", hostID).Msg("room created")
	return room
}

// Get looks up a room by code.
func (r *Registry) Get(code string) (*game.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// Remove drops a room if it is empty. Returns whether it was removed.
func (r *Registry) Remove(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok || !room.Empty() {
		return false
	}
	delete(r.rooms, code)
	log.Info().Str("room", code).Msg("room torn down")
	return true
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// generateCodeLocked draws random codes until one is unused, growing the
// code length after repeated collisions.
func (r *Registry) generateCodeLocked() string {
	length := codeBaseLength
	attempts := 0
	for {
		code := gonanoid.MustGenerate(codeAlphabet, length)
		if _, taken := r.rooms[code]; !taken {
			return code
		}
		if attempts++; attempts > codeRetries {
			length++
			attempts = 0
		}
	}
}
