package app

import (
	"fmt"
	"sync"

	"github.com/dkeye/buzzd/internal/core"
	"github.com/dkeye/buzzd/internal/domain"
	"github.com/dkeye/buzzd/internal/metrics"
	"github.com/rs/zerolog/log"
)

const maxCodeAttempts = 10

// Registry owns the code -> room table. It is constructed once at
// process start and passed explicitly to the coordinator; there is no
// ambient global.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]*core.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomCode]*core.Room)}
}

// Create inserts a new lobby-state room under a code that no live room
// holds. The collision check runs under the registry lock, so two
// racing creates can never be assigned the same code.
func (g *Registry) Create(hostID domain.ConnID, hostName string) (*core.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < maxCodeAttempts; i++ {
		code, err := domain.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := g.rooms[code]; exists {
			continue
		}
		room := core.NewRoom(code, hostID, hostName)
		g.rooms[code] = room
		metrics.RoomsCreated.Inc()
		metrics.RoomsLive.Set(float64(len(g.rooms)))
		log.Info().Str("module", "app.registry").Str("room", string(code)).Str("host", string(hostID)).Msg("room created")
		return room, nil
	}
	return nil, fmt.Errorf("no unique room code after %d attempts", maxCodeAttempts)
}

func (g *Registry) Get(code domain.RoomCode) (*core.Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

// Delete removes the room and marks it closed so that an operation
// already holding a reference sees ErrRoomNotFound instead of mutating
// a zombie. Idempotent if the code is already absent.
func (g *Registry) Delete(code domain.RoomCode) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	if ok {
		delete(g.rooms, code)
		metrics.RoomsLive.Set(float64(len(g.rooms)))
	}
	g.mu.Unlock()

	if ok {
		room.Close()
		log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("room deleted")
	}
}

// Rooms returns the current room set for the disconnect scan. The
// slice is a copy; callers lock each room as they touch it.
func (g *Registry) Rooms() []*core.Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*core.Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
