package signal

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/buzzd/internal/domain"
	"github.com/rs/zerolog/log"
)

// sender is the transport end a hub entry fans out to. Narrow on
// purpose so tests can use fakes.
type sender interface {
	TrySend([]byte) error
}

// hub tracks which connections are subscribed to which room channel.
// Publishing to a room delivers to every subscriber, the sender
// included. Slow subscribers get dropped frames, never a blocked
// coordinator.
type hub struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]map[domain.ConnID]sender
}

func newHub() *hub {
	return &hub{rooms: make(map[domain.RoomCode]map[domain.ConnID]sender)}
}

func (h *hub) subscribe(code domain.RoomCode, id domain.ConnID, s sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[code]
	if !ok {
		subs = make(map[domain.ConnID]sender)
		h.rooms[code] = subs
	}
	subs[id] = s
}

func (h *hub) unsubscribe(code domain.RoomCode, id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[code]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(h.rooms, code)
		}
	}
}

// dropConn removes the connection from every channel it subscribed to.
func (h *hub) dropConn(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for code, subs := range h.rooms {
		delete(subs, id)
		if len(subs) == 0 {
			delete(h.rooms, code)
		}
	}
}

// dropRoom removes the whole channel after a room teardown.
func (h *hub) dropRoom(code domain.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, code)
}

func (h *hub) broadcast(code domain.RoomCode, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Msg("broadcast marshal")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent, dropped := 0, 0
	for _, s := range h.rooms[code] {
		if err := s.TrySend(data); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "signal.hub").Str("room", string(code)).Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast result")
}
