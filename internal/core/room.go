package core

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/buzzd/internal/domain"
	"github.com/rs/zerolog/log"
)

// Room is a threadsafe in-memory game session. It owns the player list
// and the buzz ledger but never touches transport resources.
//
// The host connection id is fixed at creation; there is no host
// transfer. A closed room rejects every mutation with ErrRoomNotFound
// so that an operation racing the registry delete cannot resurrect it.
type Room struct {
	code     domain.RoomCode
	hostID   domain.ConnID
	hostName string

	mu      sync.Mutex
	players []domain.Player
	buzzes  []domain.Buzz
	active  bool
	closed  bool
	buzzSeq uint64
}

func NewRoom(code domain.RoomCode, hostID domain.ConnID, hostName string) *Room {
	return &Room{
		code:     code,
		hostID:   hostID,
		hostName: hostName,
	}
}

func (r *Room) Code() domain.RoomCode { return r.code }
func (r *Room) HostID() domain.ConnID { return r.hostID }

func (r *Room) IsHost(id domain.ConnID) bool { return id == r.hostID }

// AddPlayer seats a player. A connection id appears at most once per
// room: rejoining with the same id updates the display name in place.
func (r *Room) AddPlayer(p domain.Player) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	for i := range r.players {
		if r.players[i].ID == p.ID {
			r.players[i].Name = p.Name
			return r.snapshotLocked(), nil
		}
	}
	r.players = append(r.players, p)
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("player", string(p.ID)).Msg("player added")
	return r.snapshotLocked(), nil
}

func (r *Room) RemovePlayer(id domain.ConnID) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	for i := range r.players {
		if r.players[i].ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("player", string(id)).Msg("player removed")
			return r.snapshotLocked(), nil
		}
	}
	return domain.RoomSnapshot{}, domain.ErrPlayerNotFound
}

// Start flips the room into the active round. Host only.
func (r *Room) Start(by domain.ConnID) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	if by != r.hostID {
		return domain.RoomSnapshot{}, domain.ErrNotHost
	}
	r.active = true
	return r.snapshotLocked(), nil
}

// Reset clears the ledger and returns the room to the lobby,
// regardless of prior state. Host only.
func (r *Room) Reset(by domain.ConnID) (domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	if by != r.hostID {
		return domain.RoomSnapshot{}, domain.ErrNotHost
	}
	r.active = false
	r.buzzes = nil
	return r.snapshotLocked(), nil
}

// AppendBuzz records a buzz for the current round. The timestamp and
// sequence number are assigned here, under the lock, so the ledger is
// totally ordered by arrival even when client clocks would tie.
func (r *Room) AppendBuzz(id domain.ConnID, name string) (domain.Buzz, domain.RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.Buzz{}, domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	if !r.active {
		return domain.Buzz{}, domain.RoomSnapshot{}, domain.ErrRoundInactive
	}
	r.buzzSeq++
	buzz := domain.Buzz{
		PlayerID:   id,
		PlayerName: name,
		Timestamp:  time.Now().UnixMilli(),
		Seq:        r.buzzSeq,
	}
	r.buzzes = append(r.buzzes, buzz)
	sort.SliceStable(r.buzzes, func(i, j int) bool {
		if r.buzzes[i].Timestamp != r.buzzes[j].Timestamp {
			return r.buzzes[i].Timestamp < r.buzzes[j].Timestamp
		}
		return r.buzzes[i].Seq < r.buzzes[j].Seq
	})
	log.Debug().Str("module", "core.room").Str("room", string(r.code)).Str("player", string(id)).Int("buzzes", len(r.buzzes)).Msg("buzz accepted")
	return buzz, r.snapshotLocked(), nil
}

// Close marks the room destroyed. Idempotent.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Seated reports whether the connection holds a seat here, as host or
// player.
func (r *Room) Seated(id domain.ConnID) bool {
	if id == r.hostID {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.players {
		if r.players[i].ID == id {
			return true
		}
	}
	return false
}

func (r *Room) Snapshot() domain.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() domain.RoomSnapshot {
	players := make([]domain.Player, len(r.players))
	copy(players, r.players)
	buzzes := make([]domain.Buzz, len(r.buzzes))
	copy(buzzes, r.buzzes)
	return domain.RoomSnapshot{
		RoomID:       r.code,
		Host:         r.hostName,
		HostID:       r.hostID,
		Players:      players,
		Buzzes:       buzzes,
		IsGameActive: r.active,
	}
}
