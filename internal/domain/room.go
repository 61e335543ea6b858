// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxPlayerNameLen = 36

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")

	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost        = errors.New("not the room host")
	ErrRoundInactive  = errors.New("round not active")
)

// ConnID is the transport-assigned identifier of one client connection.
type ConnID string

// RoomCode identifies a live room. A code is free for reuse once its
// room is destroyed.
type RoomCode string

type Player struct {
	ID   ConnID `json:"playerID"`
	Name string `json:"name"`
}

// NewPlayer keeps name validation out of the adapters.
func NewPlayer(id ConnID, name string) (Player, error) {
	if len(name) == 0 {
		return Player{}, ErrNameEmpty
	}
	if len(name) > MaxPlayerNameLen {
		return Player{}, ErrNameTooLong
	}
	return Player{ID: id, Name: name}, nil
}

// Buzz is one accepted buzz. Timestamp is wall-clock milliseconds for
// clients; Seq is the server-assigned arrival order that breaks ties
// between near-simultaneous buzzes.
type Buzz struct {
	PlayerID   ConnID `json:"playerID"`
	PlayerName string `json:"playerName"`
	Timestamp  int64  `json:"timestamp"`
	Seq        uint64 `json:"-"`
}

// RoomSnapshot is a read-only copy of a room, taken under the room lock.
// Every state change rebroadcasts the whole snapshot rather than a diff.
type RoomSnapshot struct {
	RoomID       RoomCode `json:"roomID"`
	Host         string   `json:"host"`
	HostID       ConnID   `json:"hostID"`
	Players      []Player `json:"players"`
	Buzzes       []Buzz   `json:"buzzes"`
	IsGameActive bool     `json:"isGameActive"`
}
