package app

import (
	"github.com/dkeye/buzzd/internal/domain"
	"github.com/dkeye/buzzd/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Coordinator is the single entry point for room mutations. Each
// operation looks the room up, mutates it under the room's own lock
// and returns the snapshot captured inside that critical section, so
// the adapter never broadcasts a torn state.
//
// Host-only operations attempted by a non-host return ErrNotHost and
// change nothing; the adapter decides whether to surface that.
type Coordinator struct {
	registry *Registry
}

func NewCoordinator(registry *Registry) *Coordinator {
	return &Coordinator{registry: registry}
}

func (c *Coordinator) Registry() *Registry { return c.registry }

func (c *Coordinator) CreateRoom(conn domain.ConnID, hostName string) (domain.RoomSnapshot, error) {
	room, err := c.registry.Create(conn, hostName)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return room.Snapshot(), nil
}

func (c *Coordinator) JoinRoom(code domain.RoomCode, conn domain.ConnID, name string) (domain.RoomSnapshot, error) {
	room, ok := c.registry.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	player, err := domain.NewPlayer(conn, name)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return room.AddPlayer(player)
}

// LeaveResult tells the adapter which farewell to broadcast: the host
// leaving tears the room down, a player leaving yields a fresh
// snapshot.
type LeaveResult struct {
	HostLeft bool
	Snapshot domain.RoomSnapshot
}

func (c *Coordinator) LeaveRoom(code domain.RoomCode, conn domain.ConnID) (LeaveResult, error) {
	room, ok := c.registry.Get(code)
	if !ok {
		return LeaveResult{}, domain.ErrRoomNotFound
	}
	if room.IsHost(conn) {
		c.registry.Delete(code)
		log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("host left, room destroyed")
		return LeaveResult{HostLeft: true}, nil
	}
	snap, err := room.RemovePlayer(conn)
	if err != nil {
		return LeaveResult{}, err
	}
	return LeaveResult{Snapshot: snap}, nil
}

func (c *Coordinator) StartGame(code domain.RoomCode, conn domain.ConnID) (domain.RoomSnapshot, error) {
	room, ok := c.registry.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.Start(conn)
}

func (c *Coordinator) ResetGame(code domain.RoomCode, conn domain.ConnID) (domain.RoomSnapshot, error) {
	room, ok := c.registry.Get(code)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.Reset(conn)
}

func (c *Coordinator) Buzz(code domain.RoomCode, conn domain.ConnID, name string) (domain.Buzz, domain.RoomSnapshot, error) {
	room, ok := c.registry.Get(code)
	if !ok {
		return domain.Buzz{}, domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	buzz, snap, err := room.AppendBuzz(conn, name)
	if err != nil {
		return domain.Buzz{}, domain.RoomSnapshot{}, err
	}
	metrics.Buzzes.Inc()
	return buzz, snap, nil
}

func (c *Coordinator) KillRoom(code domain.RoomCode, conn domain.ConnID) error {
	room, ok := c.registry.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.IsHost(conn) {
		return domain.ErrNotHost
	}
	c.registry.Delete(code)
	log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("room killed by host")
	return nil
}

// DisconnectEffect describes what one room did in response to a
// connection going away.
type DisconnectEffect struct {
	Room     domain.RoomCode
	HostLeft bool
	Snapshot domain.RoomSnapshot
}

// Disconnect scans every live room for seats held by the connection.
// A hosted room is destroyed; a player seat is vacated. Connections
// holding no seats produce no effects.
func (c *Coordinator) Disconnect(conn domain.ConnID) []DisconnectEffect {
	var effects []DisconnectEffect
	for _, room := range c.registry.Rooms() {
		if room.IsHost(conn) {
			code := room.Code()
			c.registry.Delete(code)
			effects = append(effects, DisconnectEffect{Room: code, HostLeft: true})
			log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("host disconnected, room destroyed")
			continue
		}
		snap, err := room.RemovePlayer(conn)
		if err != nil {
			continue
		}
		effects = append(effects, DisconnectEffect{Room: room.Code(), Snapshot: snap})
	}
	return effects
}
