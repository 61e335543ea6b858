package signal

import (
	"encoding/json"

	"github.com/dkeye/buzzd/internal/domain"
	"github.com/rs/zerolog/log"
)

type gamePayload struct {
	Type       string          `json:"type"`
	RoomCode   domain.RoomCode `json:"roomCode"`
	PlayerName string          `json:"playerName,omitempty"`
}

// Start, reset, buzz and kill share the silent-failure policy: a
// non-host caller or an inactive round produces no outbound event at
// all, only a debug log. The coordinator still reports the reason.

func (ctl *Controller) handleStartGame(sid domain.ConnID, data []byte) {
	var p gamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad startGame payload")
		return
	}
	snap, err := ctl.Coord.StartGame(p.RoomCode, sid)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomCode)).Msg("startGame ignored")
		return
	}
	ctl.hub.broadcast(p.RoomCode, newRoomStateUpdate(snap))
}

func (ctl *Controller) handleResetGame(sid domain.ConnID, data []byte) {
	var p gamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad resetGame payload")
		return
	}
	snap, err := ctl.Coord.ResetGame(p.RoomCode, sid)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomCode)).Msg("resetGame ignored")
		return
	}
	ctl.hub.broadcast(p.RoomCode, newRoomStateUpdate(snap))
	ctl.hub.broadcast(p.RoomCode, newResetGame())
}

func (ctl *Controller) handleBuzz(sid domain.ConnID, data []byte) {
	var p gamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad buzz payload")
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("buzz rate limited")
		return
	}
	buzz, snap, err := ctl.Coord.Buzz(p.RoomCode, sid, p.PlayerName)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomCode)).Msg("buzz ignored")
		return
	}
	ctl.hub.broadcast(p.RoomCode, newNewBuzz(buzz))
	ctl.hub.broadcast(p.RoomCode, newRoomStateUpdate(snap))
	log.Info().Str("module", "signal").Str("player", p.PlayerName).Str("room", string(p.RoomCode)).Msg("buzz")
}

func (ctl *Controller) handleKillRoom(sid domain.ConnID, data []byte) {
	var p gamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad killRoom payload")
		return
	}
	if err := ctl.Coord.KillRoom(p.RoomCode, sid); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomCode)).Msg("killRoom ignored")
		return
	}
	ctl.hub.broadcast(p.RoomCode, newExitRoom())
	ctl.hub.dropRoom(p.RoomCode)
}
