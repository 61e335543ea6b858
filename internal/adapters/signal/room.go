package signal

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/buzzd/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleCreateRoom(sid domain.ConnID, conn *wsConn, data []byte) {
	type payload struct {
		Type     string `json:"type"`
		HostName string `json:"hostName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createRoom payload")
		ctl.sendJSON(conn, newError("bad payload"))
		return
	}
	if !ctl.limiter.Allow(sid) {
		ctl.sendJSON(conn, newError("too many requests"))
		return
	}
	if _, err := domain.NewPlayer(sid, p.HostName); err != nil {
		ctl.sendJSON(conn, newError("invalid host name"))
		return
	}

	snap, err := ctl.Coord.CreateRoom(sid, p.HostName)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("create room")
		ctl.sendJSON(conn, newError("could not create room"))
		return
	}

	ctl.hub.subscribe(snap.RoomID, sid, conn)
	ctl.sendJSON(conn, newRoomCreated(snap))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(snap.RoomID)).Msg("room created")
}

func (ctl *Controller) handleJoinRoom(sid domain.ConnID, conn *wsConn, data []byte) {
	type payload struct {
		Type       string          `json:"type"`
		RoomID     domain.RoomCode `json:"roomID"`
		PlayerName string          `json:"playerName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinRoom payload")
		ctl.sendJSON(conn, newError("bad payload"))
		return
	}

	snap, err := ctl.Coord.JoinRoom(p.RoomID, sid, p.PlayerName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			ctl.sendJSON(conn, newError("Room not found"))
		default:
			ctl.sendJSON(conn, newError("Invalid player name"))
		}
		return
	}

	ctl.hub.subscribe(p.RoomID, sid, conn)
	ctl.sendJSON(conn, newRoomJoined(p.PlayerName, snap))
	ctl.hub.broadcast(p.RoomID, newRoomStateUpdate(snap))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("joined room")
}

func (ctl *Controller) handleLeaveRoom(sid domain.ConnID, conn *wsConn, data []byte) {
	type payload struct {
		Type     string          `json:"type"`
		RoomCode domain.RoomCode `json:"roomCode"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leaveRoom payload")
		ctl.sendJSON(conn, newError("bad payload"))
		return
	}

	res, err := ctl.Coord.LeaveRoom(p.RoomCode, sid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			ctl.sendJSON(conn, newError("Room not found"))
		case errors.Is(err, domain.ErrPlayerNotFound):
			ctl.sendJSON(conn, newError("You are not in this room"))
		default:
			ctl.sendJSON(conn, newError("could not leave room"))
		}
		return
	}

	if res.HostLeft {
		ctl.hub.broadcast(p.RoomCode, newRoomClosed("Host has left the game"))
		ctl.hub.dropRoom(p.RoomCode)
		return
	}
	ctl.hub.broadcast(p.RoomCode, newRoomStateUpdate(res.Snapshot))
	ctl.hub.unsubscribe(p.RoomCode, sid)
}
