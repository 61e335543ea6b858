package signal

import "github.com/dkeye/buzzd/internal/domain"

// Outbound event shapes. Every message carries a "type" discriminator;
// state-changing events rebroadcast the whole room snapshot.

type roomCreatedEvent struct {
	Type         string          `json:"type"`
	RoomID       domain.RoomCode `json:"roomID"`
	HostName     string          `json:"hostName"`
	HostID       domain.ConnID   `json:"hostID"`
	IsGameActive bool            `json:"isGameActive"`
}

func newRoomCreated(snap domain.RoomSnapshot) roomCreatedEvent {
	return roomCreatedEvent{
		Type:         "roomCreated",
		RoomID:       snap.RoomID,
		HostName:     snap.Host,
		HostID:       snap.HostID,
		IsGameActive: snap.IsGameActive,
	}
}

type roomJoinedEvent struct {
	Type      string              `json:"type"`
	RoomID    domain.RoomCode     `json:"roomID"`
	Name      string              `json:"name"`
	RoomState domain.RoomSnapshot `json:"roomState"`
}

func newRoomJoined(name string, snap domain.RoomSnapshot) roomJoinedEvent {
	return roomJoinedEvent{
		Type:      "roomJoined",
		RoomID:    snap.RoomID,
		Name:      name,
		RoomState: snap,
	}
}

type roomStateUpdateEvent struct {
	Type string              `json:"type"`
	Room domain.RoomSnapshot `json:"room"`
}

func newRoomStateUpdate(snap domain.RoomSnapshot) roomStateUpdateEvent {
	return roomStateUpdateEvent{Type: "roomStateUpdate", Room: snap}
}

type newBuzzEvent struct {
	Type       string        `json:"type"`
	PlayerID   domain.ConnID `json:"playerID"`
	PlayerName string        `json:"playerName"`
	Timestamp  int64         `json:"timestamp"`
}

func newNewBuzz(buzz domain.Buzz) newBuzzEvent {
	return newBuzzEvent{
		Type:       "newBuzz",
		PlayerID:   buzz.PlayerID,
		PlayerName: buzz.PlayerName,
		Timestamp:  buzz.Timestamp,
	}
}

type signalOnlyEvent struct {
	Type string `json:"type"`
}

func newResetGame() signalOnlyEvent { return signalOnlyEvent{Type: "resetGame"} }
func newExitRoom() signalOnlyEvent  { return signalOnlyEvent{Type: "exitRoom"} }
func newPong() signalOnlyEvent      { return signalOnlyEvent{Type: "pong"} }

type roomClosedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newRoomClosed(message string) roomClosedEvent {
	return roomClosedEvent{Type: "roomClosed", Message: message}
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newError(message string) errorEvent {
	return errorEvent{Type: "error", Message: message}
}
