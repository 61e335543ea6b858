package signal

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

type fakeSender struct {
	mu   sync.Mutex
	got  [][]byte
	fail bool
}

func (f *fakeSender) TrySend(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backpressure")
	}
	f.got = append(f.got, data)
	return nil
}

func (f *fakeSender) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.got))
	copy(out, f.got)
	return out
}

func TestHub_BroadcastIncludesSender(t *testing.T) {
	h := newHub()
	host := &fakeSender{}
	player := &fakeSender{}

	h.subscribe("ROOM001", "host-1", host)
	h.subscribe("ROOM001", "p1", player)

	h.broadcast("ROOM001", newResetGame())

	for name, s := range map[string]*fakeSender{"host": host, "player": player} {
		msgs := s.messages()
		if len(msgs) != 1 {
			t.Fatalf("%s got %d messages, want 1", name, len(msgs))
		}
		var got struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msgs[0], &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != "resetGame" {
			t.Errorf("%s got type %q, want resetGame", name, got.Type)
		}
	}
}

func TestHub_BroadcastScopedToRoom(t *testing.T) {
	h := newHub()
	a := &fakeSender{}
	b := &fakeSender{}

	h.subscribe("ROOMAAA", "p1", a)
	h.subscribe("ROOMBBB", "p2", b)

	h.broadcast("ROOMAAA", newExitRoom())

	if len(a.messages()) != 1 {
		t.Error("subscriber of the target room should receive the message")
	}
	if len(b.messages()) != 0 {
		t.Error("subscriber of another room must not receive the message")
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := newHub()
	s := &fakeSender{}

	h.subscribe("ROOM001", "p1", s)
	h.unsubscribe("ROOM001", "p1")
	h.broadcast("ROOM001", newResetGame())

	if len(s.messages()) != 0 {
		t.Error("unsubscribed connection must not receive broadcasts")
	}
}

func TestHub_DropConn_RemovesEverywhere(t *testing.T) {
	h := newHub()
	s := &fakeSender{}

	h.subscribe("ROOMAAA", "p1", s)
	h.subscribe("ROOMBBB", "p1", s)
	h.dropConn("p1")

	h.broadcast("ROOMAAA", newResetGame())
	h.broadcast("ROOMBBB", newResetGame())

	if len(s.messages()) != 0 {
		t.Error("dropped connection must not receive broadcasts")
	}
}

func TestHub_DropRoom(t *testing.T) {
	h := newHub()
	s := &fakeSender{}

	h.subscribe("ROOM001", "p1", s)
	h.dropRoom("ROOM001")
	h.broadcast("ROOM001", newResetGame())

	if len(s.messages()) != 0 {
		t.Error("no deliveries after room teardown")
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := newHub()
	slow := &fakeSender{fail: true}
	fast := &fakeSender{}

	h.subscribe("ROOM001", "p1", slow)
	h.subscribe("ROOM001", "p2", fast)

	h.broadcast("ROOM001", newResetGame())

	if len(fast.messages()) != 1 {
		t.Error("healthy subscriber should still receive the message")
	}
}

func TestHub_BroadcastEmptyRoom(t *testing.T) {
	h := newHub()
	// no subscribers, should not panic
	h.broadcast("NOSUCH1", newResetGame())
}
