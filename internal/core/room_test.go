package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/buzzd/internal/domain"
)

func newTestRoom() *Room {
	return NewRoom("ROOM001", "host-1", "Harriet")
}

func TestNewRoom_StartsInLobby(t *testing.T) {
	r := newTestRoom()
	snap := r.Snapshot()
	if snap.IsGameActive {
		t.Error("new room should not be active")
	}
	if len(snap.Players) != 0 || len(snap.Buzzes) != 0 {
		t.Error("new room should have empty players and buzzes")
	}
	if snap.Host != "Harriet" || snap.HostID != "host-1" || snap.RoomID != "ROOM001" {
		t.Errorf("unexpected snapshot identity: %+v", snap)
	}
}

func TestRoom_AddPlayer(t *testing.T) {
	r := newTestRoom()
	snap, err := r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Players) != 1 || snap.Players[0].Name != "Alice" {
		t.Errorf("players = %+v", snap.Players)
	}
}

func TestRoom_AddPlayer_SameConnUpdatesInPlace(t *testing.T) {
	r := newTestRoom()
	r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})
	snap, err := r.AddPlayer(domain.Player{ID: "p1", Name: "Alicia"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Players) != 1 {
		t.Fatalf("connection seated twice: %+v", snap.Players)
	}
	if snap.Players[0].Name != "Alicia" {
		t.Errorf("name not updated: %+v", snap.Players[0])
	}
}

func TestRoom_RemovePlayer(t *testing.T) {
	r := newTestRoom()
	r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})
	r.AddPlayer(domain.Player{ID: "p2", Name: "Bob"})

	snap, err := r.RemovePlayer("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Players) != 1 || snap.Players[0].ID != "p2" {
		t.Errorf("players = %+v", snap.Players)
	}

	if _, err := r.RemovePlayer("p1"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("second remove err = %v, want ErrPlayerNotFound", err)
	}
}

func TestRoom_Start_HostOnly(t *testing.T) {
	r := newTestRoom()

	if _, err := r.Start("p1"); !errors.Is(err, domain.ErrNotHost) {
		t.Fatalf("non-host start err = %v, want ErrNotHost", err)
	}
	if r.Snapshot().IsGameActive {
		t.Error("non-host start must not activate the room")
	}

	snap, err := r.Start("host-1")
	if err != nil {
		t.Fatal(err)
	}
	if !snap.IsGameActive {
		t.Error("host start should activate the room")
	}
}

func TestRoom_Reset_ClearsLedgerAndDeactivates(t *testing.T) {
	r := newTestRoom()
	r.Start("host-1")
	r.AppendBuzz("p1", "Alice")

	if _, err := r.Reset("p1"); !errors.Is(err, domain.ErrNotHost) {
		t.Fatalf("non-host reset err = %v, want ErrNotHost", err)
	}
	if len(r.Snapshot().Buzzes) != 1 {
		t.Error("non-host reset must not clear the ledger")
	}

	snap, err := r.Reset("host-1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.IsGameActive || len(snap.Buzzes) != 0 {
		t.Errorf("after reset: active=%v buzzes=%d", snap.IsGameActive, len(snap.Buzzes))
	}
}

func TestRoom_Reset_FromLobbyIsFine(t *testing.T) {
	r := newTestRoom()
	snap, err := r.Reset("host-1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.IsGameActive {
		t.Error("reset from lobby should stay inactive")
	}
}

func TestRoom_AppendBuzz_InactiveIgnored(t *testing.T) {
	r := newTestRoom()
	_, _, err := r.AppendBuzz("p1", "Alice")
	if !errors.Is(err, domain.ErrRoundInactive) {
		t.Fatalf("err = %v, want ErrRoundInactive", err)
	}
	if len(r.Snapshot().Buzzes) != 0 {
		t.Error("inactive buzz must not land in the ledger")
	}
}

func TestRoom_AppendBuzz_Ordering(t *testing.T) {
	r := newTestRoom()
	r.Start("host-1")

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i, n := range names {
		if _, _, err := r.AppendBuzz(domain.ConnID(rune('a'+i)), n); err != nil {
			t.Fatal(err)
		}
	}

	snap := r.Snapshot()
	if len(snap.Buzzes) != len(names) {
		t.Fatalf("ledger has %d buzzes, want %d", len(snap.Buzzes), len(names))
	}
	for i := 1; i < len(snap.Buzzes); i++ {
		prev, cur := snap.Buzzes[i-1], snap.Buzzes[i]
		if cur.Timestamp < prev.Timestamp {
			t.Errorf("ledger not sorted by timestamp at %d: %d < %d", i, cur.Timestamp, prev.Timestamp)
		}
		if cur.Seq <= prev.Seq {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
	for i, n := range names {
		if snap.Buzzes[i].PlayerName != n {
			t.Errorf("buzz %d = %q, want %q (submission order broken)", i, snap.Buzzes[i].PlayerName, n)
		}
	}
}

func TestRoom_AppendBuzz_SamePlayerTwice(t *testing.T) {
	r := newTestRoom()
	r.Start("host-1")

	r.AppendBuzz("p1", "Alice")
	r.AppendBuzz("p1", "Alice")

	if got := len(r.Snapshot().Buzzes); got != 2 {
		t.Errorf("ledger has %d buzzes, want 2 (duplicate buzzes allowed)", got)
	}
}

func TestRoom_ConcurrentBuzzes_TotalOrder(t *testing.T) {
	r := newTestRoom()
	r.Start("host-1")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.AppendBuzz("p1", "Alice")
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	if len(snap.Buzzes) != n {
		t.Fatalf("ledger has %d buzzes, want %d", len(snap.Buzzes), n)
	}
	seen := make(map[uint64]bool, n)
	for i := 1; i < len(snap.Buzzes); i++ {
		if snap.Buzzes[i].Timestamp < snap.Buzzes[i-1].Timestamp {
			t.Fatalf("ledger not non-decreasing at %d", i)
		}
	}
	for _, b := range snap.Buzzes {
		if seen[b.Seq] {
			t.Fatalf("sequence %d assigned twice", b.Seq)
		}
		seen[b.Seq] = true
	}
}

func TestRoom_Closed_RejectsEverything(t *testing.T) {
	r := newTestRoom()
	r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})
	r.Start("host-1")
	r.Close()

	if _, err := r.AddPlayer(domain.Player{ID: "p2", Name: "Bob"}); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("AddPlayer on closed room: %v", err)
	}
	if _, err := r.RemovePlayer("p1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("RemovePlayer on closed room: %v", err)
	}
	if _, err := r.Start("host-1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("Start on closed room: %v", err)
	}
	if _, err := r.Reset("host-1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("Reset on closed room: %v", err)
	}
	if _, _, err := r.AppendBuzz("p1", "Alice"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("AppendBuzz on closed room: %v", err)
	}
}

func TestRoom_Seated(t *testing.T) {
	r := newTestRoom()
	r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})

	if !r.Seated("host-1") {
		t.Error("host should be seated")
	}
	if !r.Seated("p1") {
		t.Error("player should be seated")
	}
	if r.Seated("stranger") {
		t.Error("stranger should not be seated")
	}
}

func TestRoom_SnapshotIsolation(t *testing.T) {
	r := newTestRoom()
	r.AddPlayer(domain.Player{ID: "p1", Name: "Alice"})
	r.Start("host-1")
	r.AppendBuzz("p1", "Alice")

	snap := r.Snapshot()
	snap.Players[0].Name = "Mallory"
	snap.Buzzes[0].PlayerName = "Mallory"

	fresh := r.Snapshot()
	if fresh.Players[0].Name != "Alice" || fresh.Buzzes[0].PlayerName != "Alice" {
		t.Error("mutating a snapshot must not affect the room")
	}
}
