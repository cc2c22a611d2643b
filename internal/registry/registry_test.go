package registry

import (
	"context"
	"testing"
	"time"

	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/room"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, engine.DefaultRules(), 0, nil, nil)
}

func getRoom(t *testing.T, reg *Registry, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	reg.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("registry did not answer")
		return nil // unreachable
	}
}

func TestRegistry_Ensure_Get_SamePointer(t *testing.T) {
	reg := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	reg.Inbox() <- EnsureRoom{Code: "R1", Reply: reply}
	rm1 := <-reply

	reg.Inbox() <- EnsureRoom{Code: "R1", Reply: reply}
	rm2 := <-reply

	rm3 := getRoom(t, reg, "R1")

	if rm1 == nil || rm1 != rm2 || rm1 != rm3 {
		t.Fatalf("expected same room pointer")
	}
}

func TestRegistry_UnknownRoomIsNil(t *testing.T) {
	reg := newTestRegistry(t)
	if rm := getRoom(t, reg, "NOPE"); rm != nil {
		t.Fatalf("unknown room must be nil")
	}
}

func TestRegistry_DeadRoomIsReplaced(t *testing.T) {
	reg := newTestRegistry(t)
	reply := make(chan *room.Room, 1)
	reg.Inbox() <- EnsureRoom{Code: "R1", Reply: reply}
	rm1 := <-reply

	// Shut the room down behind the registry's back: its table entry is now
	// stale, like the window between a room emptying and RemoveRoom landing.
	rm1.Inbox() <- room.Shutdown{}
	select {
	case <-rm1.Done():
	case <-time.After(time.Second):
		t.Fatalf("room never shut down")
	}

	reg.Inbox() <- EnsureRoom{Code: "R1", Reply: reply}
	rm2 := <-reply
	if rm2 == nil || rm2 == rm1 || rm2.Closed() {
		t.Fatalf("ensure must hand out a live replacement, not the dead room")
	}
}

func TestRegistry_EmptyRoomIsRemoved(t *testing.T) {
	reg := newTestRegistry(t)
	reply := make(chan *room.Room, 1)
	reg.Inbox() <- EnsureRoom{Code: "R1", Reply: reply}
	rm := <-reply

	out := make(chan room.Snapshot, 4)
	joined := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{PlayerID: "a", Name: "Alice", Outbox: out, Reply: joined}
	<-joined
	rm.Inbox() <- room.Leave{PlayerID: "a"}

	// the room reports itself empty on its own goroutine; poll briefly
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if getRoom(t, reg, "R1") == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("empty room was never removed from the registry")
}
