package ws

import (
	"testing"

	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/room"
	"github.com/lowcard/lowcard-backend/internal/types"
)

func TestToStateUpdate(t *testing.T) {
	snap := room.Snapshot{
		Version: 7,
		State: engine.State{
			Phase:    engine.PhaseSelectFinal,
			Round:    2,
			Deadline: 12,
			Players: []engine.Player{
				{
					ID: "a", Name: "Alice", IsHost: true,
					Hand: []int{1, 2, 4}, Shown: []int{1, 2}, Final: 1,
					PlayedCards: []int{3}, BannedThisRound: []int{5}, Points: 1,
				},
				{ID: "b", Name: "Bob"},
			},
		},
		Result: "Alice",
	}

	got := toStateUpdate(snap)

	if got.Version != 7 || got.Phase != "select_final" || got.Timer != 12 || got.Round != 2 {
		t.Fatalf("header wrong: %+v", got)
	}
	if got.Result != "Alice" {
		t.Fatalf("result must pass through, got %q", got.Result)
	}

	a := got.Players[0]
	if a.Final == nil || *a.Final != 1 {
		t.Fatalf("set final must serialize as a value, got %v", a.Final)
	}
	if a.Used[0] != 3 || a.Banned[0] != 5 || !a.IsHost {
		t.Fatalf("player fields wrong: %+v", a)
	}

	b := got.Players[1]
	if b.Final != nil {
		t.Fatalf("unset final must serialize as null, got %v", *b.Final)
	}
	if b.Hand == nil || b.Shown == nil || b.Used == nil || b.Banned == nil {
		t.Fatalf("card lists must be empty arrays, not null: %+v", b)
	}
}

func TestToEvent(t *testing.T) {
	cases := []struct {
		name string
		msg  types.ClientMessage
		want engine.Event
		ok   bool
	}{
		{"start", types.ClientMessage{Type: "start"}, engine.Start{PlayerID: "p1"}, true},
		{"pick shown", types.ClientMessage{Type: "pick-shown", Card: 4}, engine.PickShown{PlayerID: "p1", Card: 4}, true},
		{"pick final", types.ClientMessage{Type: "pick-final", Card: 2}, engine.PickFinal{PlayerID: "p1", Card: 2}, true},
		{"second join ignored", types.ClientMessage{Type: "join", RoomID: "R1"}, nil, false},
		{"unknown type", types.ClientMessage{Type: "dance"}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toEvent("p1", tc.msg)
			if ok != tc.ok {
				t.Fatalf("ok: want %v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}
