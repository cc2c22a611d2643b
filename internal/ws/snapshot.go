package ws

import (
	"github.com/lowcard/lowcard-backend/internal/engine"
	"github.com/lowcard/lowcard-backend/internal/room"
	"github.com/lowcard/lowcard-backend/internal/types"
)

// toStateUpdate flattens a room snapshot onto the wire shape. The snapshot
// is already a deep copy, so slices can be handed over as-is.
func toStateUpdate(snap room.Snapshot) *types.StateUpdate {
	s := snap.State
	out := &types.StateUpdate{
		Version:     snap.Version,
		Phase:       string(s.Phase),
		Timer:       s.Deadline,
		Round:       s.Round,
		Players:     make([]types.PlayerView, len(s.Players)),
		Winner:      s.Winner,
		Result:      snap.Result,
		Message:     snap.Message,
		Replenished: snap.Replenished,
	}
	for i, p := range s.Players {
		pv := types.PlayerView{
			ID:     p.ID,
			Name:   p.Name,
			Hand:   emptyNotNil(p.Hand),
			Shown:  emptyNotNil(p.Shown),
			Points: p.Points,
			Used:   emptyNotNil(p.PlayedCards),
			Banned: emptyNotNil(p.BannedThisRound),
			IsHost: p.IsHost,
		}
		if p.Final != 0 {
			f := p.Final
			pv.Final = &f
		}
		out.Players[i] = pv
	}
	return out
}

func roster(s engine.State) []types.RosterEntry {
	out := make([]types.RosterEntry, len(s.Players))
	for i, p := range s.Players {
		out[i] = types.RosterEntry{ID: p.ID, Name: p.Name, Points: p.Points}
	}
	return out
}

// emptyNotNil keeps JSON arrays as [] instead of null for card lists.
func emptyNotNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
