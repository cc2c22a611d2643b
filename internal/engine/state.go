package engine

import "slices"

type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseSelectTwo   Phase = "select_two"
	PhaseSelectFinal Phase = "select_final"
	PhaseReveal      Phase = "reveal"
	PhaseEnded       Phase = "ended"
)

// shownTarget is how many cards a player reveals in SelectTwo.
const shownTarget = 2

// FullHand returns a fresh copy of the starting card pool.
func FullHand() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8}
}

type Rules struct {
	SelectSec       int // SelectTwo and SelectFinal deadline
	RevealSec       int // reveal display window
	IntermissionSec int // pause between resolution and the next round
	WinPoints       int // points needed to end the game
}

func DefaultRules() Rules {
	return Rules{SelectSec: 30, RevealSec: 5, IntermissionSec: 20, WinPoints: 3}
}

type Player struct {
	ID              string
	Name            string
	IsHost          bool
	Hand            []int
	Shown           []int
	Final           int // 0 while unset; legal cards are 1..8
	PlayedCards     []int
	BannedThisRound []int
	BannedNextRound []int
	Points          int
}

type State struct {
	Phase    Phase
	Round    int
	Deadline int // ticks remaining in the current window
	// Generation increments on every window change. Scheduled ticks capture
	// it and are discarded once it has moved on, so a stale deadline can
	// never re-fire a transition.
	Generation int
	// Resolved marks the intermission half of the Reveal phase: the round
	// has been scored and the room is idling before the next round.
	Resolved bool
	Winner   string
	Players  []Player
	Rules    Rules
}

func NewState(rules Rules) State {
	return State{Phase: PhaseLobby, Rules: rules}
}

// Clone deep-copies the state so snapshots handed to the transport never
// alias the room's own slices.
func (s State) Clone() State {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = slices.Clone(p.Hand)
		p.Shown = slices.Clone(p.Shown)
		p.PlayedCards = slices.Clone(p.PlayedCards)
		p.BannedThisRound = slices.Clone(p.BannedThisRound)
		p.BannedNextRound = slices.Clone(p.BannedNextRound)
		out.Players[i] = p
	}
	return out
}

func playerIndex(s State, id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

func allShown(s State) bool {
	for _, p := range s.Players {
		if len(p.Shown) < shownTarget {
			return false
		}
	}
	return true
}

func allFinal(s State) bool {
	for _, p := range s.Players {
		if p.Final == 0 {
			return false
		}
	}
	return true
}

func winnerByPoints(s State) string {
	for _, p := range s.Players {
		if p.Points >= s.Rules.WinPoints {
			return p.Name
		}
	}
	return ""
}
