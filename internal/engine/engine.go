package engine

import "errors"

var ErrWrongPhase = errors.New("action not legal in current phase")
var ErrNotHost = errors.New("only the host can start the game")
var ErrNotEnoughPlayers = errors.New("need at least two players")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrAlreadyJoined = errors.New("player already in room")
var ErrIllegalCard = errors.New("illegal card")
var ErrStaleTick = errors.New("stale tick")

// Event is a single input to a room's state machine: a player action or a
// scheduled tick. The room actor feeds exactly one event at a time.
type Event interface{ isEvent() }

type Join struct {
	PlayerID string
	Name     string
}

type Leave struct{ PlayerID string }

type Start struct{ PlayerID string }

type PickShown struct {
	PlayerID string
	Card     int
}

type PickFinal struct {
	PlayerID string
	Card     int
}

// Tick is one elapsed deadline unit. Generation is the value captured when
// the tick was scheduled; Apply rejects it if the window has since changed.
type Tick struct{ Generation int }

func (Join) isEvent()      {}
func (Leave) isEvent()     {}
func (Start) isEvent()     {}
func (PickShown) isEvent() {}
func (PickFinal) isEvent() {}
func (Tick) isEvent()      {}

// Effect is an instruction back to the room actor. The engine never touches
// timers or sockets itself.
type Effect interface{ isEffect() }

// Broadcast asks the room to fan out a snapshot of the new state. The extra
// fields ride along on resolution and replenishment updates.
type Broadcast struct {
	Result      string
	Message     string
	Replenished bool
}

// ScheduleTick asks the room to deliver a Tick one deadline unit from now.
type ScheduleTick struct{ Generation int }

// GameEnded fires once when a player reaches the win threshold.
type GameEnded struct {
	Winner string
	Points map[string]int // player name -> final score
}

func (Broadcast) isEffect()    {}
func (ScheduleTick) isEffect() {}
func (GameEnded) isEffect()    {}

// Apply runs one event against the state and returns the successor state
// plus the effects the room should carry out. The input state is never
// mutated. On error the state is returned unchanged and the room treats the
// event as a silent no-op.
func Apply(s State, ev Event) (State, []Effect, error) {
	next := s.Clone()

	switch ev := ev.(type) {
	case Join:
		if playerIndex(next, ev.PlayerID) >= 0 {
			return s, nil, ErrAlreadyJoined
		}
		next.Players = append(next.Players, Player{
			ID:     ev.PlayerID,
			Name:   ev.Name,
			IsHost: len(next.Players) == 0,
		})
		return next, []Effect{Broadcast{}}, nil

	case Leave:
		i := playerIndex(next, ev.PlayerID)
		if i < 0 {
			return s, nil, ErrUnknownPlayer
		}
		wasHost := next.Players[i].IsHost
		next.Players = append(next.Players[:i], next.Players[i+1:]...)
		if len(next.Players) == 0 {
			// Room is about to be torn down; nothing left to broadcast.
			return next, nil, nil
		}
		if wasHost {
			next.Players[0].IsHost = true
		}
		effects := []Effect{Broadcast{}}
		// A departure can be the event that makes everyone ready.
		switch {
		case next.Phase == PhaseSelectTwo && allShown(next):
			effects = append(effects, endSelectTwo(&next)...)
		case next.Phase == PhaseSelectFinal && allFinal(next):
			effects = append(effects, endSelectFinal(&next)...)
		}
		return next, effects, nil

	case Start:
		if next.Phase != PhaseLobby {
			return s, nil, ErrWrongPhase
		}
		i := playerIndex(next, ev.PlayerID)
		if i < 0 {
			return s, nil, ErrUnknownPlayer
		}
		if !next.Players[i].IsHost {
			return s, nil, ErrNotHost
		}
		if len(next.Players) < 2 {
			return s, nil, ErrNotEnoughPlayers
		}
		return next, beginGame(&next), nil

	case PickShown:
		if next.Phase != PhaseSelectTwo {
			return s, nil, ErrWrongPhase
		}
		i := playerIndex(next, ev.PlayerID)
		if i < 0 {
			return s, nil, ErrUnknownPlayer
		}
		p := &next.Players[i]
		if len(p.Shown) >= shownTarget ||
			!contains(p.Hand, ev.Card) ||
			contains(p.Shown, ev.Card) ||
			contains(p.BannedThisRound, ev.Card) {
			return s, nil, ErrIllegalCard
		}
		p.Shown = append(p.Shown, ev.Card)
		effects := []Effect{Broadcast{}}
		if allShown(next) {
			effects = append(effects, endSelectTwo(&next)...)
		}
		return next, effects, nil

	case PickFinal:
		if next.Phase != PhaseSelectFinal {
			return s, nil, ErrWrongPhase
		}
		i := playerIndex(next, ev.PlayerID)
		if i < 0 {
			return s, nil, ErrUnknownPlayer
		}
		p := &next.Players[i]
		if !contains(p.Shown, ev.Card) {
			return s, nil, ErrIllegalCard
		}
		p.Final = ev.Card
		effects := []Effect{Broadcast{}}
		if allFinal(next) {
			effects = append(effects, endSelectFinal(&next)...)
		}
		return next, effects, nil

	case Tick:
		if ev.Generation != next.Generation {
			return s, nil, ErrStaleTick
		}
		switch next.Phase {
		case PhaseSelectTwo, PhaseSelectFinal, PhaseReveal:
		default:
			return s, nil, ErrStaleTick
		}
		next.Deadline--
		if next.Deadline > 0 {
			return next, []Effect{Broadcast{}, ScheduleTick{Generation: next.Generation}}, nil
		}
		switch next.Phase {
		case PhaseSelectTwo:
			return next, endSelectTwo(&next), nil
		case PhaseSelectFinal:
			return next, endSelectFinal(&next), nil
		default: // PhaseReveal
			if !next.Resolved {
				return next, endReveal(&next), nil
			}
			return next, endIntermission(&next), nil
		}

	default:
		return s, nil, ErrWrongPhase
	}
}

// beginGame resets every player for a fresh game and opens round 1.
func beginGame(s *State) []Effect {
	s.Phase = PhaseSelectTwo
	s.Round = 1
	s.Deadline = s.Rules.SelectSec
	s.Resolved = false
	s.Winner = ""
	s.Generation++
	for i := range s.Players {
		p := &s.Players[i]
		p.Hand = FullHand()
		p.Shown = nil
		p.Final = 0
		p.PlayedCards = nil
		p.BannedThisRound = nil
		p.BannedNextRound = nil
		p.Points = 0
	}
	return []Effect{Broadcast{}, ScheduleTick{Generation: s.Generation}}
}

// endSelectTwo closes the SelectTwo window. Stragglers get the lowest
// eligible cards before anyone sees the reveal.
func endSelectTwo(s *State) []Effect {
	autoCompleteShown(s)
	s.Phase = PhaseSelectFinal
	s.Deadline = s.Rules.SelectSec
	s.Generation++
	return []Effect{Broadcast{}, ScheduleTick{Generation: s.Generation}}
}

func endSelectFinal(s *State) []Effect {
	autoCompleteFinal(s)
	s.Phase = PhaseReveal
	s.Deadline = s.Rules.RevealSec
	s.Resolved = false
	s.Generation++
	return []Effect{Broadcast{}, ScheduleTick{Generation: s.Generation}}
}

// endReveal scores the round once the display window has elapsed, then
// holds the room in an intermission before the next round starts.
func endReveal(s *State) []Effect {
	result := resolveRound(s)
	if result == "" {
		result = "No winner this round"
	}
	s.Resolved = true
	s.Deadline = s.Rules.IntermissionSec
	s.Generation++
	return []Effect{Broadcast{Result: result}, ScheduleTick{Generation: s.Generation}}
}

func endIntermission(s *State) []Effect {
	if name := winnerByPoints(*s); name != "" {
		s.Phase = PhaseEnded
		s.Winner = name
		s.Generation++
		points := make(map[string]int, len(s.Players))
		for _, p := range s.Players {
			points[p.Name] = p.Points
		}
		return []Effect{Broadcast{}, GameEnded{Winner: name, Points: points}}
	}

	s.Round++
	s.Phase = PhaseSelectTwo
	s.Deadline = s.Rules.SelectSec
	s.Resolved = false
	s.Generation++

	b := Broadcast{}
	if shouldReplenish(s.Round) {
		replenishAll(s)
		b.Message = "Cards replenished! All players now have cards 1-8 again."
		b.Replenished = true
	} else {
		rollover(s)
	}
	return []Effect{b, ScheduleTick{Generation: s.Generation}}
}
