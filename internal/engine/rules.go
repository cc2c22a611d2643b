package engine

import "slices"

func contains(cards []int, c int) bool {
	return slices.Contains(cards, c)
}

func remove(cards []int, c int) []int {
	out := make([]int, 0, len(cards))
	for _, v := range cards {
		if v != c {
			out = append(out, v)
		}
	}
	return out
}

// eligibleShown is the set a straggler may be auto-completed from:
// hand minus already-shown minus this round's bans, ascending.
func eligibleShown(p Player) []int {
	out := make([]int, 0, len(p.Hand))
	for _, c := range p.Hand {
		if contains(p.Shown, c) || contains(p.BannedThisRound, c) {
			continue
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// autoCompleteShown fills every short hand with its lowest eligible cards.
// Deterministic: no randomness anywhere in the fallback path.
func autoCompleteShown(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		if len(p.Shown) >= shownTarget {
			continue
		}
		eligible := eligibleShown(*p)
		need := shownTarget - len(p.Shown)
		if need > len(eligible) {
			need = len(eligible)
		}
		p.Shown = append(p.Shown, eligible[:need]...)
	}
}

// autoCompleteFinal commits the lowest shown card for anyone who never chose.
func autoCompleteFinal(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		if p.Final == 0 && len(p.Shown) > 0 {
			p.Final = slices.Min(p.Shown)
		}
	}
}

// resolveRound scores the round and mutates hands for the next one. Returns
// the round winner's name, or "" when no final value was unique.
//
// Unique lowest wins: among the final values played by exactly one player,
// the smallest takes the point. Shared values never win, even the minimum.
func resolveRound(s *State) string {
	counts := make(map[int]int)
	for _, p := range s.Players {
		if p.Final > 0 {
			counts[p.Final]++
		}
	}

	winner := -1
	lowest := 0
	for i, p := range s.Players {
		if p.Final > 0 && counts[p.Final] == 1 && (winner < 0 || p.Final < lowest) {
			winner = i
			lowest = p.Final
		}
	}
	if winner >= 0 {
		s.Players[winner].Points++
	}

	// Bans derive from the shown card that was not committed. This happens
	// before hands mutate, and applies identically whether the final was
	// chosen or auto-completed.
	for i := range s.Players {
		p := &s.Players[i]
		p.BannedNextRound = nil
		if len(p.Shown) == shownTarget && p.Final > 0 {
			for _, c := range p.Shown {
				if c != p.Final {
					p.BannedNextRound = append(p.BannedNextRound, c)
				}
			}
		}
	}

	for i := range s.Players {
		p := &s.Players[i]
		if p.Final > 0 {
			p.PlayedCards = append(p.PlayedCards, p.Final)
			p.Hand = remove(p.Hand, p.Final)
		}
		p.Shown = nil
		p.Final = 0
	}

	if winner >= 0 {
		return s.Players[winner].Name
	}
	return ""
}

// shouldReplenish reports whether the new round number restarts the pool:
// rounds 7, 13, 19, ...
func shouldReplenish(round int) bool {
	return round%6 == 1 && round > 1
}

// replenishAll resets every hand to the full pool and wipes history and
// both ban sets, overriding the normal ban carry-forward.
func replenishAll(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		p.Hand = FullHand()
		p.Shown = nil
		p.Final = 0
		p.PlayedCards = nil
		p.BannedThisRound = nil
		p.BannedNextRound = nil
	}
}

// rollover starts a normal round: last round's pending bans become active
// for exactly this one round.
func rollover(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		p.Shown = nil
		p.Final = 0
		p.BannedThisRound = p.BannedNextRound
		p.BannedNextRound = nil
	}
}
