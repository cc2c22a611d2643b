// Package types defines the wire protocol between clients and the server.
//
// Client -> Server
//
//	join:       { roomId, playerName }   must be the first message
//	start:      {}                       host only, from the lobby
//	pick-shown: { card }                 during select_two
//	pick-final: { card }                 during select_final
//
// Server -> Client
//
//	joined:       ack to the joining connection, with the current roster
//	state-update: full room snapshot, broadcast on every state change
//	error:        malformed join only; every other bad input is dropped
package types

type ClientMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Card       int    `json:"card,omitempty"`
}

type ServerMessage struct {
	Type   string       `json:"type"` // "joined" | "state-update" | "error"
	Joined *Joined      `json:"joined,omitempty"`
	State  *StateUpdate `json:"state,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type Joined struct {
	RoomID   string        `json:"roomId"`
	PlayerID string        `json:"playerId"`
	Players  []RosterEntry `json:"players"`
	IsHost   bool          `json:"isHost"`
}

type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type StateUpdate struct {
	Version     int          `json:"version"`
	Phase       string       `json:"phase"`
	Timer       int          `json:"timer"`
	Round       int          `json:"round"`
	Players     []PlayerView `json:"players"`
	Winner      string       `json:"winner,omitempty"`
	Result      string       `json:"result,omitempty"`
	Message     string       `json:"message,omitempty"`
	Replenished bool         `json:"replenished,omitempty"`
}

type PlayerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Hand   []int  `json:"hand"`
	Shown  []int  `json:"shown"`
	Final  *int   `json:"final"`
	Points int    `json:"points"`
	Used   []int  `json:"used"`
	Banned []int  `json:"banned"`
	IsHost bool   `json:"isHost"`
}
