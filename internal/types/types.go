package types

import "github.com/flickrumble/backend/internal/game"

// ClientMessage is every inbound shape. Type selects which fields matter;
// the rest are ignored. Gameplay messages are only honored from the active
// player, host commands only from the host.
type ClientMessage struct {
	Type  string  `json:"type"` // act | dash | pick | ready | mode | start | reset | reload_stage | reset_positions
	VX    float64 `json:"vx,omitempty"`
	VY    float64 `json:"vy,omitempty"`
	Char  string  `json:"char,omitempty"`
	Ready bool    `json:"ready"`
	Mode  string  `json:"mode,omitempty"`
}

type ServerMessage struct {
	Type  string         `json:"type"` // "snapshot" | "error"
	Room  *RoomView      `json:"room,omitempty"`
	Game  *game.Snapshot `json:"game,omitempty"`
	Error string         `json:"error,omitempty"`
}

type RoomView struct {
	Code   string `json:"code"`
	HostID string `json:"hostId"`
	Mode   string `json:"mode"`
	Seats  []Seat `json:"seats"`
}

type Seat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Char  string `json:"char"`
	Ready bool   `json:"ready"`
}
