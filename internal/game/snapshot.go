package game

import "github.com/flickrumble/backend/internal/geom"

// Snapshot is the full game state broadcast to every client in the room.
// Everything in it is copied out of the live Game, so the transport layer can
// marshal it from another goroutine while the simulation keeps ticking.
// Toasts and Shake are one-shots: building a snapshot drains them, so each is
// delivered at most once per snapshot interval.
type Snapshot struct {
	Mode    Mode     `json:"mode"`
	Round   int      `json:"round"`
	Phase   Phase    `json:"phase"`
	Turn    TurnView `json:"turn"`
	Stage   Stage    `json:"stage"`
	Players []Player `json:"players"`
	Boss    *Boss    `json:"boss"`
	Winner  string   `json:"winner,omitempty"`
	Toasts  []string `json:"toasts,omitempty"`
	Shake   float64  `json:"shake,omitempty"`
}

type TurnView struct {
	ActiveID string    `json:"activeId"`
	State    TurnState `json:"state"`
	MsLeft   int       `json:"msLeft"`
	Order    []string  `json:"order"`
}

// BuildSnapshot serializes the current state and clears pending one-shots.
func (g *Game) BuildSnapshot() Snapshot {
	players := make([]Player, 0, len(g.TurnOrder))
	for _, id := range g.TurnOrder {
		if p := g.Players[id]; p != nil {
			players = append(players, *p)
		}
	}
	var boss *Boss
	if g.Boss != nil {
		b := *g.Boss
		boss = &b
	}
	s := Snapshot{
		Mode:    g.Mode,
		Round:   g.Round,
		Phase:   g.Phase,
		Stage:   g.Stage.copyOut(),
		Players: players,
		Boss:    boss,
		Winner:  g.Winner,
		Toasts:  g.toasts,
		Shake:   g.shake,
		Turn: TurnView{
			ActiveID: g.ActiveID(),
			State:    g.TurnState,
			MsLeft:   int(g.TurnMsLeft),
			Order:    append([]string(nil), g.TurnOrder...),
		},
	}
	g.toasts = nil
	g.shake = 0
	return s
}

// copyOut clones the mutable slices so a snapshot never aliases live state.
func (s Stage) copyOut() Stage {
	out := s
	out.Walls = append([]geom.Rect(nil), s.Walls...)
	out.Pads = append([]Pad(nil), s.Pads...)
	out.Hazards = append([]Hazard(nil), s.Hazards...)
	out.Coins = append([]Coin(nil), s.Coins...)
	out.Pickups = append([]Pickup(nil), s.Pickups...)
	out.Props = append([]Prop(nil), s.Props...)
	out.Spawns = append([]geom.Vec2(nil), s.Spawns...)
	return out
}
