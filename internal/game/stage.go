package game

import (
	"errors"
	"math"

	"github.com/flickrumble/backend/internal/geom"
)

var ErrBadStage = errors.New("stage missing required fields")

// Stage is the loading contract between content and simulation: a stage must
// supply playable bounds and at least one spawn, plus a finish rect (race) or
// a boss spec (boss). Everything else is optional dressing.
type Stage struct {
	Name    string      `json:"name"`
	Bounds  geom.Rect   `json:"bounds"`
	Spawns  []geom.Vec2 `json:"spawns"`
	Walls   []geom.Rect `json:"walls"`
	Pads    []Pad       `json:"pads"`
	Hazards []Hazard    `json:"hazards"`
	Coins   []Coin      `json:"coins"`
	Pickups []Pickup    `json:"pickups"`
	Props   []Prop      `json:"props"`
	Finish  *geom.Rect  `json:"finish,omitempty"`
	Boss    *BossSpec   `json:"boss,omitempty"`
}

type BossSpec struct {
	Name   string
	HP     int
	Radius float64
	Pos    geom.Vec2
	Rules  Ruleset
}

// Validate enforces the loading contract for the given mode.
func (s *Stage) Validate(mode Mode) error {
	if s.Bounds.W <= 0 || s.Bounds.H <= 0 || len(s.Spawns) == 0 {
		return ErrBadStage
	}
	if mode == ModeRace && s.Finish == nil {
		return ErrBadStage
	}
	if mode == ModeBoss && s.Boss == nil {
		return ErrBadStage
	}
	return nil
}

// spawnAt wraps around so any player count gets a spawn point.
func (s *Stage) spawnAt(i int) geom.Vec2 {
	return s.Spawns[i%len(s.Spawns)]
}

// newBoss instantiates the stage's boss with fresh transient state.
func (s *Stage) newBoss() *Boss {
	if s.Boss == nil {
		return nil
	}
	b := &Boss{
		ID:     s.Boss.Name,
		Name:   s.Boss.Name,
		HP:     s.Boss.HP,
		MaxHP:  s.Boss.HP,
		Pos:    s.Boss.Pos,
		Radius: s.Boss.Radius,
		Rule:   s.Boss.Rules.Kind(),
		rules:  s.Boss.Rules,
	}
	if _, ok := b.rules.(StunPunish); ok {
		b.Shielded = true
	}
	return b
}

// Built-in rosters. Returned fresh on every call because consumables mutate.

func RaceStages() []Stage {
	return []Stage{
		{
			Name:   "Canal Rush",
			Bounds: geom.Rect{X: 0, Y: 0, W: 960, H: 540},
			Spawns: []geom.Vec2{{X: 120, Y: 260}, {X: 120, Y: 320}, {X: 80, Y: 290}, {X: 160, Y: 290}},
			Walls: []geom.Rect{
				{X: 0, Y: 0, W: 960, H: 20},
				{X: 0, Y: 520, W: 960, H: 20},
				{X: 0, Y: 0, W: 20, H: 540},
				{X: 940, Y: 0, W: 20, H: 540},
				{X: 300, Y: 140, W: 40, H: 260},
				{X: 560, Y: 0, W: 40, H: 220},
				{X: 560, Y: 360, W: 40, H: 180},
			},
			Pads: []Pad{
				{Rect: geom.Rect{X: 420, Y: 240, W: 80, H: 60}, Boost: 1.6},
			},
			Hazards: []Hazard{
				{Pos: geom.Vec2{X: 700, Y: 420}, Radius: 26},
			},
			Coins: []Coin{
				{ID: 1, Pos: geom.Vec2{X: 380, Y: 100}, Radius: 10},
				{ID: 2, Pos: geom.Vec2{X: 500, Y: 460}, Radius: 10},
				{ID: 3, Pos: geom.Vec2{X: 660, Y: 120}, Radius: 10},
			},
			Pickups: []Pickup{
				{ID: 1, Kind: PickupDash, Pos: geom.Vec2{X: 480, Y: 120}, Radius: 14},
				{ID: 2, Kind: PickupShield, Pos: geom.Vec2{X: 640, Y: 440}, Radius: 14},
			},
			Finish: &geom.Rect{X: 780, Y: 60, W: 120, H: 80},
		},
		{
			Name:   "Switchback",
			Bounds: geom.Rect{X: 0, Y: 0, W: 960, H: 540},
			Spawns: []geom.Vec2{{X: 90, Y: 470}, {X: 150, Y: 470}, {X: 90, Y: 420}, {X: 150, Y: 420}},
			Walls: []geom.Rect{
				{X: 0, Y: 0, W: 960, H: 20},
				{X: 0, Y: 520, W: 960, H: 20},
				{X: 0, Y: 0, W: 20, H: 540},
				{X: 940, Y: 0, W: 20, H: 540},
				{X: 0, Y: 340, W: 700, H: 30},
				{X: 260, Y: 160, W: 700, H: 30},
			},
			Pads: []Pad{
				{Rect: geom.Rect{X: 760, Y: 380, W: 70, H: 70}, Boost: 1.5},
				{Rect: geom.Rect{X: 120, Y: 220, W: 70, H: 70}, Boost: 1.5},
			},
			Hazards: []Hazard{
				{Pos: geom.Vec2{X: 480, Y: 440}, Radius: 24},
				{Pos: geom.Vec2{X: 480, Y: 250}, Radius: 24},
			},
			Coins: []Coin{
				{ID: 1, Pos: geom.Vec2{X: 300, Y: 450}, Radius: 10},
				{ID: 2, Pos: geom.Vec2{X: 820, Y: 260}, Radius: 10},
				{ID: 3, Pos: geom.Vec2{X: 520, Y: 90}, Radius: 10},
				{ID: 4, Pos: geom.Vec2{X: 200, Y: 90}, Radius: 10},
			},
			Pickups: []Pickup{
				{ID: 1, Kind: PickupMagnet, Pos: geom.Vec2{X: 860, Y: 450}, Radius: 14},
			},
			Finish: &geom.Rect{X: 40, Y: 50, W: 110, H: 80},
		},
	}
}

func BossStages() []Stage {
	arena := func(name string) Stage {
		return Stage{
			Name:   name,
			Bounds: geom.Rect{X: 0, Y: 0, W: 900, H: 600},
			Spawns: []geom.Vec2{{X: 150, Y: 300}, {X: 150, Y: 380}, {X: 150, Y: 220}, {X: 220, Y: 300}},
			Walls: []geom.Rect{
				{X: 0, Y: 0, W: 900, H: 20},
				{X: 0, Y: 580, W: 900, H: 20},
				{X: 0, Y: 0, W: 20, H: 600},
				{X: 880, Y: 0, W: 20, H: 600},
			},
			Coins: []Coin{
				{ID: 1, Pos: geom.Vec2{X: 450, Y: 100}, Radius: 10},
				{ID: 2, Pos: geom.Vec2{X: 450, Y: 500}, Radius: 10},
			},
			Pickups: []Pickup{
				{ID: 1, Kind: PickupDash, Pos: geom.Vec2{X: 450, Y: 300}, Radius: 14},
			},
		}
	}

	gate := arena("Gatehouse")
	gate.Boss = &BossSpec{Name: "Gatekeeper", HP: 12, Radius: 42, Pos: geom.Vec2{X: 650, Y: 300}, Rules: DashOnly{}}

	mirror := arena("Hall of Mirrors")
	mirror.Boss = &BossSpec{Name: "Mirrorwarden", HP: 10, Radius: 38, Pos: geom.Vec2{X: 650, Y: 300},
		Rules: ParryOnly{RingSpeed: 180, RingMax: 340, Tolerance: 22}}

	eye := arena("The Iris")
	eye.Boss = &BossSpec{Name: "Cyclops", HP: 14, Radius: 46, Pos: geom.Vec2{X: 650, Y: 300},
		Rules: WeakSpot{Arc: math.Pi / 5, SpinRate: math.Pi / 4}}

	bounce := arena("Ricochet Court")
	bounce.Walls = append(bounce.Walls, geom.Rect{X: 430, Y: 200, W: 40, H: 200})
	bounce.Boss = &BossSpec{Name: "Ricochet King", HP: 12, Radius: 40, Pos: geom.Vec2{X: 650, Y: 300}, Rules: RicochetRequired{}}

	stone := arena("Quarry Floor")
	stone.Props = []Prop{
		{ID: 1, Pos: geom.Vec2{X: 400, Y: 200}, Radius: 16, Bounce: 0.7},
		{ID: 2, Pos: geom.Vec2{X: 400, Y: 400}, Radius: 16, Bounce: 0.7},
	}
	stone.Boss = &BossSpec{Name: "Stonehide", HP: 16, Radius: 48, Pos: geom.Vec2{X: 650, Y: 300},
		Rules: StunPunish{CrackThreshold: 3, WindowMs: 8000}}

	return []Stage{gate, mirror, eye, bounce, stone}
}
