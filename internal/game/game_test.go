package game

import (
	"testing"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/geom"
)

// Shared fixtures: an open box with no interior walls so motion is easy to
// reason about, plus a boss arena variant.

func perimeter(w, h float64) []geom.Rect {
	return []geom.Rect{
		{X: 0, Y: 0, W: w, H: 20},
		{X: 0, Y: h - 20, W: w, H: 20},
		{X: 0, Y: 0, W: 20, H: h},
		{X: w - 20, Y: 0, W: 20, H: h},
	}
}

func openRaceStage() Stage {
	return Stage{
		Name:   "test box",
		Bounds: geom.Rect{X: 0, Y: 0, W: 960, H: 540},
		Walls:  perimeter(960, 540),
		Spawns: []geom.Vec2{{X: 700, Y: 100}, {X: 120, Y: 320}},
		Finish: &geom.Rect{X: 780, Y: 60, W: 120, H: 80},
	}
}

func bossArena(rules Ruleset, hp int) Stage {
	return Stage{
		Name:   "test arena",
		Bounds: geom.Rect{X: 0, Y: 0, W: 900, H: 600},
		Walls:  perimeter(900, 600),
		Spawns: []geom.Vec2{{X: 150, Y: 300}, {X: 150, Y: 380}},
		Boss:   &BossSpec{Name: "Target", HP: hp, Radius: 42, Pos: geom.Vec2{X: 650, Y: 300}, Rules: rules},
	}
}

func seeds() []PlayerSeed {
	return []PlayerSeed{
		{ID: "A", Name: "Ada", CharID: "sparky"},
		{ID: "B", Name: "Ben", CharID: "sparky"},
	}
}

func newRaceGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(config.Default(), ModeRace, seeds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Stage = openRaceStage()
	g.resetEntities()
	return g
}

func newBossGame(t *testing.T, rules Ruleset, hp int) *Game {
	t.Helper()
	g, err := New(config.Default(), ModeBoss, seeds())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Stage = bossArena(rules, hp)
	g.Boss = g.Stage.newBoss()
	g.resetEntities()
	return g
}

func stepFor(g *Game, seconds float64) {
	const dt = 1.0 / 60
	for t := 0.0; t < seconds; t += dt {
		g.Step(dt)
	}
}

func TestNewRequiresPlayers(t *testing.T) {
	if _, err := New(config.Default(), ModeRace, nil); err == nil {
		t.Fatalf("expected error for empty seed list")
	}
}

func TestStageValidate(t *testing.T) {
	cases := []struct {
		name    string
		stage   Stage
		mode    Mode
		wantErr bool
	}{
		{"valid race", openRaceStage(), ModeRace, false},
		{"race without finish", bossArena(DashOnly{}, 10), ModeRace, true},
		{"valid boss", bossArena(DashOnly{}, 10), ModeBoss, false},
		{"boss without boss", openRaceStage(), ModeBoss, true},
		{"no spawns", Stage{Bounds: geom.Rect{W: 10, H: 10}}, ModeRace, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.stage.Validate(tc.mode)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestRemovePlayerKeepsActiveIDValid(t *testing.T) {
	g, err := New(config.Default(), ModeRace, []PlayerSeed{
		{ID: "A"}, {ID: "B"}, {ID: "C"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if g.ActiveID() != "A" {
		t.Fatalf("active: got %q", g.ActiveID())
	}
	if !g.RemovePlayer("A") {
		t.Fatalf("players remain, expected true")
	}
	active := g.ActiveID()
	if active != "B" && active != "C" {
		t.Fatalf("dangling activeId %q", active)
	}
	if len(g.TurnOrder) != 2 {
		t.Fatalf("turnOrder: %v", g.TurnOrder)
	}

	g.RemovePlayer("B")
	if g.RemovePlayer("C") {
		t.Fatalf("expected teardown signal when last player leaves")
	}
}

func TestLaunchBoostAppliesOncePerRound(t *testing.T) {
	g, err := New(config.Default(), ModeRace, []PlayerSeed{
		{ID: "A", Name: "Ada", CharID: "tank"},
		{ID: "B", Name: "Ben", CharID: "sparky"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Stage = openRaceStage()
	g.resetEntities()
	a := g.Players["A"]

	if err := g.Flick("A", geom.Vec2{X: -200, Y: 0}); err != nil {
		t.Fatalf("flick: %v", err)
	}
	if want := -200 * g.cfg.LaunchBoost; a.Vel.X != want {
		t.Fatalf("first flick: got vx=%v, want boosted %v", a.Vel.X, want)
	}
	if !a.LaunchUsed {
		t.Fatalf("boost not marked spent")
	}

	// Hand the turn around and flick again: no boost the second time.
	stepFor(g, 2)
	if err := g.Flick("B", geom.Vec2{}); err != nil {
		t.Fatalf("flick B: %v", err)
	}
	stepFor(g, 0.5)
	if g.ActiveID() != "A" {
		t.Fatalf("active: got %q", g.ActiveID())
	}
	if err := g.Flick("A", geom.Vec2{X: -200, Y: 0}); err != nil {
		t.Fatalf("second flick: %v", err)
	}
	if a.Vel.X != -200 {
		t.Fatalf("second flick: got vx=%v, want unboosted -200", a.Vel.X)
	}

	// The boost comes back with the next round.
	stepFor(g, 2)
	g.endRound("", false)
	stepFor(g, 3.2)
	if g.Round != 2 {
		t.Fatalf("round: got %d", g.Round)
	}
	if a.LaunchUsed {
		t.Fatalf("boost should reset on round transition")
	}
	if err := g.Flick("B", geom.Vec2{}); err != nil {
		t.Fatalf("flick B round 2: %v", err)
	}
	stepFor(g, 0.5)
	if err := g.Flick("A", geom.Vec2{X: -200, Y: 0}); err != nil {
		t.Fatalf("flick A round 2: %v", err)
	}
	if want := -200 * g.cfg.LaunchBoost; a.Vel.X != want {
		t.Fatalf("round 2 flick: got vx=%v, want boosted %v", a.Vel.X, want)
	}
}

func TestRemoveNonActivePlayerMidResolve(t *testing.T) {
	g := newRaceGame(t)
	if err := g.Flick("A", geom.Vec2{X: 200, Y: 0}); err != nil {
		t.Fatalf("flick: %v", err)
	}
	g.RemovePlayer("B")
	if g.ActiveID() != "A" {
		t.Fatalf("active changed: %q", g.ActiveID())
	}
	if g.TurnState != TurnResolving {
		t.Fatalf("resolve interrupted: %v", g.TurnState)
	}
}
