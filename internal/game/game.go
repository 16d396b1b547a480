package game

import (
	"errors"
	"math"

	"github.com/flickrumble/backend/internal/config"
	"github.com/flickrumble/backend/internal/geom"
)

var (
	ErrWrongTurn  = errors.New("not your turn")
	ErrWrongState = errors.New("wrong turn state")
	ErrWrongPhase = errors.New("round is over")
	ErrNoDash     = errors.New("dash unavailable")
	ErrNoPlayers  = errors.New("game needs at least one player")
)

// PlayerSeed is the minimum the lobby must hand over to start a Game.
type PlayerSeed struct {
	ID     string
	Name   string
	CharID string
}

// Game is one live match. It is not safe for concurrent use: the owning room
// serializes command application and ticking.
type Game struct {
	cfg config.Config

	Mode       Mode
	Round      int
	Phase      Phase
	TurnOrder  []string
	TurnIndex  int
	TurnState  TurnState
	TurnMsLeft float64

	Stage   Stage
	Players map[string]*Player
	Boss    *Boss
	Winner  string

	RoundEndMsLeft  float64
	stageIdx        int
	advanceStage    bool
	playerTurnsDone int

	toasts []string
	shake  float64
}

func New(cfg config.Config, mode Mode, seeds []PlayerSeed) (*Game, error) {
	if len(seeds) == 0 {
		return nil, ErrNoPlayers
	}
	g := &Game{
		cfg:     cfg,
		Mode:    mode,
		Round:   1,
		Phase:   PhasePlay,
		Players: make(map[string]*Player, len(seeds)),
	}
	for _, s := range seeds {
		g.TurnOrder = append(g.TurnOrder, s.ID)
		g.Players[s.ID] = &Player{ID: s.ID, Name: s.Name, Char: CharacterByID(s.CharID)}
	}
	g.loadStage(0)
	g.beginTurn()
	return g, nil
}

// roster returns a fresh copy of the mode's stage cycle; stages mutate
// (consumable markers) so they are never shared between rounds.
func (g *Game) roster() []Stage {
	if g.Mode == ModeBoss {
		return BossStages()
	}
	return RaceStages()
}

func (g *Game) loadStage(i int) {
	stages := g.roster()
	g.stageIdx = i % len(stages)
	g.Stage = stages[g.stageIdx]
	g.Boss = g.Stage.newBoss()
	g.resetEntities()
}

// resetEntities puts every player back on its spawn with full resources.
// Scores and coins persist across rounds; everything else is fresh.
func (g *Game) resetEntities() {
	for i, id := range g.TurnOrder {
		p := g.Players[id]
		if p == nil {
			continue
		}
		p.Pos = g.Stage.spawnAt(i)
		p.Spawn = p.Pos
		p.SafePos = p.Pos
		p.Vel = geom.Vec2{}
		p.Radius = p.Char.Radius
		p.Dashes = p.Char.DashCharges
		p.Shield = false
		p.MagnetMs = 0
		p.CanDashThisTurn = false
		p.DashUsedThisTurn = false
		p.DashWindowMs = 0
		p.DashStrikeMs = 0
		p.Ricochet = false
		p.LaunchUsed = false
		p.Finished = false
		p.OOBMs = 0
		if g.Mode == ModeBoss {
			p.HP = g.cfg.PlayerHP
			p.MaxHP = g.cfg.PlayerHP
			p.Lives = g.cfg.PlayerLives
		} else {
			p.HP, p.MaxHP, p.Lives = 0, 0, 0
		}
	}
}

// Flick is the active player's one velocity-injecting action per turn.
// Components are clamped server-side; characters with a launch boost spend it
// on their first flick of the round.
func (g *Game) Flick(playerID string, v geom.Vec2) error {
	if g.Phase != PhasePlay {
		return ErrWrongPhase
	}
	if g.TurnState != TurnAim {
		return ErrWrongState
	}
	if playerID != g.ActiveID() {
		return ErrWrongTurn
	}
	p := g.Players[playerID]
	if p == nil || !p.Alive() {
		return ErrWrongTurn
	}

	v.X = clamp(v.X, g.cfg.FlickMin, g.cfg.FlickMax)
	v.Y = clamp(v.Y, g.cfg.FlickMin, g.cfg.FlickMax)
	if p.Char.LaunchBoost && !p.LaunchUsed {
		v = v.Scale(g.cfg.LaunchBoost)
		p.LaunchUsed = true
	}
	p.Vel = geom.ClampSpeed(v, g.cfg.MaxSpeed)

	p.CanDashThisTurn = p.Dashes > 0
	p.DashUsedThisTurn = false
	p.DashWindowMs = float64(g.cfg.DashWindowMs)
	p.DashStrikeMs = 0
	p.Ricochet = false

	g.TurnState = TurnResolving
	g.TurnMsLeft = float64(g.cfg.PlayerTurnMs)
	return nil
}

// Dash spends a charge during the short post-flick window, boosting the
// player along its current heading and opening the strike window.
func (g *Game) Dash(playerID string) error {
	if g.Phase != PhasePlay {
		return ErrWrongPhase
	}
	if g.TurnState != TurnResolving {
		return ErrWrongState
	}
	if playerID != g.ActiveID() {
		return ErrWrongTurn
	}
	p := g.Players[playerID]
	if p == nil || !p.CanDashThisTurn || p.DashUsedThisTurn || p.DashWindowMs <= 0 || p.Dashes <= 0 {
		return ErrNoDash
	}

	dir := p.Vel.Normalized()
	if dir == (geom.Vec2{}) {
		dir = geom.Vec2{X: 1}
	}
	p.Vel = geom.ClampSpeed(p.Vel.Add(dir.Scale(g.cfg.DashPower)), g.cfg.MaxSpeed)
	p.Dashes--
	p.DashUsedThisTurn = true
	p.DashStrikeMs = float64(g.cfg.DashStrikeMs)
	return nil
}

// RemovePlayer excises a (possibly disconnected) player mid-game. Returns
// false when no players remain and the Game should be torn down.
func (g *Game) RemovePlayer(id string) bool {
	wasActive := id == g.ActiveID()
	delete(g.Players, id)
	for i, pid := range g.TurnOrder {
		if pid == id {
			g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
			if i < g.TurnIndex {
				g.TurnIndex--
			}
			break
		}
	}
	if len(g.TurnOrder) == 0 {
		return false
	}
	g.TurnIndex %= len(g.TurnOrder)
	if wasActive && g.Phase == PhasePlay && g.TurnState != TurnBossTurn {
		// The departed player's turn cannot finish naturally; hand control on
		// without waiting for the clock. Index already points at a successor.
		if p := g.Players[g.ActiveID()]; p != nil && p.Alive() {
			g.beginTurn()
		} else {
			g.advanceIndex()
			g.beginTurn()
		}
	}
	return true
}

// ReloadStage rebuilds the current stage from scratch (host command).
func (g *Game) ReloadStage() {
	g.loadStage(g.stageIdx)
	g.Phase = PhasePlay
	g.Winner = ""
	g.TurnIndex = 0
	g.playerTurnsDone = 0
	g.beginTurn()
}

// ResetPositions puts entities back on their spawns without touching stage
// consumables or scores (host command).
func (g *Game) ResetPositions() {
	for i, id := range g.TurnOrder {
		if p := g.Players[id]; p != nil {
			p.Pos = g.Stage.spawnAt(i)
			p.Vel = geom.Vec2{}
			p.OOBMs = 0
			p.DashStrikeMs = 0
			p.Ricochet = false
		}
	}
	if g.Boss != nil && g.Stage.Boss != nil {
		g.Boss.Pos = g.Stage.Boss.Pos
		g.Boss.Vel = geom.Vec2{}
	}
}

func (g *Game) toast(s string)     { g.toasts = append(g.toasts, s) }
func (g *Game) addShake(m float64) { g.shake = math.Max(g.shake, m) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
