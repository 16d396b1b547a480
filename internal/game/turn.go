package game

type Phase string

const (
	PhasePlay     Phase = "play"
	PhaseRoundEnd Phase = "round_end"
)

type TurnState string

const (
	TurnAim       TurnState = "aim"
	TurnResolving TurnState = "resolving"
	TurnBossTurn  TurnState = "boss_turn"
)

type EndReason string

const (
	ReasonSettled EndReason = "settled"
	ReasonTimeUp  EndReason = "time_up"
)

// ActiveID derives the current actor from the rotation. It is always an
// element of TurnOrder while a Game exists.
func (g *Game) ActiveID() string {
	if len(g.TurnOrder) == 0 {
		return ""
	}
	return g.TurnOrder[g.TurnIndex%len(g.TurnOrder)]
}

// beginTurn opens the aim window for the player at TurnIndex and clears that
// player's turn-scoped flags.
func (g *Game) beginTurn() {
	g.TurnState = TurnAim
	g.TurnMsLeft = float64(g.cfg.PlayerTurnMs)
	if p := g.Players[g.ActiveID()]; p != nil {
		p.CanDashThisTurn = false
		p.DashUsedThisTurn = false
		p.DashWindowMs = 0
		p.DashStrikeMs = 0
		p.Ricochet = false
	}
}

// endTurn closes a player turn and decides what runs next: the next player's
// aim window, or the boss when the cadence counter comes due.
func (g *Game) endTurn(reason EndReason) {
	if reason == ReasonTimeUp {
		if p := g.Players[g.ActiveID()]; p != nil {
			g.toast(p.Name + " ran out of time")
		}
	}
	if p := g.Players[g.ActiveID()]; p != nil {
		p.CanDashThisTurn = false
		p.DashWindowMs = 0
	}
	g.playerTurnsDone++
	g.advanceIndex()

	if g.Mode == ModeBoss && g.Boss != nil && g.Boss.HP > 0 &&
		g.cfg.BossTurnEvery > 0 && g.playerTurnsDone%g.cfg.BossTurnEvery == 0 {
		g.beginBossTurn()
		return
	}
	g.beginTurn()
}

// beginBossTurn hands control to the boss. TurnIndex already points at the
// player who resumes afterward.
func (g *Game) beginBossTurn() {
	g.TurnState = TurnBossTurn
	g.TurnMsLeft = float64(g.cfg.BossTurnMs)
	g.bossAct()
}

func (g *Game) endBossTurn() {
	if g.Boss != nil {
		g.Boss.acted = false
		g.Boss.settleMs = 0
	}
	g.beginTurn()
}

// advanceIndex rotates to the next living player. Dead players keep their
// slot in TurnOrder (scores and snapshots still show them) but are skipped.
func (g *Game) advanceIndex() {
	n := len(g.TurnOrder)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		g.TurnIndex = (g.TurnIndex + 1) % n
		if p := g.Players[g.ActiveID()]; p != nil && p.Alive() {
			return
		}
	}
}

// endRound flips to round_end exactly once; later calls are no-ops so the
// winner can never be overwritten.
func (g *Game) endRound(winnerID string, advanceStage bool) {
	if g.Phase != PhasePlay {
		return
	}
	g.Phase = PhaseRoundEnd
	g.Winner = winnerID
	g.RoundEndMsLeft = float64(g.cfg.RoundEndMs)
	g.advanceStage = advanceStage
}

// nextRound rotates round-start advantage by one position, loads the next
// stage, and fully resets every entity.
func (g *Game) nextRound() {
	g.Round++
	if len(g.TurnOrder) > 1 {
		g.TurnOrder = append(g.TurnOrder[1:], g.TurnOrder[0])
	}
	if g.advanceStage {
		g.stageIdx++
	}
	g.loadStage(g.stageIdx)
	g.Phase = PhasePlay
	g.Winner = ""
	g.TurnIndex = 0
	g.playerTurnsDone = 0
	g.beginTurn()
}
