package game

import (
	"math"

	"github.com/flickrumble/backend/internal/geom"
)

// Step advances the simulation by dt seconds. The owning room calls it once
// per tick; nothing here blocks or does I/O.
func (g *Game) Step(dt float64) {
	if g.Phase == PhaseRoundEnd {
		g.RoundEndMsLeft -= dt * 1000
		if g.RoundEndMsLeft <= 0 {
			g.nextRound()
		}
		return
	}

	g.TurnMsLeft -= dt * 1000
	timeUp := g.TurnMsLeft <= 0

	for _, id := range g.TurnOrder {
		if p := g.Players[id]; p != nil && p.Alive() {
			g.stepPlayer(p, dt)
		}
	}
	g.stepProps(dt)
	g.stepBoss(dt)
	if g.Phase != PhasePlay {
		// A win check fired mid-step; no turn transition on top of it.
		return
	}

	switch g.TurnState {
	case TurnAim:
		if timeUp {
			g.endTurn(ReasonTimeUp)
		}
	case TurnResolving:
		if g.allSettled() {
			g.endTurn(ReasonSettled)
		} else if timeUp {
			g.endTurn(ReasonTimeUp)
		}
	case TurnBossTurn:
		b := g.Boss
		done := timeUp
		if b != nil && b.acted {
			if b.Vel.Len() < g.cfg.StopSpeed {
				b.settleMs += dt * 1000
			} else {
				b.settleMs = 0
			}
			if b.settleMs >= float64(g.cfg.BossSettleMs) {
				done = true
			}
		}
		if done {
			g.endBossTurn()
		}
	}
}

func (g *Game) stepPlayer(p *Player, dt float64) {
	// 1. Transient timers.
	p.MagnetMs = math.Max(0, p.MagnetMs-dt*1000)
	p.DashWindowMs = math.Max(0, p.DashWindowMs-dt*1000)
	p.DashStrikeMs = math.Max(0, p.DashStrikeMs-dt*1000)
	if p.DashWindowMs == 0 {
		p.CanDashThisTurn = false
	}

	// 2. Magnet: pull unclaimed coins in, harder the closer they are.
	if p.MagnetMs > 0 {
		for i := range g.Stage.Coins {
			c := &g.Stage.Coins[i]
			if c.TakenBy != "" {
				continue
			}
			d := p.Pos.Sub(c.Pos)
			dist := d.Len()
			if dist == 0 || dist > g.cfg.MagnetRadius {
				continue
			}
			c.Pos = c.Pos.Add(d.Normalized().Scale(g.cfg.MagnetStrength / dist * dt))
		}
	}

	// 3-5. Integrate, decay, clamp.
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	g.applyFriction(&p.Vel, p.Char.Friction, dt)
	p.Vel = geom.ClampSpeed(p.Vel, g.cfg.MaxSpeed)

	// 6. Static geometry and consumables.
	for _, w := range g.Stage.Walls {
		var hit bool
		p.Pos, p.Vel, hit = geom.ResolveCircleRect(p.Pos, p.Vel, p.Radius, w, p.Char.Bounce, g.cfg.WallDamping)
		if hit {
			p.Ricochet = true
		}
	}
	for _, pad := range g.Stage.Pads {
		if geom.CircleOverlapsRect(p.Pos, p.Radius, pad.Rect) {
			p.Vel = geom.ClampSpeed(p.Vel.Scale(pad.Boost), g.cfg.MaxSpeed)
		}
	}
	g.consumeCoins(p)
	g.consumePickups(p)
	g.applyHazards(p)

	if g.Phase != PhasePlay {
		return
	}

	// 7. Out-of-bounds grace and recovery.
	g.checkBounds(p, dt)

	// Track the last safe spot for hazard respawns.
	if p.OOBMs == 0 && !g.nearAnyHazard(p) {
		p.SafePos = p.Pos
	}

	// 8. Mode-specific win condition.
	if g.Mode == ModeRace && !p.Finished && g.Stage.Finish != nil &&
		geom.CircleOverlapsRect(p.Pos, p.Radius, *g.Stage.Finish) {
		p.Finished = true
		p.Score += g.cfg.FinishBonus
		g.toast(p.Name + " takes the round!")
		g.endRound(p.ID, true)
		return
	}

	if g.Boss != nil {
		g.playerBossContact(p)
	}
}

// applyFriction decays velocity tick-rate independently and snaps near-zero
// components to exactly zero so entities always come to rest.
func (g *Game) applyFriction(v *geom.Vec2, friction, dt float64) {
	f := math.Pow(friction, dt*g.cfg.FrictionRate)
	v.X *= f
	v.Y *= f
	if math.Abs(v.X) < g.cfg.SnapSpeed {
		v.X = 0
	}
	if math.Abs(v.Y) < g.cfg.SnapSpeed {
		v.Y = 0
	}
}

func (g *Game) consumeCoins(p *Player) {
	for i := range g.Stage.Coins {
		c := &g.Stage.Coins[i]
		if c.TakenBy != "" {
			continue
		}
		if geom.CirclesOverlap(p.Pos, p.Radius, c.Pos, c.Radius) {
			c.TakenBy = p.ID
			p.Coins += g.cfg.CoinValue
			p.Score += g.cfg.CoinValue
		}
	}
}

func (g *Game) consumePickups(p *Player) {
	for i := range g.Stage.Pickups {
		pk := &g.Stage.Pickups[i]
		if pk.TakenBy != "" {
			continue
		}
		if !geom.CirclesOverlap(p.Pos, p.Radius, pk.Pos, pk.Radius) {
			continue
		}
		pk.TakenBy = p.ID
		switch pk.Kind {
		case PickupDash:
			p.Dashes++
		case PickupShield:
			p.Shield = true
		case PickupMagnet:
			p.MagnetMs = float64(g.cfg.MagnetMs)
		}
		g.toast(p.Name + " grabbed a " + string(pk.Kind))
	}
}

func (g *Game) applyHazards(p *Player) {
	for _, h := range g.Stage.Hazards {
		if !geom.CirclesOverlap(p.Pos, p.Radius, h.Pos, h.Radius) {
			continue
		}
		if p.Shield {
			// The shield absorbs the hit; shove the player clear so the same
			// hazard cannot re-trigger next tick.
			p.Shield = false
			n := p.Pos.Sub(h.Pos).Normalized()
			if n == (geom.Vec2{}) {
				n = geom.Vec2{Y: -1}
			}
			p.Pos = h.Pos.Add(n.Scale(h.Radius + p.Radius))
			if p.Vel.Dot(n) < 0 {
				p.Vel = p.Vel.Sub(n.Scale(2 * p.Vel.Dot(n))).Scale(g.cfg.WallDamping)
			}
			g.toast(p.Name + "'s shield broke!")
			continue
		}
		if g.Mode == ModeBoss {
			g.hurtPlayer(p, g.cfg.HazardDamage)
			p.Pos = p.SafePos
			p.Vel = geom.Vec2{}
		} else {
			p.Pos = p.Spawn
			p.Vel = geom.Vec2{}
			g.toast(p.Name + " hit a hazard")
		}
		p.DashStrikeMs = 0
		p.Ricochet = false
		return
	}
}

// hurtPlayer applies boss-mode damage, burning a life and respawning while
// any remain.
func (g *Game) hurtPlayer(p *Player, dmg int) {
	if g.Mode != ModeBoss || !p.Alive() {
		return
	}
	p.HP -= dmg
	g.addShake(4)
	if p.HP > 0 {
		return
	}
	if p.Lives > 0 {
		p.Lives--
		p.HP = g.cfg.PlayerHP
		p.Pos = p.Spawn
		p.Vel = geom.Vec2{}
		g.toast(p.Name + " is back up")
		return
	}
	p.HP = 0
	g.toast(p.Name + " is down!")
	if g.nearestLivingPlayer(p.Pos) == nil {
		g.toast(g.Boss.Name + " wins the round")
		g.endRound("", false)
	}
}

func (g *Game) nearAnyHazard(p *Player) bool {
	for _, h := range g.Stage.Hazards {
		if geom.CirclesOverlap(p.Pos, p.Radius+20, h.Pos, h.Radius) {
			return true
		}
	}
	return false
}

// checkBounds tolerates brief clipping past the playable bounds; only after
// the grace period does the entity snap back to spawn with zeroed velocity
// and cleared strike flags.
func (g *Game) checkBounds(p *Player, dt float64) {
	b := g.Stage.Bounds
	m := g.cfg.OOBMargin
	out := p.Pos.X < b.X-m || p.Pos.X > b.X+b.W+m ||
		p.Pos.Y < b.Y-m || p.Pos.Y > b.Y+b.H+m
	if !out {
		p.OOBMs = 0
		return
	}
	p.OOBMs += dt * 1000
	if p.OOBMs < float64(g.cfg.OOBGraceMs) {
		return
	}
	p.Pos = p.Spawn
	p.Vel = geom.Vec2{}
	p.OOBMs = 0
	p.DashStrikeMs = 0
	p.Ricochet = false
	g.toast(p.Name + " fell out of the arena")
}

func (g *Game) stepProps(dt float64) {
	for i := range g.Stage.Props {
		pr := &g.Stage.Props[i]
		pr.Pos = pr.Pos.Add(pr.Vel.Scale(dt))
		g.applyFriction(&pr.Vel, g.cfg.PropFriction, dt)
		pr.Vel = geom.ClampSpeed(pr.Vel, g.cfg.MaxSpeed)
		for _, w := range g.Stage.Walls {
			pr.Pos, pr.Vel, _ = geom.ResolveCircleRect(pr.Pos, pr.Vel, pr.Radius, w, pr.Bounce, g.cfg.WallDamping)
		}

		// Players shove props; the prop remembers who touched it last so an
		// indirect boss hit can be attributed.
		for _, id := range g.TurnOrder {
			p := g.Players[id]
			if p == nil || !p.Alive() {
				continue
			}
			if !geom.CirclesOverlap(p.Pos, p.Radius, pr.Pos, pr.Radius) {
				continue
			}
			n := pr.Pos.Sub(p.Pos).Normalized()
			if n == (geom.Vec2{}) {
				n = geom.Vec2{Y: -1}
			}
			pr.Pos = p.Pos.Add(n.Scale(p.Radius + pr.Radius))
			pr.Vel = geom.ClampSpeed(pr.Vel.Add(p.Vel.Scale(0.9)), g.cfg.MaxSpeed)
			p.Vel = p.Vel.Scale(0.6)
			pr.LastHit = p.ID
		}

		if g.Boss != nil && g.Boss.HP > 0 && pr.Vel.Len() > g.cfg.StopSpeed &&
			geom.CirclesOverlap(pr.Pos, pr.Radius, g.Boss.Pos, g.Boss.Radius) {
			g.propBossContact(pr)
		}
	}
}

func (g *Game) propBossContact(pr *Prop) {
	b := g.Boss
	n := pr.Pos.Sub(b.Pos).Normalized()
	if n == (geom.Vec2{}) {
		n = geom.Vec2{Y: -1}
	}
	pr.Pos = b.Pos.Add(n.Scale(b.Radius + pr.Radius))
	pr.Vel = pr.Vel.Sub(n.Scale(2 * pr.Vel.Dot(n))).Scale(pr.Bounce)

	c := Contact{AttackerID: pr.LastHit, Prop: true, Angle: b.Pos.Sub(pr.Pos).Angle()}
	if b.Shielded {
		if b.registerCrack() {
			g.addShake(6)
			g.toast(b.Name + "'s shield shatters!")
		} else {
			g.toast(b.Name + "'s shield cracks")
		}
		return
	}
	if b.acceptsDamage(c) {
		g.applyBossDamage(pr.LastHit, 1)
	}
}

func (g *Game) playerBossContact(p *Player) {
	b := g.Boss
	if b.HP <= 0 {
		return
	}

	// Parry ring check runs regardless of body contact.
	if r, ok := b.rules.(ParryOnly); ok && b.RingActive {
		dist := p.Pos.Sub(b.RingCenter).Len()
		if math.Abs(dist-b.RingRadius) <= r.Tolerance {
			if p.DashStrikeMs > 0 {
				b.RingActive = false
				p.DashStrikeMs = 0
				g.addShake(6)
				g.toast(p.Name + " parries!")
				g.applyBossDamage(p.ID, g.cfg.DashDamage)
			} else if p.Speed() > g.cfg.StopSpeed {
				b.RingActive = false
				g.hurtPlayer(p, 1)
				p.Vel = p.Pos.Sub(b.RingCenter).Normalized().Scale(400)
			}
		}
	}

	if !geom.CirclesOverlap(p.Pos, p.Radius, b.Pos, b.Radius) {
		return
	}

	n := p.Pos.Sub(b.Pos).Normalized()
	if n == (geom.Vec2{}) {
		n = geom.Vec2{Y: -1}
	}
	c := Contact{
		AttackerID: p.ID,
		Dashing:    p.DashStrikeMs > 0,
		Ricochet:   p.Ricochet,
		Angle:      b.Pos.Sub(p.Pos).Angle(),
	}

	// Push the player off the boss and bounce.
	p.Pos = b.Pos.Add(n.Scale(b.Radius + p.Radius))
	if p.Vel.Dot(n) < 0 {
		p.Vel = p.Vel.Sub(n.Scale(2 * p.Vel.Dot(n))).Scale(p.Char.Bounce * g.cfg.WallDamping)
	}

	if !b.acceptsDamage(c) {
		return
	}
	dmg := 1
	if c.Dashing {
		dmg = g.cfg.DashDamage
		// One damage event per dash: close the window on a landed hit.
		p.DashStrikeMs = 0
	}
	g.applyBossDamage(p.ID, dmg)
}

// applyBossDamage clamps HP at zero, pulses feedback proportional to the
// damage, and ends the round on a kill.
func (g *Game) applyBossDamage(attackerID string, dmg int) {
	b := g.Boss
	applied := b.damage(dmg)
	if applied <= 0 {
		return
	}
	g.addShake(float64(3 * applied))
	if attacker := g.Players[attackerID]; attacker != nil {
		attacker.Score += applied
	}
	if b.HP > 0 {
		return
	}
	g.toast(b.Name + " is defeated!")
	for _, p := range g.Players {
		if p.Alive() {
			p.Score += g.cfg.BossKillBonus
		}
	}
	g.endRound(attackerID, true)
}

func (g *Game) stepBoss(dt float64) {
	b := g.Boss
	if b == nil || g.Phase != PhasePlay {
		return
	}

	// Transient rule state advances even off-turn.
	switch r := b.rules.(type) {
	case WeakSpot:
		b.WeakAngle = math.Mod(b.WeakAngle+r.SpinRate*dt, 2*math.Pi)
	case ParryOnly:
		if b.RingActive {
			b.RingRadius += r.RingSpeed * dt
			if b.RingRadius > r.RingMax {
				b.RingActive = false
			}
		}
	case StunPunish:
		if !b.Shielded {
			b.ShieldDownMs -= dt * 1000
			if b.ShieldDownMs <= 0 {
				b.Shielded = true
				b.Cracks = 0
				g.toast(b.Name + " re-shields")
			}
		}
	}

	if b.HP <= 0 {
		return
	}

	// The boss integrates exactly like a player entity.
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	g.applyFriction(&b.Vel, g.cfg.BossFriction, dt)
	b.Vel = geom.ClampSpeed(b.Vel, g.cfg.MaxSpeed)
	for _, w := range g.Stage.Walls {
		b.Pos, b.Vel, _ = geom.ResolveCircleRect(b.Pos, b.Vel, b.Radius, w, 0.6, g.cfg.WallDamping)
	}

	// A charging boss that lands on a player hurts them.
	if g.TurnState == TurnBossTurn && b.Vel.Len() > g.cfg.StopSpeed {
		for _, id := range g.TurnOrder {
			p := g.Players[id]
			if p == nil || !p.Alive() {
				continue
			}
			if geom.CirclesOverlap(p.Pos, p.Radius, b.Pos, b.Radius) {
				g.hurtPlayer(p, 1)
				knock := p.Pos.Sub(b.Pos).Normalized().Scale(g.cfg.BossKnockback)
				p.Vel = geom.ClampSpeed(p.Vel.Add(knock), g.cfg.MaxSpeed)
			}
		}
	}
}

// allSettled reports whether every living player is effectively at rest.
func (g *Game) allSettled() bool {
	for _, id := range g.TurnOrder {
		if p := g.Players[id]; p != nil && p.Alive() && p.Speed() >= g.cfg.StopSpeed {
			return false
		}
	}
	return true
}
