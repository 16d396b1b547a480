package game

import (
	"math"

	"github.com/flickrumble/backend/internal/geom"
)

// Ruleset gates which damage sources a boss accepts. It is a closed set:
// each archetype carries only the fields its rule needs, so invalid
// combinations (a parry ring on a weak-spot boss) cannot be built.
type Ruleset interface {
	isRuleset()
	Kind() RuleKind
}

type RuleKind string

const (
	RuleDashOnly   RuleKind = "dash_only"
	RuleParryOnly  RuleKind = "parry_only"
	RuleWeakSpot   RuleKind = "weak_spot"
	RuleRicochet   RuleKind = "ricochet"
	RuleStunPunish RuleKind = "stun_punish"
)

// DashOnly accepts damage only while the attacker's post-dash strike window
// is open.
type DashOnly struct{}

func (DashOnly) isRuleset()     {}
func (DashOnly) Kind() RuleKind { return RuleDashOnly }

// ParryOnly bosses emit an expanding ring on their turn; a player dashing
// through the ring within Tolerance of its current radius lands a counter-hit,
// while touching it without dashing hurts the player instead.
type ParryOnly struct {
	RingSpeed float64 // radius growth per second
	RingMax   float64 // ring despawns past this radius
	Tolerance float64
}

func (ParryOnly) isRuleset()     {}
func (ParryOnly) Kind() RuleKind { return RuleParryOnly }

// WeakSpot accepts damage only when the contact angle falls within Arc of the
// current weak-spot angle, which spins at SpinRate radians per second.
type WeakSpot struct {
	Arc      float64
	SpinRate float64
}

func (WeakSpot) isRuleset()     {}
func (WeakSpot) Kind() RuleKind { return RuleWeakSpot }

// RicochetRequired accepts only hits that followed a wall bounce in the same
// motion.
type RicochetRequired struct{}

func (RicochetRequired) isRuleset()     {}
func (RicochetRequired) Kind() RuleKind { return RuleRicochet }

// StunPunish bosses start shielded. Indirect hits (props knocked into the
// boss) accumulate cracks; at CrackThreshold the shield drops for WindowMs,
// during which any hit damages the boss, then it re-shields.
type StunPunish struct {
	CrackThreshold int
	WindowMs       float64
}

func (StunPunish) isRuleset()     {}
func (StunPunish) Kind() RuleKind { return RuleStunPunish }

type Boss struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	HP     int       `json:"hp"`
	MaxHP  int       `json:"maxHp"`
	Pos    geom.Vec2 `json:"pos"`
	Vel    geom.Vec2 `json:"vel"`
	Radius float64   `json:"radius"`
	Rule   RuleKind  `json:"rule"`

	rules Ruleset

	// Transient combat state.
	WeakAngle    float64   `json:"weakAngle"`
	RingActive   bool      `json:"ringActive"`
	RingRadius   float64   `json:"ringRadius"`
	RingCenter   geom.Vec2 `json:"ringCenter"`
	Cracks       int       `json:"cracks"`
	Shielded     bool      `json:"shielded"`
	ShieldDownMs float64   `json:"-"`

	settleMs float64
	acted    bool
}

// Contact describes one damage attempt against the boss. Source distinguishes
// a direct body hit from a post-ricochet hit or a thrown prop.
type Contact struct {
	AttackerID string
	Dashing    bool // attacker's strike window was open
	Ricochet   bool // hit followed a wall bounce in the same motion
	Prop       bool
	Angle      float64 // attacker-to-boss direction
}

// acceptsDamage applies the boss's gating rule to one contact. It never
// mutates HP; the caller applies damage when the gate passes.
func (b *Boss) acceptsDamage(c Contact) bool {
	switch r := b.rules.(type) {
	case DashOnly:
		return c.Dashing
	case ParryOnly:
		// Body contact never damages a parry boss; ring parries are resolved
		// by the ring update in the step function and bypass this gate.
		return false
	case WeakSpot:
		return !c.Prop && angleWithin(c.Angle, b.WeakAngle, r.Arc)
	case RicochetRequired:
		return c.Ricochet
	case StunPunish:
		if b.Shielded {
			return false
		}
		return true
	default:
		return false
	}
}

// registerCrack counts an indirect hit against a shielded stun-punish boss
// and reports whether the shield just broke.
func (b *Boss) registerCrack() bool {
	r, ok := b.rules.(StunPunish)
	if !ok || !b.Shielded {
		return false
	}
	b.Cracks++
	if b.Cracks >= r.CrackThreshold {
		b.Shielded = false
		b.ShieldDownMs = r.WindowMs
		b.Cracks = 0
		return true
	}
	return false
}

// damage clamps HP at zero and returns the amount actually applied.
func (b *Boss) damage(amount int) int {
	if amount > b.HP {
		amount = b.HP
	}
	b.HP -= amount
	return amount
}

// angleWithin reports whether a is within halfArc of center, wrapping at pi.
func angleWithin(a, center, halfArc float64) bool {
	d := math.Mod(a-center, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d) <= halfArc
}

// bossAct runs once at the start of a boss turn: pick the nearest living
// target and execute one deterministic pattern.
func (g *Game) bossAct() {
	b := g.Boss
	if b == nil {
		return
	}
	b.acted = true
	b.settleMs = 0

	target := g.nearestLivingPlayer(b.Pos)

	switch b.rules.(type) {
	case ParryOnly:
		// Ring bosses hold position and emit their ring; a slow drift away
		// from the target keeps them from being cornered.
		b.RingActive = true
		b.RingRadius = b.Radius
		b.RingCenter = b.Pos
		if target != nil {
			away := b.Pos.Sub(target.Pos).Normalized()
			b.Vel = away.Scale(g.cfg.BossRingDrift)
		}
	case StunPunish:
		// Shielded bosses slam toward the target to scatter props.
		if target != nil {
			b.Vel = target.Pos.Sub(b.Pos).Normalized().Scale(g.cfg.BossSlamSpeed)
		}
	default:
		if target == nil {
			return
		}
		// Alternate charge and shockwave by round parity so the pattern is
		// predictable but not static.
		if g.Round%2 == 1 {
			b.Vel = target.Pos.Sub(b.Pos).Normalized().Scale(g.cfg.BossChargeSpeed)
		} else {
			g.bossShockwave()
		}
	}
	b.Vel = geom.ClampSpeed(b.Vel, g.cfg.MaxSpeed)
}

// bossShockwave knocks back and damages every living player in range.
func (g *Game) bossShockwave() {
	b := g.Boss
	for _, p := range g.Players {
		if !p.Alive() {
			continue
		}
		d := p.Pos.Sub(b.Pos)
		if d.Len() > g.cfg.ShockwaveRadius+p.Radius {
			continue
		}
		p.Vel = p.Vel.Add(d.Normalized().Scale(g.cfg.ShockwaveImpulse))
		p.Vel = geom.ClampSpeed(p.Vel, g.cfg.MaxSpeed)
		g.hurtPlayer(p, g.cfg.HazardDamage)
	}
	g.addShake(8)
	g.toast(b.Name + " unleashes a shockwave!")
}

func (g *Game) nearestLivingPlayer(from geom.Vec2) *Player {
	var best *Player
	bestD := math.MaxFloat64
	for _, id := range g.TurnOrder {
		p := g.Players[id]
		if p == nil || !p.Alive() {
			continue
		}
		if d := p.Pos.Sub(from).Len(); d < bestD {
			best, bestD = p, d
		}
	}
	return best
}
