package game

import "github.com/flickrumble/backend/internal/geom"

type Mode string

const (
	ModeRace Mode = "race"
	ModeBoss Mode = "boss"
)

// Character is the per-archetype physics tuning. Friction is a per-reference-
// tick retention factor (applied as friction^(dt*rate) so decay is the same at
// any tick rate); Bounce is the restitution kept after a wall hit.
type Character struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Radius      float64 `json:"radius"`
	Bounce      float64 `json:"bounce"`
	Friction    float64 `json:"friction"`
	DashCharges int     `json:"dashCharges"`
	LaunchBoost bool    `json:"launchBoost"`
}

var Characters = []Character{
	{ID: "sparky", Name: "Sparky", Radius: 18, Bounce: 0.70, Friction: 0.960, DashCharges: 2},
	{ID: "tank", Name: "Tank", Radius: 22, Bounce: 0.55, Friction: 0.940, DashCharges: 1, LaunchBoost: true},
	{ID: "pinball", Name: "Pinball", Radius: 18, Bounce: 0.92, Friction: 0.970, DashCharges: 1},
	{ID: "wisp", Name: "Wisp", Radius: 14, Bounce: 0.65, Friction: 0.985, DashCharges: 1},
}

// CharacterByID falls back to the first archetype for unknown picks.
func CharacterByID(id string) Character {
	for _, c := range Characters {
		if c.ID == id {
			return c
		}
	}
	return Characters[0]
}

type Player struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Char Character `json:"char"`

	Pos    geom.Vec2 `json:"pos"`
	Vel    geom.Vec2 `json:"vel"`
	Radius float64   `json:"radius"`
	Spawn  geom.Vec2 `json:"-"`

	// Resources.
	Dashes   int     `json:"dashes"`
	Shield   bool    `json:"shield"`
	MagnetMs float64 `json:"magnetMs"`

	// Turn-scoped flags, cleared when the player's next turn begins.
	CanDashThisTurn  bool    `json:"-"`
	DashUsedThisTurn bool    `json:"-"`
	DashWindowMs     float64 `json:"-"`            // window in which a dash may still be triggered
	DashStrikeMs     float64 `json:"dashStrikeMs"` // open strike window after a dash
	Ricochet         bool    `json:"-"`            // bounced off a wall in the current motion
	LaunchUsed       bool    `json:"-"`            // one-time per-round launch boost spent

	Score int `json:"score"`
	Coins int `json:"coins"`

	// Boss mode.
	HP      int       `json:"hp"`
	MaxHP   int       `json:"maxHp"`
	Lives   int       `json:"lives"`
	SafePos geom.Vec2 `json:"-"`

	Finished bool    `json:"finished"`
	OOBMs    float64 `json:"-"`
}

func (p *Player) Speed() float64 { return p.Vel.Len() }

// Alive reports whether the player can still act. Race-mode entities carry no
// health (MaxHP == 0) and are always alive.
func (p *Player) Alive() bool {
	if p.MaxHP == 0 {
		return true
	}
	return p.HP > 0 || p.Lives > 0
}

// Stage features. Consumables carry a taken-by marker set exactly once per
// round and never cleared until the round resets.

type Pad struct {
	Rect  geom.Rect `json:"rect"`
	Boost float64   `json:"boost"`
}

type Hazard struct {
	Pos    geom.Vec2 `json:"pos"`
	Radius float64   `json:"radius"`
}

type Coin struct {
	ID      int       `json:"id"`
	Pos     geom.Vec2 `json:"pos"`
	Radius  float64   `json:"radius"`
	TakenBy string    `json:"takenBy,omitempty"`
}

type PickupKind string

const (
	PickupDash   PickupKind = "dash"
	PickupShield PickupKind = "shield"
	PickupMagnet PickupKind = "magnet"
)

type Pickup struct {
	ID      int        `json:"id"`
	Kind    PickupKind `json:"kind"`
	Pos     geom.Vec2  `json:"pos"`
	Radius  float64    `json:"radius"`
	TakenBy string     `json:"takenBy,omitempty"`
}

// Prop is a movable physics circle (e.g. a throwable stone). Props collide
// with walls like players and can carry indirect hits into the boss; LastHit
// remembers which player last imparted velocity to it.
type Prop struct {
	ID      int       `json:"id"`
	Pos     geom.Vec2 `json:"pos"`
	Vel     geom.Vec2 `json:"vel"`
	Radius  float64   `json:"radius"`
	Bounce  float64   `json:"bounce"`
	LastHit string    `json:"-"`
}
