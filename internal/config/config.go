package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every gameplay and loop tunable. The simulation never reads
// the environment itself; it gets one of these injected.
type Config struct {
	Addr string

	// Loop rates.
	TickRate     int           // physics steps per second
	SnapshotRate int           // broadcasts per second
	MaxTickSlice time.Duration // dt clamp after a stall, prevents tunneling

	// Turn clock.
	PlayerTurnMs  int
	BossTurnMs    int
	RoundEndMs    int
	BossTurnEvery int // boss acts after this many completed player turns

	// Physics.
	MaxSpeed     float64
	StopSpeed    float64 // below this an entity counts as settled
	SnapSpeed    float64 // velocity components below this snap to zero
	WallDamping  float64
	FrictionRate float64 // reference tick rate for friction exponent
	PropFriction float64
	BossFriction float64

	// Player actions.
	FlickMax       float64
	FlickMin       float64
	DashPower      float64
	DashWindowMs   int
	DashStrikeMs   int
	DashDamage     int
	LaunchBoost    float64
	HazardDamage   int
	FinishBonus    int
	BossKillBonus  int
	CoinValue      int
	MagnetRadius   float64
	MagnetStrength float64
	MagnetMs       int

	// Boss patterns.
	BossChargeSpeed  float64
	BossSlamSpeed    float64
	BossRingDrift    float64
	BossKnockback    float64
	ShockwaveRadius  float64
	ShockwaveImpulse float64

	// Boss-mode player health.
	PlayerHP    int
	PlayerLives int

	// Bounds recovery.
	OOBMargin  float64
	OOBGraceMs int

	// Boss settle time before handing the turn back.
	BossSettleMs int
}

// Default returns the tuning the built-in stages were balanced against.
func Default() Config {
	return Config{
		Addr:             ":8080",
		TickRate:         60,
		SnapshotRate:     20,
		MaxTickSlice:     50 * time.Millisecond,
		PlayerTurnMs:     15000,
		BossTurnMs:       6000,
		RoundEndMs:       3000,
		BossTurnEvery:    2,
		MaxSpeed:         1400,
		StopSpeed:        8,
		SnapSpeed:        0.5,
		WallDamping:      0.90,
		FrictionRate:     60,
		PropFriction:     0.96,
		BossFriction:     0.95,
		FlickMax:         900,
		FlickMin:         -900,
		DashPower:        650,
		DashWindowMs:     2500,
		DashStrikeMs:     1200,
		DashDamage:       2,
		LaunchBoost:      1.35,
		HazardDamage:     1,
		FinishBonus:      100,
		BossKillBonus:    150,
		CoinValue:        1,
		MagnetRadius:     240,
		MagnetStrength:   90000,
		MagnetMs:         6000,
		BossChargeSpeed:  620,
		BossSlamSpeed:    520,
		BossRingDrift:    80,
		BossKnockback:    500,
		ShockwaveRadius:  220,
		ShockwaveImpulse: 700,
		PlayerHP:         3,
		PlayerLives:      2,
		OOBMargin:        60,
		OOBGraceMs:       700,
		BossSettleMs:     600,
	}
}

// FromEnv overlays environment variables onto the defaults. Call
// godotenv.Load first if a .env file should participate.
func FromEnv() Config {
	c := Default()
	str(&c.Addr, "ADDR")
	num(&c.TickRate, "TICK_RATE")
	num(&c.SnapshotRate, "SNAPSHOT_RATE")
	dur(&c.MaxTickSlice, "MAX_TICK_SLICE_MS")
	num(&c.PlayerTurnMs, "PLAYER_TURN_MS")
	num(&c.BossTurnMs, "BOSS_TURN_MS")
	num(&c.RoundEndMs, "ROUND_END_MS")
	num(&c.BossTurnEvery, "BOSS_TURN_EVERY")
	fnum(&c.MaxSpeed, "MAX_SPEED")
	fnum(&c.StopSpeed, "STOP_SPEED")
	fnum(&c.SnapSpeed, "SNAP_SPEED")
	fnum(&c.WallDamping, "WALL_DAMPING")
	fnum(&c.FrictionRate, "FRICTION_RATE")
	fnum(&c.PropFriction, "PROP_FRICTION")
	fnum(&c.BossFriction, "BOSS_FRICTION")
	fnum(&c.FlickMax, "FLICK_MAX")
	fnum(&c.DashPower, "DASH_POWER")
	num(&c.DashWindowMs, "DASH_WINDOW_MS")
	num(&c.DashStrikeMs, "DASH_STRIKE_MS")
	num(&c.DashDamage, "DASH_DAMAGE")
	fnum(&c.LaunchBoost, "LAUNCH_BOOST")
	num(&c.HazardDamage, "HAZARD_DAMAGE")
	num(&c.FinishBonus, "FINISH_BONUS")
	num(&c.BossKillBonus, "BOSS_KILL_BONUS")
	num(&c.CoinValue, "COIN_VALUE")
	fnum(&c.MagnetRadius, "MAGNET_RADIUS")
	fnum(&c.MagnetStrength, "MAGNET_STRENGTH")
	num(&c.MagnetMs, "MAGNET_MS")
	fnum(&c.BossChargeSpeed, "BOSS_CHARGE_SPEED")
	fnum(&c.BossSlamSpeed, "BOSS_SLAM_SPEED")
	fnum(&c.BossRingDrift, "BOSS_RING_DRIFT")
	fnum(&c.BossKnockback, "BOSS_KNOCKBACK")
	fnum(&c.ShockwaveRadius, "SHOCKWAVE_RADIUS")
	fnum(&c.ShockwaveImpulse, "SHOCKWAVE_IMPULSE")
	num(&c.PlayerHP, "PLAYER_HP")
	num(&c.PlayerLives, "PLAYER_LIVES")
	num(&c.OOBGraceMs, "OOB_GRACE_MS")
	fnum(&c.OOBMargin, "OOB_MARGIN")
	num(&c.BossSettleMs, "BOSS_SETTLE_MS")
	c.FlickMin = -c.FlickMax
	return c
}

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func num(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func fnum(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func dur(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}
