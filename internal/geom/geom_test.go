package geom

import (
	"math"
	"testing"
)

func TestCircleOverlapsRect(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}

	cases := []struct {
		name string
		c    Vec2
		rad  float64
		want bool
	}{
		{"center inside", Vec2{125, 125}, 5, true},
		{"touching edge from left", Vec2{90, 125}, 11, true},
		{"just outside left", Vec2{90, 125}, 9, false},
		{"corner graze inside", Vec2{96, 96}, 6, true},
		{"corner graze outside", Vec2{95, 95}, 7, false}, // diagonal distance ~7.07
		{"far away", Vec2{0, 0}, 10, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CircleOverlapsRect(tc.c, tc.rad, r); got != tc.want {
				t.Fatalf("overlap: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveCircleRectPushesOutAndReflects(t *testing.T) {
	r := Rect{X: 100, Y: 0, W: 50, H: 200}

	// Moving right into the left face of the wall.
	pos := Vec2{X: 95, Y: 100}
	vel := Vec2{X: 300, Y: 40}
	newPos, newVel, hit := ResolveCircleRect(pos, vel, 10, r, 0.8, 0.9)
	if !hit {
		t.Fatalf("expected collision")
	}
	if newPos.X > 90.0001 {
		t.Fatalf("circle not pushed out: x=%v", newPos.X)
	}
	if newVel.X >= 0 {
		t.Fatalf("x velocity not reflected: %v", newVel.X)
	}
	wantX := -300 * 0.8 * 0.9
	if math.Abs(newVel.X-wantX) > 1e-9 {
		t.Fatalf("reflected x: got %v, want %v", newVel.X, wantX)
	}
}

func TestResolveCircleRectNoHit(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	pos := Vec2{X: 0, Y: 0}
	vel := Vec2{X: 10, Y: 10}
	p, v, hit := ResolveCircleRect(pos, vel, 5, r, 0.8, 0.9)
	if hit || p != pos || v != vel {
		t.Fatalf("expected untouched state, got %v %v %v", p, v, hit)
	}
}

func TestResolveCircleRectDegenerateCenter(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	// Center exactly inside: closest point equals center, zero separation.
	pos := Vec2{X: 120, Y: 120}
	_, _, hit := ResolveCircleRect(pos, Vec2{0, 50}, 8, r, 1, 1)
	if !hit {
		t.Fatalf("expected collision for embedded circle")
	}
}

func TestClampSpeed(t *testing.T) {
	cases := []struct {
		name string
		v    Vec2
		max  float64
	}{
		{"under ceiling", Vec2{30, 40}, 100},
		{"over ceiling", Vec2{300, 400}, 100},
		{"zero", Vec2{0, 0}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampSpeed(tc.v, tc.max)
			if got.Len() > tc.max+1e-9 {
				t.Fatalf("speed %v exceeds ceiling %v", got.Len(), tc.max)
			}
			// Direction preserved.
			if tc.v.Len() > 0 && got.Normalized() != tc.v.Normalized() {
				t.Fatalf("direction changed: %v -> %v", tc.v, got)
			}
		})
	}
}
