package geom

import "math"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Normalized returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle is the direction of v in radians, in (-pi, pi].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ClosestPoint is the point on (or in) r nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(r.X, math.Min(p.X, r.X+r.W)),
		Y: math.Max(r.Y, math.Min(p.Y, r.Y+r.H)),
	}
}

// CircleOverlapsRect reports whether a circle at c with radius rad overlaps r,
// via the clamped-nearest-point distance-squared test. No trig, O(1).
func CircleOverlapsRect(c Vec2, rad float64, r Rect) bool {
	cp := r.ClosestPoint(c)
	dx := c.X - cp.X
	dy := c.Y - cp.Y
	return dx*dx+dy*dy < rad*rad
}

// CirclesOverlap reports whether two circles intersect.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	rr := ra + rb
	return dx*dx+dy*dy < rr*rr
}

// ResolveCircleRect resolves a moving circle against a solid rectangle.
// If the circle penetrates r, it is pushed out along the separation normal and
// its velocity component along that normal is mirrored (v' = v - 2(v·n)n), then
// the whole velocity is scaled by restitution*damping. Returns the corrected
// position, velocity, and whether a collision happened.
//
// Degenerate case: a circle whose center sits exactly on the clamped point has
// no separation direction; we use "up" instead of dividing by zero.
func ResolveCircleRect(pos, vel Vec2, rad float64, r Rect, restitution, damping float64) (Vec2, Vec2, bool) {
	cp := r.ClosestPoint(pos)
	sep := pos.Sub(cp)
	distSq := sep.Dot(sep)
	if distSq >= rad*rad {
		return pos, vel, false
	}

	var n Vec2
	var depth float64
	if distSq == 0 {
		n = Vec2{0, -1}
		depth = rad
	} else {
		dist := math.Sqrt(distSq)
		n = sep.Scale(1 / dist)
		depth = rad - dist
	}

	pos = pos.Add(n.Scale(depth))
	if vel.Dot(n) < 0 {
		vel = vel.Sub(n.Scale(2 * vel.Dot(n)))
		vel = vel.Scale(restitution * damping)
	}
	return pos, vel, true
}

// ClampSpeed rescales v to max magnitude if it exceeds it, preserving direction.
func ClampSpeed(v Vec2, max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}
