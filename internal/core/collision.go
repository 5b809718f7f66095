package core

import "math"

// CircleRectIntersects reports whether a circle overlaps a rectangle.
// The circle center is clamped to the rectangle to find the nearest point;
// they collide when that point is strictly closer than the radius.
func CircleRectIntersects(c Circle, r RectF) bool {
	nearestX := ClampF(c.Center.X, r.X, r.Right())
	nearestY := ClampF(c.Center.Y, r.Y, r.Bottom())

	dx := c.Center.X - nearestX
	dy := c.Center.Y - nearestY

	return dx*dx+dy*dy < c.Radius*c.Radius
}

// CircleHitsCeiling reports whether the circle touches or crosses y = top.
func CircleHitsCeiling(c Circle, top float64) bool {
	return c.Center.Y-c.Radius <= top
}

// CircleHitsGround reports whether the circle touches or crosses the ground line.
func CircleHitsGround(c Circle, groundY float64) bool {
	return c.Center.Y+c.Radius >= groundY
}

// DistanceToRect returns the shortest distance from p to the rectangle.
// Points inside the rectangle are at distance zero.
func DistanceToRect(p Vec2, r RectF) float64 {
	dx := math.Max(math.Max(r.X-p.X, 0), p.X-r.Right())
	dy := math.Max(math.Max(r.Y-p.Y, 0), p.Y-r.Bottom())
	return math.Hypot(dx, dy)
}
