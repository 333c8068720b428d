package staticmap

import "math"

// Point is a position in canvas pixel space.
type Point struct {
	X float64
	Y float64
}

// Simplify thins out a pixel-space path in a single pass: the first point is
// always kept, each following point is kept only if it is more than tolerance
// pixels away from the last kept point, and the final point is always kept.
// Paths with fewer than two points are returned unchanged.
//
// This is plain density reduction, not Douglas-Peucker: it does not bound the
// perpendicular deviation from the original path.
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) < 2 {
		return points
	}

	kept := []Point{points[0]}

	for _, point := range points[1 : len(points)-1] {
		last := kept[len(kept)-1]

		if math.Hypot(last.X-point.X, last.Y-point.Y) > tolerance {
			kept = append(kept, point)
		}
	}

	return append(kept, points[len(points)-1])
}
