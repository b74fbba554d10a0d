package common

import "math"

// Point is a plain 2D point, independent of any engine's vector type, so
// this package stays free of an import on the physics collaborator.
type Point struct {
	X, Y float64
}

// Centroid returns the arithmetic mean of a vertex list and the maximum
// distance from that mean to any vertex, i.e. the tightest bounding circle
// centered on the centroid (not the minimal enclosing circle — a looser
// bound is fine for a broad-phase candidate filter).
func Centroid(verts []Point) (center Point, maxDist float64) {
	if len(verts) == 0 {
		return Point{}, 0
	}
	var sx, sy float64
	for _, v := range verts {
		sx += v.X
		sy += v.Y
	}
	n := float64(len(verts))
	center = Point{X: sx / n, Y: sy / n}
	for _, v := range verts {
		if d := Dist(center.X, center.Y, v.X, v.Y); d > maxDist {
			maxDist = d
		}
	}
	return center, maxDist
}

// LineLength returns the length of the segment (x1,y1)-(x2,y2).
func LineLength(x1, y1, x2, y2 float64) float64 {
	return Dist(x1, y1, x2, y2)
}

// IsCircleInside reports whether the circle (cx,cy,r) lies entirely inside
// the axis-aligned rectangle [rx,ry, rx+rw,ry+rh].
func IsCircleInside(cx, cy, r, rx, ry, rw, rh float64) bool {
	return cx-r >= rx && cx+r <= rx+rw && cy-r >= ry && cy+r <= ry+rh
}

// CircleIntersectsRect reports whether the circle (cx,cy,r) overlaps the
// axis-aligned rectangle [rx,ry, rx+rw,ry+rh] (partial or full overlap).
func CircleIntersectsRect(cx, cy, r, rx, ry, rw, rh float64) bool {
	nearestX := Clamp(cx, rx, rx+rw)
	nearestY := Clamp(cy, ry, ry+rh)
	return Dist2(cx, cy, nearestX, nearestY) <= r*r
}

// GetCircleIntersection reports whether two circles overlap (touching
// counts as overlapping).
func GetCircleIntersection(x1, y1, r1, x2, y2, r2 float64) bool {
	rr := r1 + r2
	return Dist2(x1, y1, x2, y2) <= rr*rr
}

// IsPointInPolygon is the standard ray-casting point-in-polygon test.
func IsPointInPolygon(px, py float64, verts []Point) bool {
	inside := false
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := verts[i], verts[j]
		if (vi.Y > py) != (vj.Y > py) &&
			px < (vj.X-vi.X)*(py-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// IsPolygonInside reports whether every vertex of verts lies inside the
// rectangle [rx,ry, rx+rw,ry+rh].
func IsPolygonInside(verts []Point, rx, ry, rw, rh float64) bool {
	for _, v := range verts {
		if v.X < rx || v.X > rx+rw || v.Y < ry || v.Y > ry+rh {
			return false
		}
	}
	return true
}

// PolygonIntersectsRect reports whether the polygon verts overlaps the
// rectangle [rx,ry, rx+rw,ry+rh]: either a polygon vertex lies in the rect,
// a rect corner lies in the polygon, or an edge of one crosses an edge of
// the other.
func PolygonIntersectsRect(verts []Point, rx, ry, rw, rh float64) bool {
	for _, v := range verts {
		if v.X >= rx && v.X <= rx+rw && v.Y >= ry && v.Y <= ry+rh {
			return true
		}
	}
	corners := []Point{
		{X: rx, Y: ry}, {X: rx + rw, Y: ry}, {X: rx + rw, Y: ry + rh}, {X: rx, Y: ry + rh},
	}
	for _, c := range corners {
		if IsPointInPolygon(c.X, c.Y, verts) {
			return true
		}
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		for j := 0; j < 4; j++ {
			c, d := corners[j], corners[(j+1)%4]
			if segmentsIntersect(a, b, c, d) {
				return true
			}
		}
	}
	return false
}

// PolygonIntersectsCircle reports whether the polygon verts overlaps the
// circle (cx,cy,r): a vertex is inside the circle, the circle center is
// inside the polygon, or an edge passes within r of the center.
func PolygonIntersectsCircle(verts []Point, cx, cy, r float64) bool {
	if IsPointInPolygon(cx, cy, verts) {
		return true
	}
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		if distToSegment(cx, cy, a, b) <= r {
			return true
		}
	}
	return false
}

func distToSegment(px, py float64, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := px-a.X, py-a.Y
	segLen2 := vx*vx + vy*vy
	if segLen2 == 0 {
		return Dist(px, py, a.X, a.Y)
	}
	t := (wx*vx + wy*vy) / segLen2
	t = Clamp(t, 0, 1)
	projX, projY := a.X+t*vx, a.Y+t*vy
	return Dist(px, py, projX, projY)
}

func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
