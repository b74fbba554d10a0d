package ccworld

import (
	"github.com/duskforge/ccworld/common"
	"github.com/jakecoffman/cp"
)

// QueryFilter narrows a shape query to colliders whose class passes it,
// defaulting to AllClasses().
type QueryFilter struct {
	classes PeerSet
	self    string
}

// NoFilter accepts every class.
func NoFilter() QueryFilter { return QueryFilter{classes: AllClasses()} }

// FilterClasses accepts only the named classes.
func FilterClasses(names ...string) QueryFilter { return QueryFilter{classes: Classes(names...)} }

// FilterAllExcept accepts every class except the named ones.
func FilterAllExcept(names ...string) QueryFilter { return QueryFilter{classes: AllExcept(names...)} }

func (f QueryFilter) accepts(reg *classRegistry, class string) bool {
	if f.classes.isZero() {
		return true
	}
	universe := reg.order
	set := f.classes.resolve(f.self, universe)
	return set[class]
}

func newDebugQuery(kind debugQueryKind, ttl int, data any) debugQuery {
	return debugQuery{kind: kind, ttl: ttl, data: data}
}

type debugQueryKind int

const (
	debugQueryCircle debugQueryKind = iota
	debugQueryRect
	debugQueryPolygon
	debugQueryLine
)

const defaultQueryTTL = 10

type debugQuery struct {
	kind debugQueryKind
	ttl  int
	data any
}

// candidatesInAABB collects the distinct colliders owning a non-sensor
// fixture whose engine bounding box overlaps [x1,y1,x2,y2].
func (w *World) candidatesInAABB(x1, y1, x2, y2 float64) []*Collider {
	seen := make(map[*Collider]struct{})
	var out []*Collider
	bb := cp.BB{L: x1, B: y1, R: x2, T: y2}
	w.sp.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, userData interface{}) {
		if shape.Sensor {
			return
		}
		c := w.colliderOf(shape)
		if c == nil {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	})
	return out
}

func (w *World) classPasses(filter QueryFilter, c *Collider) bool {
	return filter.accepts(w.classes, c.class)
}

// solidVertices returns the world-space vertices of collider c's solid
// polygon-like fixtures (rectangle/BSG rectangle/polygon), for the
// secondary intersection tests below. Circle fixtures are reported
// separately via solidCircles.
func (w *World) solidVertices(c *Collider) [][]common.Point {
	var polys [][]common.Point
	for _, fp := range c.shapes {
		if fp.solid == nil {
			continue
		}
		switch fp.kind {
		case ShapeRectangle, ShapeBSGRectangle, ShapePolygon:
			polys = append(polys, worldPolyVerts(c.body, fp))
		}
	}
	return polys
}

func worldPolyVerts(body *cp.Body, fp *fixturePair) []common.Point {
	var local []Vec
	switch fp.kind {
	case ShapeRectangle:
		hw, hh := fp.spec.Width/2, fp.spec.Height/2
		ox, oy := fp.spec.OffsetX, fp.spec.OffsetY
		local = []Vec{
			{X: ox - hw, Y: oy - hh}, {X: ox + hw, Y: oy - hh},
			{X: ox + hw, Y: oy + hh}, {X: ox - hw, Y: oy + hh},
		}
	case ShapeBSGRectangle:
		local = octagonVertices(fp.spec.Width, fp.spec.Height, fp.spec.Cut)
		for i := range local {
			local[i].X += fp.spec.OffsetX
			local[i].Y += fp.spec.OffsetY
		}
	case ShapePolygon:
		local = fp.spec.Vertices
	}
	out := make([]common.Point, len(local))
	for i, v := range local {
		wp := body.LocalToWorld(cp.Vector{X: v.X, Y: v.Y})
		out[i] = common.Point{X: wp.X, Y: wp.Y}
	}
	return out
}

// solidCircles returns each circle fixture's world-space center and radius.
func (w *World) solidCircles(c *Collider) []struct {
	X, Y, R float64
} {
	var out []struct {
		X, Y, R float64
	}
	for _, fp := range c.shapes {
		if fp.solid == nil || fp.kind != ShapeCircle {
			continue
		}
		center := c.body.LocalToWorld(cp.Vector{X: fp.spec.OffsetX, Y: fp.spec.OffsetY})
		out = append(out, struct{ X, Y, R float64 }{X: center.X, Y: center.Y, R: fp.spec.Radius})
	}
	return out
}

// QueryCircleArea returns every collider whose class passes filter and
// which has at least one solid circle or polygon-like fixture overlapping
// the disk (x,y,r). Line and chain fixtures are not tested, so a collider
// made only of them is never returned.
func (w *World) QueryCircleArea(x, y, r float64, filter QueryFilter) []*Collider {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queryDebugDrawing {
		w.debugQueries = append(w.debugQueries, newDebugQuery(debugQueryCircle, defaultQueryTTL, [3]float64{x, y, r}))
	}
	var out []*Collider
	for _, c := range w.candidatesInAABB(x-r, y-r, x+r, y+r) {
		if !w.classPasses(filter, c) {
			continue
		}
		if w.circleHits(c, x, y, r) {
			out = append(out, c)
		}
	}
	return out
}

func (w *World) circleHits(c *Collider, x, y, r float64) bool {
	for _, circ := range w.solidCircles(c) {
		if common.GetCircleIntersection(x, y, r, circ.X, circ.Y, circ.R) {
			return true
		}
	}
	for _, poly := range w.solidVertices(c) {
		if common.PolygonIntersectsCircle(poly, x, y, r) {
			return true
		}
	}
	return false
}

// QueryRectangleArea returns every collider whose class passes filter and
// which has a solid circle or polygon-like fixture overlapping the
// rectangle [x,y,x+w,y+h]. Line and chain fixtures are not tested.
func (w *World) QueryRectangleArea(x, y, width, height float64, filter QueryFilter) []*Collider {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queryDebugDrawing {
		w.debugQueries = append(w.debugQueries, newDebugQuery(debugQueryRect, defaultQueryTTL, [4]float64{x, y, width, height}))
	}
	var out []*Collider
	for _, c := range w.candidatesInAABB(x, y, x+width, y+height) {
		if !w.classPasses(filter, c) {
			continue
		}
		hit := false
		for _, circ := range w.solidCircles(c) {
			if common.IsCircleInside(circ.X, circ.Y, circ.R, x, y, width, height) ||
				common.CircleIntersectsRect(circ.X, circ.Y, circ.R, x, y, width, height) {
				hit = true
				break
			}
		}
		if !hit {
			for _, poly := range w.solidVertices(c) {
				if common.IsPolygonInside(poly, x, y, width, height) || common.PolygonIntersectsRect(poly, x, y, width, height) {
					hit = true
					break
				}
			}
		}
		if hit {
			out = append(out, c)
		}
	}
	return out
}

// QueryPolygonArea returns every collider whose class passes filter and
// which has a solid circle fixture overlapping the polygon verts, or a
// solid polygon-like fixture whose vertices all lie inside it; a polygon
// fixture that only partly overlaps is not reported, and line and chain
// fixtures are not tested. The broad phase is the AABB of the bounding
// circle around the polygon's centroid.
func (w *World) QueryPolygonArea(verts []Vec, filter QueryFilter) []*Collider {
	w.mu.Lock()
	defer w.mu.Unlock()
	pts := make([]common.Point, len(verts))
	for i, v := range verts {
		pts[i] = common.Point{X: v.X, Y: v.Y}
	}
	center, maxDist := common.Centroid(pts)
	if w.queryDebugDrawing {
		w.debugQueries = append(w.debugQueries, newDebugQuery(debugQueryPolygon, defaultQueryTTL, append([]common.Point(nil), pts...)))
	}
	var out []*Collider
	for _, c := range w.candidatesInAABB(center.X-maxDist, center.Y-maxDist, center.X+maxDist, center.Y+maxDist) {
		if !w.classPasses(filter, c) {
			continue
		}
		hit := false
		for _, circ := range w.solidCircles(c) {
			if common.PolygonIntersectsCircle(pts, circ.X, circ.Y, circ.R) {
				hit = true
				break
			}
		}
		if !hit {
			for _, poly := range w.solidVertices(c) {
				inside := len(poly) > 0
				for _, p := range poly {
					if !common.IsPointInPolygon(p.X, p.Y, pts) {
						inside = false
						break
					}
				}
				if inside {
					hit = true
					break
				}
			}
		}
		if hit {
			out = append(out, c)
		}
	}
	return out
}

// QueryLine casts a ray from (x1,y1) to (x2,y2), collecting every
// intersected non-sensor fixture's collider whose class passes filter.
func (w *World) QueryLine(x1, y1, x2, y2 float64, filter QueryFilter) []*Collider {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queryDebugDrawing {
		w.debugQueries = append(w.debugQueries, newDebugQuery(debugQueryLine, defaultQueryTTL, [4]float64{x1, y1, x2, y2}))
	}
	seen := make(map[*Collider]struct{})
	var out []*Collider
	a := cp.Vector{X: x1, Y: y1}
	b := cp.Vector{X: x2, Y: y2}
	w.sp.SegmentQuery(a, b, 0, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, userData interface{}) {
		if shape.Sensor {
			return
		}
		c := w.colliderOf(shape)
		if c == nil {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		if !w.classPasses(filter, c) {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	})
	return out
}
