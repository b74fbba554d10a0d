package ccworld

import (
	"image/color"
	"math"

	"github.com/duskforge/ccworld/common"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
)

const debugCircleSegments = 24

// DrawDebug renders every fixture via the engine's own debug-draw pass plus
// the still-alive shape queries recorded while SetQueryDebugDrawing(true)
//. camX/camY/zoom translate world space to screen space.
func (w *World) DrawDebug(screen *ebiten.Image, camX, camY, zoom float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	drawer := &debugDrawer{screen: screen, camX: camX, camY: camY, zoom: zoom}
	cp.DrawSpace(w.sp, drawer)
	for _, q := range w.debugQueries {
		drawer.drawQuery(q)
	}
}

type debugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = 4
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *debugDrawer) Flags() uint { return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS }

func (d *debugDrawer) OutlineColor() cp.FColor { return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9} }

// ShapeColor tints sensor fixtures differently from solid ones so the
// paired fixtures created by each ShapeSpec are visually
// distinguishable in the overlay.
func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor {
		return cp.FColor{R: 0.9, G: 0.8, B: 0.1, A: 0.35}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.9, A: 0.5}
}

func (d *debugDrawer) ConstraintColor() cp.FColor { return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9} }

func (d *debugDrawer) CollisionPointColor() cp.FColor { return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9} }

func (d *debugDrawer) Data() interface{} { return nil }

func (d *debugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (d *debugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *debugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func (d *debugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}

// drawQuery renders the shape of one still-alive recorded shape query in
// the overlay color, fading with remaining ttl.
func (d *debugDrawer) drawQuery(q debugQuery) {
	fade := cp.FColor{R: 1, G: 1, B: 1, A: float32(q.ttl) / float32(defaultQueryTTL)}
	switch q.kind {
	case debugQueryCircle:
		args := q.data.([3]float64)
		d.drawCircle(cp.Vector{X: args[0], Y: args[1]}, args[2], fade)
	case debugQueryRect:
		args := q.data.([4]float64)
		x, y, w2, h := args[0], args[1], args[2], args[3]
		d.drawPolygon([]cp.Vector{
			{X: x, Y: y}, {X: x + w2, Y: y}, {X: x + w2, Y: y + h}, {X: x, Y: y + h},
		}, fade)
	case debugQueryLine:
		args := q.data.([4]float64)
		d.drawLine(cp.Vector{X: args[0], Y: args[1]}, cp.Vector{X: args[2], Y: args[3]}, fade)
	case debugQueryPolygon:
		pts := q.data.([]common.Point)
		verts := make([]cp.Vector, len(pts))
		for i, p := range pts {
			verts[i] = cp.Vector{X: p.X, Y: p.Y}
		}
		d.drawPolygon(verts, fade)
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
