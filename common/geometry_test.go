package common

import "testing"

func square(x, y, size float64) []Point {
	return []Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func TestCentroid(t *testing.T) {
	cases := []struct {
		name       string
		verts      []Point
		wantCenter Point
		wantDist   float64
	}{
		{"empty", nil, Point{}, 0},
		{"two_by_two_square", square(0, 0, 2), Point{X: 1, Y: 1}, LineLength(1, 1, 0, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			center, dist := Centroid(c.verts)
			if center != c.wantCenter {
				t.Fatalf("Centroid center = %+v, want %+v", center, c.wantCenter)
			}
			if diff := dist - c.wantDist; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Centroid maxDist = %v, want %v", dist, c.wantDist)
			}
		})
	}
}

func TestIsCircleInside(t *testing.T) {
	cases := []struct {
		name                   string
		cx, cy, r              float64
		rx, ry, rw, rh         float64
		want                   bool
	}{
		{"fully_inside", 50, 50, 10, 0, 0, 100, 100, true},
		{"crosses_left_edge", 5, 50, 10, 0, 0, 100, 100, false},
		{"exactly_inscribed", 50, 50, 50, 0, 0, 100, 100, true},
		{"outside_entirely", 500, 500, 10, 0, 0, 100, 100, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := IsCircleInside(c.cx, c.cy, c.r, c.rx, c.ry, c.rw, c.rh)
			if got != c.want {
				t.Fatalf("IsCircleInside = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCircleIntersectsRect(t *testing.T) {
	cases := []struct {
		name           string
		cx, cy, r      float64
		rx, ry, rw, rh float64
		want           bool
	}{
		{"center_inside_rect", 50, 50, 5, 0, 0, 100, 100, true},
		{"overlaps_corner", -3, -3, 5, 0, 0, 100, 100, true},
		{"far_away", 1000, 1000, 5, 0, 0, 100, 100, false},
		{"tangent_to_edge", -5, 50, 5, 0, 0, 100, 100, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CircleIntersectsRect(c.cx, c.cy, c.r, c.rx, c.ry, c.rw, c.rh)
			if got != c.want {
				t.Fatalf("CircleIntersectsRect = %v, want %v", got, c.want)
			}
		})
	}
}

func TestGetCircleIntersection(t *testing.T) {
	cases := []struct {
		name           string
		x1, y1, r1     float64
		x2, y2, r2     float64
		want           bool
	}{
		{"overlapping", 0, 0, 10, 5, 0, 10, true},
		{"exactly_touching", 0, 0, 10, 20, 0, 10, true},
		{"separated", 0, 0, 10, 100, 0, 10, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := GetCircleIntersection(c.x1, c.y1, c.r1, c.x2, c.y2, c.r2)
			if got != c.want {
				t.Fatalf("GetCircleIntersection = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIsPointInPolygon(t *testing.T) {
	sq := square(0, 0, 10)
	cases := []struct {
		name    string
		px, py  float64
		want    bool
	}{
		{"center", 5, 5, true},
		{"outside", 20, 20, false},
		{"just_outside_left", -1, 5, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := IsPointInPolygon(c.px, c.py, sq)
			if got != c.want {
				t.Fatalf("IsPointInPolygon(%v,%v) = %v, want %v", c.px, c.py, got, c.want)
			}
		})
	}
}

func TestIsPolygonInside(t *testing.T) {
	cases := []struct {
		name           string
		verts          []Point
		rx, ry, rw, rh float64
		want           bool
	}{
		{"fully_inside", square(10, 10, 10), 0, 0, 100, 100, true},
		{"three_vertices_outside", square(90, 90, 20), 0, 0, 100, 100, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := IsPolygonInside(c.verts, c.rx, c.ry, c.rw, c.rh)
			if got != c.want {
				t.Fatalf("IsPolygonInside = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPolygonIntersectsRect(t *testing.T) {
	cases := []struct {
		name           string
		verts          []Point
		rx, ry, rw, rh float64
		want           bool
	}{
		{"vertex_inside_rect", square(50, 50, 20), 0, 0, 100, 100, true},
		{"rect_corner_inside_polygon", square(-50, -50, 200), 0, 0, 10, 10, true},
		{"edges_cross", square(-10, 40, 20), 0, 0, 100, 100, true},
		{"far_apart", square(1000, 1000, 10), 0, 0, 100, 100, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := PolygonIntersectsRect(c.verts, c.rx, c.ry, c.rw, c.rh)
			if got != c.want {
				t.Fatalf("PolygonIntersectsRect = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPolygonIntersectsCircle(t *testing.T) {
	sq := square(0, 0, 10)
	cases := []struct {
		name      string
		cx, cy, r float64
		want      bool
	}{
		{"center_inside_polygon", 5, 5, 1, true},
		{"edge_within_radius", -3, 5, 5, true},
		{"far_away", 1000, 1000, 1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := PolygonIntersectsCircle(sq, c.cx, c.cy, c.r)
			if got != c.want {
				t.Fatalf("PolygonIntersectsCircle = %v, want %v", got, c.want)
			}
		})
	}
}
