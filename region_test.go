package ggl

import (
	"math"
	"testing"
)

func TestRepeatRegionCovers(t *testing.T) {
	tests := []struct {
		name          string
		r             BoxF
		dx, dy        float64
		width, height int
		reflect       bool
		want          int
	}{
		{"inside one copy", BoxF{1, 1, 3, 3}, 0, 0, 4, 4, false, 1},
		{"two by two", BoxF{0, 0, 8, 8}, 0, 0, 4, 4, false, 4},
		{"offset", BoxF{0, 0, 8, 8}, 2, 2, 4, 4, false, 9},
		{"negative origin", BoxF{-5, -1, 3, 2}, 0, 0, 4, 4, true, 6},
		{"thin strip", BoxF{0, 0, 10, 1}, 0, 0, 3, 5, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := repeatRegion(tt.r, tt.dx, tt.dy, tt.width, tt.height, tt.reflect)
			if len(tiles) != tt.want {
				t.Fatalf("%d tiles, want %d", len(tiles), tt.want)
			}
			var area float64
			for _, tl := range tiles {
				b := tl.box
				if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
					t.Fatalf("tile %+v has a non-positive extent", b)
				}
				if b.Intersect(tt.r) != b {
					t.Fatalf("tile %+v leaves the region", b)
				}
				for _, p := range b.polygon() {
					x, y, _ := tl.m.TransformPoint(p.X, p.Y)
					if x < -1e-9 || y < -1e-9 || x > float64(tt.width)+1e-9 || y > float64(tt.height)+1e-9 {
						t.Fatalf("tile corner maps to (%v, %v), outside the image", x, y)
					}
				}
				area += (b.X2 - b.X1) * (b.Y2 - b.Y1)
			}
			if want := (tt.r.X2 - tt.r.X1) * (tt.r.Y2 - tt.r.Y1); math.Abs(area-want) > 1e-9 {
				t.Errorf("tiles cover %v, want %v", area, want)
			}
		})
	}
}

func TestRepeatRegionReflects(t *testing.T) {
	tiles := repeatRegion(BoxF{0, 0, 8, 4}, 0, 0, 4, 4, true)
	if len(tiles) != 2 {
		t.Fatalf("%d tiles, want 2", len(tiles))
	}
	x, _, _ := tiles[1].m.TransformPoint(4.5, 0)
	if math.Abs(x-3.5) > 1e-9 {
		t.Errorf("mirrored copy maps x=4.5 to %v, want 3.5", x)
	}
	if got := repeatRegion(BoxF{}, 0, 0, 4, 4, false); got != nil {
		t.Errorf("empty region gave %d tiles", len(got))
	}
}

func polygonArea(pts []PointF) float64 {
	var a float64
	for i := range pts {
		a += cross(PointF{}, pts[i], pts[(i+1)%len(pts)])
	}
	return math.Abs(a) / 2
}

func inConvex(p PointF, poly []PointF) bool {
	var pos, neg bool
	for i := range poly {
		c := cross(poly[i], poly[(i+1)%len(poly)], p)
		pos = pos || c > 1e-9
		neg = neg || c < -1e-9
	}
	return !(pos && neg)
}

func TestClipConvex(t *testing.T) {
	square := BoxF{0, 0, 4, 4}.polygon()
	diamond := []PointF{{2, -1}, {5, 2}, {2, 5}, {-1, 2}}
	reversed := []PointF{{0, 4}, {4, 4}, {4, 0}, {0, 0}}
	tests := []struct {
		name     string
		pts      []PointF
		clip     []PointF
		wantArea float64
	}{
		{"same", square, square, 16},
		{"reversed clip", BoxF{2, 2, 6, 6}.polygon(), reversed, 4},
		{"diamond", square, diamond, 14},
		{"disjoint", BoxF{10, 10, 12, 12}.polygon(), square, 0},
		{"degenerate clip", square, square[:2], 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := clipConvex(tt.pts, tt.clip)
			if got := polygonArea(out); math.Abs(got-tt.wantArea) > 1e-9 {
				t.Errorf("area = %v, want %v", got, tt.wantArea)
			}
			if tt.wantArea == 0 {
				if out != nil {
					t.Errorf("clipConvex = %v, want nil", out)
				}
				return
			}
			if polygonArea(out) > polygonArea(tt.pts)+1e-9 {
				t.Error("clipped polygon grew")
			}
			for _, p := range out {
				if !inConvex(p, tt.pts) || !inConvex(p, tt.clip) {
					t.Errorf("vertex %v outside an input polygon", p)
				}
			}
		})
	}
}

func TestBoxDifference(t *testing.T) {
	r := BoxF{0, 0, 10, 10}
	tests := []struct {
		name  string
		inner BoxF
		want  int
	}{
		{"centered", BoxF{2, 2, 8, 8}, 4},
		{"corner", BoxF{0, 0, 5, 5}, 2},
		{"cover", BoxF{-1, -1, 11, 11}, 0},
		{"outside", BoxF{20, 20, 30, 30}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := boxDifference(r, tt.inner)
			if len(out) != tt.want {
				t.Fatalf("%d boxes, want %d", len(out), tt.want)
			}
			inner := tt.inner.Intersect(r)
			area := (inner.X2 - inner.X1) * (inner.Y2 - inner.Y1)
			if inner.Empty() {
				area = 0
			}
			for _, b := range out {
				if !b.Intersect(inner).Empty() {
					t.Errorf("box %+v overlaps the inner box", b)
				}
				area += (b.X2 - b.X1) * (b.Y2 - b.Y1)
			}
			if area != 100 {
				t.Errorf("boxes and inner cover %v, want 100", area)
			}
		})
	}
}
