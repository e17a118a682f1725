// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/ggl/gl"
)

// vertex is a transformed vertex in window coordinates.
type vertex struct {
	x, y  float32
	color [4]float32
	tex   [maxUnits][4]float32
}

func transform(m *[16]float32, v [4]float32) [4]float32 {
	var out [4]float32
	for r := range 4 {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// fetchVertex reads vertex i from the client arrays and maps it to
// window coordinates.
func (c *Context) fetchVertex(i int) vertex {
	var v vertex
	p := [4]float32{c.vertices[i*c.vertStride], c.vertices[i*c.vertStride+1], 0, 1}
	clip := transform(&c.projection, transform(&c.modelview, p))
	if clip[3] != 0 {
		clip[0] /= clip[3]
		clip[1] /= clip[3]
	}
	vp := c.viewport
	v.x = float32(vp[0]) + (clip[0]+1)*float32(vp[2])/2
	v.y = float32(vp[1]) + (clip[1]+1)*float32(vp[3])/2

	v.color = c.color
	if c.colors != nil && (i+1)*c.colorStride <= len(c.colors) {
		copy(v.color[:], c.colors[i*c.colorStride:i*c.colorStride+4])
	}
	for u := range c.units {
		un := &c.units[u]
		v.tex[u] = [4]float32{0, 0, 0, 1}
		if un.coords == nil || (i+1)*un.stride > len(un.coords) {
			continue
		}
		src := un.coords[i*un.stride : i*un.stride+un.size]
		switch un.size {
		case 3:
			// (s, t, q)
			v.tex[u][0], v.tex[u][1], v.tex[u][3] = src[0], src[1], src[2]
		default:
			copy(v.tex[u][:], src)
		}
	}
	return v
}

// assemble splits a primitive stream into triangles.
func assemble(mode gl.Primitive, v []vertex, emit func(a, b, c *vertex)) {
	switch mode {
	case gl.PrimitiveTriangles:
		for i := 0; i+2 < len(v); i += 3 {
			emit(&v[i], &v[i+1], &v[i+2])
		}
	case gl.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(v); i++ {
			emit(&v[i], &v[i+1], &v[i+2])
		}
	case gl.PrimitiveTriangleFan:
		for i := 1; i+1 < len(v); i++ {
			emit(&v[0], &v[i], &v[i+1])
		}
	case gl.PrimitiveQuads:
		for i := 0; i+3 < len(v); i += 4 {
			emit(&v[i], &v[i+1], &v[i+2])
			emit(&v[i], &v[i+2], &v[i+3])
		}
	}
}

type rasterizer struct {
	ctx    *Context
	target *target
	shader shader
	x0, y0 int
	x1, y1 int
}

func (c *Context) newRasterizer(t *target) *rasterizer {
	r := &rasterizer{ctx: c, target: t, x1: t.width, y1: t.height}
	if c.scissorTest {
		r.x0, r.y0, r.x1, r.y1 = c.clipScissor(0, 0, t.width, t.height)
	}
	r.shader = c.newShader()
	return r
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// owns implements the top-left rule: an edge with the interior below it
// (a top edge) or to its right (a left edge) owns the pixels on it.
func owns(ax, ay, bx, by float32) bool {
	dx, dy := bx-ax, by-ay
	return dy < 0 || (dy == 0 && dx > 0)
}

// triangle rasterizes one triangle, sampling at pixel centers.
func (r *rasterizer) triangle(a, b, c *vertex) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := max(int(math32.Floor(min(a.x, b.x, c.x))), r.x0)
	maxX := min(int(math32.Ceil(max(a.x, b.x, c.x))), r.x1)
	minY := max(int(math32.Floor(min(a.y, b.y, c.y))), r.y0)
	maxY := min(int(math32.Ceil(max(a.y, b.y, c.y))), r.y1)

	ownBC := owns(b.x, b.y, c.x, c.y)
	ownCA := owns(c.x, c.y, a.x, a.y)
	ownAB := owns(a.x, a.y, b.x, b.y)

	for py := minY; py < maxY; py++ {
		fy := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			fx := float32(px) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, fx, fy)
			w1 := edge(c.x, c.y, a.x, a.y, fx, fy)
			w2 := edge(a.x, a.y, b.x, b.y, fx, fy)
			if !inside(w0, ownBC) || !inside(w1, ownCA) || !inside(w2, ownAB) {
				continue
			}
			r.fragment(px, py, a, b, c, w0/area, w1/area, w2/area)
		}
	}
}

func inside(w float32, owner bool) bool {
	return w > 0 || (w == 0 && owner)
}

// fragment interpolates the vertex attributes and runs the per-fragment
// pipeline.
func (r *rasterizer) fragment(px, py int, a, b, c *vertex, l0, l1, l2 float32) {
	var f fragmentInput
	for k := range 4 {
		f.color[k] = a.color[k]*l0 + b.color[k]*l1 + c.color[k]*l2
	}
	for u := range r.ctx.units {
		for k := range 4 {
			f.tex[u][k] = a.tex[u][k]*l0 + b.tex[u][k]*l1 + c.tex[u][k]*l2
		}
	}
	color, ok := r.shader.shade(&f)
	if !ok {
		return
	}
	r.ctx.write(r.target, px, py, color)
}
