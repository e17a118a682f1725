// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// texture is a texture object of the share group. Drawable color buffers
// are textures too, so a render-to-texture drawable can alias one.
type texture struct {
	target gl.TextureTarget
	width  int
	height int
	pix    []byte
	filter gputypes.FilterMode
	wrap   gl.Wrap
}

func (t *texture) allocated() bool {
	return t.pix != nil
}

func (t *texture) texel(x, y int) [4]float32 {
	i := (y*t.width + x) * 4
	return [4]float32{
		float32(t.pix[i]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

// wrapIndex resolves texel index i along an axis of n texels. It returns
// false when the lookup falls on the transparent border.
func wrapIndex(i, n int, w gl.Wrap) (int, bool) {
	switch w {
	case gl.WrapClampToBorder:
		if i < 0 || i >= n {
			return 0, false
		}
		return i, true
	case gl.WrapRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i, true
	case gl.WrapMirroredRepeat:
		m := i % (2 * n)
		if m < 0 {
			m += 2 * n
		}
		if m >= n {
			m = 2*n - 1 - m
		}
		return m, true
	default:
		return min(max(i, 0), n-1), true
	}
}

func (t *texture) fetch(x, y int) [4]float32 {
	x, okx := wrapIndex(x, t.width, t.wrap)
	y, oky := wrapIndex(y, t.height, t.wrap)
	if !okx || !oky {
		return [4]float32{}
	}
	return t.texel(x, y)
}

// sample looks up the texture at (s, t). Normalized targets scale the
// coordinates by the texture size; rectangle targets take texel units.
func (t *texture) sample(s, tc float32) [4]float32 {
	if !t.allocated() {
		return [4]float32{}
	}
	u, v := s, tc
	if t.target.Normalized() {
		u *= float32(t.width)
		v *= float32(t.height)
	}
	if t.target == gl.TextureTarget1D {
		v = 0.5
	}
	if t.filter != gputypes.FilterModeLinear {
		return t.fetch(int(math32.Floor(u)), int(math32.Floor(v)))
	}

	u -= 0.5
	v -= 0.5
	x0 := math32.Floor(u)
	y0 := math32.Floor(v)
	fx := u - x0
	fy := v - y0
	ix, iy := int(x0), int(y0)

	c00 := t.fetch(ix, iy)
	c10 := t.fetch(ix+1, iy)
	c01 := t.fetch(ix, iy+1)
	c11 := t.fetch(ix+1, iy+1)

	var out [4]float32
	for k := range out {
		top := c00[k]*(1-fx) + c10[k]*fx
		bottom := c01[k]*(1-fx) + c11[k]*fx
		out[k] = top*(1-fy) + bottom*fy
	}
	return out
}
