// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// fragmentInput holds the interpolated attributes of one fragment.
type fragmentInput struct {
	color [4]float32
	tex   [maxUnits][4]float32
}

// shader computes the color of a fragment. It returns false when the
// fragment is killed.
type shader interface {
	shade(f *fragmentInput) ([4]float32, bool)
}

func (c *Context) newShader() shader {
	if c.fpEnabled {
		if p := c.share.programs[c.programs[gl.ProgramFragment]]; p != nil && p.valid && p.code != nil {
			return &programShader{ctx: c, prog: p}
		}
	}
	fs := &fixedShader{ctx: c}
	for i := range c.units {
		u := &c.units[i]
		t, ok := u.activeTarget()
		if !ok {
			continue
		}
		fs.stages = append(fs.stages, stage{
			unit: i,
			tex:  c.share.textures[u.bound[t]],
			env:  u.env,
			env4: u.envColor,
		})
	}
	return fs
}

type stage struct {
	unit int
	tex  *texture
	env  gl.TexEnv
	env4 [4]float32
}

// fixedShader evaluates the texture environment of the enabled units.
type fixedShader struct {
	ctx    *Context
	stages []stage
}

func (s *fixedShader) shade(f *fragmentInput) ([4]float32, bool) {
	prev := f.color
	for i := range s.stages {
		st := &s.stages[i]
		var tx [4]float32
		if st.tex != nil {
			tc := f.tex[st.unit]
			q := tc[3]
			if q == 0 {
				q = 1
			}
			tx = st.tex.sample(tc[0]/q, tc[1]/q)
		}
		prev = st.apply(tx, prev, f.color)
	}
	return prev, true
}

func (st *stage) apply(tx, prev, primary [4]float32) [4]float32 {
	switch st.env.Mode {
	case gl.TexEnvReplace:
		return tx
	case gl.TexEnvCombine:
		var out [4]float32
		rgb := st.combine(&st.env.RGB, tx, prev, primary)
		alpha := st.combine(&st.env.Alpha, tx, prev, primary)
		out[0], out[1], out[2] = rgb[0], rgb[1], rgb[2]
		out[3] = alpha[3]
		return out
	default:
		return [4]float32{tx[0] * prev[0], tx[1] * prev[1], tx[2] * prev[2], tx[3] * prev[3]}
	}
}

func (st *stage) combine(cb *gl.Combine, tx, prev, primary [4]float32) [4]float32 {
	arg := func(i int) [4]float32 {
		var v [4]float32
		switch cb.Source[i] {
		case gl.SourceTexture:
			v = tx
		case gl.SourcePrevious:
			v = prev
		case gl.SourcePrimaryColor:
			v = primary
		case gl.SourceConstant:
			v = st.env4
		}
		if cb.Operand[i] == gl.OperandAlpha {
			v = [4]float32{v[3], v[3], v[3], v[3]}
		}
		return v
	}
	a := arg(0)
	if cb.Func == gl.CombineReplace {
		return a
	}
	b := arg(1)
	return [4]float32{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func quantize(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + 0.5)
}

func compare(fn gputypes.CompareFunction, ref, value uint32) bool {
	switch fn {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return ref < value
	case gputypes.CompareFunctionEqual:
		return ref == value
	case gputypes.CompareFunctionLessEqual:
		return ref <= value
	case gputypes.CompareFunctionGreater:
		return ref > value
	case gputypes.CompareFunctionNotEqual:
		return ref != value
	case gputypes.CompareFunctionGreaterEqual:
		return ref >= value
	default:
		return true
	}
}

func stencilApply(op gl.StencilOp, value byte, ref int) byte {
	switch op {
	case gl.StencilZero:
		return 0
	case gl.StencilReplace:
		return byte(ref)
	case gl.StencilIncr:
		if value == 0xff {
			return value
		}
		return value + 1
	case gl.StencilDecr:
		if value == 0 {
			return 0
		}
		return value - 1
	case gl.StencilInvert:
		return ^value
	default:
		return value
	}
}

// write runs the stencil test, blending and color mask for one fragment.
func (c *Context) write(t *target, x, y int, color [4]float32) {
	if c.stencilTest && t.stencil != nil {
		i := y*t.width + x
		s := t.stencil[i]
		pass := compare(c.stencilFunc, uint32(c.stencilRef)&c.stencilMask, uint32(s)&c.stencilMask)
		op := c.stencilPass
		if !pass {
			op = c.stencilFail
		}
		w := byte(c.stencilWrite)
		t.stencil[i] = s&^w | stencilApply(op, s, c.stencilRef)&w
		if !pass {
			return
		}
	}

	i := (y*t.width + x) * 4
	if c.blend {
		dst := [4]float32{
			float32(t.color[i]) / 255,
			float32(t.color[i+1]) / 255,
			float32(t.color[i+2]) / 255,
			float32(t.color[i+3]) / 255,
		}
		sf := blendFactor(c.blendSrc, color, dst)
		df := blendFactor(c.blendDst, color, dst)
		for k := range color {
			color[k] = color[k]*sf[k] + dst[k]*df[k]
		}
	}
	for k := range 4 {
		if c.colorMask[k] {
			t.color[i+k] = quantize(color[k])
		}
	}
}

func blendFactor(f gputypes.BlendFactor, src, dst [4]float32) [4]float32 {
	splat := func(v float32) [4]float32 { return [4]float32{v, v, v, v} }
	inv := func(v [4]float32) [4]float32 { return [4]float32{1 - v[0], 1 - v[1], 1 - v[2], 1 - v[3]} }
	switch f {
	case gputypes.BlendFactorZero:
		return [4]float32{}
	case gputypes.BlendFactorSrc:
		return src
	case gputypes.BlendFactorOneMinusSrc:
		return inv(src)
	case gputypes.BlendFactorSrcAlpha:
		return splat(src[3])
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return splat(1 - src[3])
	case gputypes.BlendFactorDst:
		return dst
	case gputypes.BlendFactorOneMinusDst:
		return inv(dst)
	case gputypes.BlendFactorDstAlpha:
		return splat(dst[3])
	case gputypes.BlendFactorOneMinusDstAlpha:
		return splat(1 - dst[3])
	default:
		return splat(1)
	}
}
