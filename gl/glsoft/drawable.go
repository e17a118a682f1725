// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"fmt"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

// BackendName is the registry name of the software backend.
const BackendName = "soft"

func init() {
	gl.Register(BackendName, 10, func(opts gl.DrawableOptions) (gl.Drawable, error) {
		return New(opts.Width, opts.Height, WithFormat(opts.Format))
	}, nil)
}

// Formats are the texture formats every software context reports.
var Formats = []gl.Format{
	{ID: 0, Name: "argb32", Color: gl.ColorFormat{Red: 8, Green: 8, Blue: 8, Alpha: 8}, Internal: gputypes.TextureFormatRGBA8Unorm},
	{ID: 1, Name: "rgb24", Color: gl.ColorFormat{Red: 8, Green: 8, Blue: 8}, Internal: gputypes.TextureFormatRGBA8Unorm},
	{ID: 2, Name: "a8", Color: gl.ColorFormat{Alpha: 8}, Internal: gputypes.TextureFormatRGBA8Unorm},
	{ID: 3, Name: "a1", Color: gl.ColorFormat{Alpha: 1}, Internal: gputypes.TextureFormatRGBA8Unorm},
}

// Drawable is a software window or pbuffer. Its color buffers are
// textures of the context's share group.
type Drawable struct {
	ctx           *Context
	cfg           config
	width         int
	height        int
	buffers       [2]uint32
	stencil       []byte
	destroyed     bool
	pushed        int
	swaps         int
	renderTexture bool
}

var _ gl.Drawable = (*Drawable)(nil)

// New creates a root drawable with its own context.
func New(width, height int, opts ...Option) (*Drawable, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newDrawable(newContext(&cfg), cfg, width, height)
}

func newDrawable(ctx *Context, cfg config, width, height int) (*Drawable, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glsoft: invalid drawable size %dx%d: %w", width, height, gl.ErrInvalidOperation)
	}
	if width > cfg.maxSize || height > cfg.maxSize {
		return nil, fmt.Errorf("glsoft: drawable %dx%d exceeds %d: %w", width, height, cfg.maxSize, gl.ErrOutOfMemory)
	}
	d := &Drawable{ctx: ctx, cfg: cfg, renderTexture: cfg.renderTexture}
	d.allocate(width, height)
	return d, nil
}

func (d *Drawable) allocate(width, height int) {
	d.width, d.height = width, height
	front := d.newBuffer()
	d.buffers = [2]uint32{front, front}
	if d.cfg.format.Doublebuffer {
		d.buffers[gl.BufferBack] = d.newBuffer()
	}
	d.stencil = nil
	if d.cfg.format.Stencil > 0 {
		d.stencil = make([]byte, width*height)
	}
}

func (d *Drawable) newBuffer() uint32 {
	name := d.ctx.share.gen()
	d.ctx.share.textures[name] = &texture{
		target: gl.TextureTarget2D,
		width:  d.width,
		height: d.height,
		pix:    make([]byte, d.width*d.height*4),
		filter: gputypes.FilterModeNearest,
		wrap:   gl.WrapClampToEdge,
	}
	return name
}

func (d *Drawable) releaseBuffers() {
	delete(d.ctx.share.textures, d.buffers[0])
	delete(d.ctx.share.textures, d.buffers[1])
}

func (d *Drawable) target(b gl.Buffer) *target {
	tex := d.ctx.share.textures[d.buffers[b]]
	return &target{width: d.width, height: d.height, color: tex.pix, stencil: d.stencil}
}

// Context returns the drawable's context, giving tests access to the call
// log.
func (d *Drawable) Context() *Context { return d.ctx }

// GL implements gl.Drawable.
func (d *Drawable) GL() gl.Functions { return d.ctx }

// Caps implements gl.Drawable.
func (d *Drawable) Caps() gl.Caps { return d.ctx.caps }

// Format implements gl.Drawable.
func (d *Drawable) Format() *gl.DrawableFormat { return &d.cfg.format }

// Formats implements gl.Drawable.
func (d *Drawable) Formats() []gl.Format { return Formats }

// Width implements gl.Drawable.
func (d *Drawable) Width() int { return d.width }

// Height implements gl.Drawable.
func (d *Drawable) Height() int { return d.height }

// PushCurrent implements gl.Drawable.
func (d *Drawable) PushCurrent() bool {
	if d.cfg.failPush || d.destroyed {
		d.ctx.current = append(d.ctx.current, nil)
		return false
	}
	d.ctx.current = append(d.ctx.current, d)
	d.pushed++
	return true
}

// PopCurrent implements gl.Drawable.
func (d *Drawable) PopCurrent() {
	if n := len(d.ctx.current); n > 0 {
		if d.ctx.current[n-1] == d {
			d.pushed--
		}
		d.ctx.current = d.ctx.current[:n-1]
	}
	d.ctx.read = nil
}

// Depth returns the number of unbalanced PushCurrent calls on d.
func (d *Drawable) Depth() int { return d.pushed }

// MakeCurrentRead implements gl.Drawable.
func (d *Drawable) MakeCurrentRead(read gl.Drawable) bool {
	r, ok := read.(*Drawable)
	if !ok || r.ctx != d.ctx || r.destroyed {
		return false
	}
	d.ctx.read = r
	return true
}

// CreateSimilar implements gl.Drawable.
func (d *Drawable) CreateSimilar(format *gl.DrawableFormat, width, height int) (gl.Drawable, error) {
	cfg := d.cfg
	if format != nil {
		cfg.format = *format
	}
	return newDrawable(d.ctx, cfg, width, height)
}

// Texture implements gl.Drawable.
func (d *Drawable) Texture() (uint32, gl.TextureTarget, bool) {
	if !d.renderTexture || d.destroyed {
		return 0, 0, false
	}
	return d.buffers[gl.BufferBack], gl.TextureTarget2D, true
}

// UpdateSize implements gl.Drawable.
func (d *Drawable) UpdateSize(width, height int) error {
	if width <= 0 || height <= 0 || width > d.cfg.maxSize || height > d.cfg.maxSize {
		return fmt.Errorf("glsoft: invalid drawable size %dx%d: %w", width, height, gl.ErrInvalidOperation)
	}
	d.releaseBuffers()
	d.allocate(width, height)
	return nil
}

// SwapBuffers implements gl.Drawable.
func (d *Drawable) SwapBuffers() bool {
	if d.destroyed {
		return false
	}
	d.swaps++
	if d.cfg.format.Doublebuffer {
		d.buffers[0], d.buffers[1] = d.buffers[1], d.buffers[0]
	}
	return true
}

// Swaps returns the number of successful SwapBuffers calls.
func (d *Drawable) Swaps() int { return d.swaps }

// Destroy implements gl.Drawable.
func (d *Drawable) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.releaseBuffers()
}

// Pixel returns the RGBA value at (x, y) of the given color buffer.
func (d *Drawable) Pixel(b gl.Buffer, x, y int) [4]byte {
	t := d.target(b)
	i := (y*t.width + x) * 4
	return [4]byte{t.color[i], t.color[i+1], t.color[i+2], t.color[i+3]}
}
