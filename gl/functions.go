// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Errors reported by backends.
var (
	// ErrOutOfMemory is returned when the driver cannot allocate a resource.
	ErrOutOfMemory = errors.New("gl: out of memory")

	// ErrInvalidOperation is returned for calls made in an invalid state.
	ErrInvalidOperation = errors.New("gl: invalid operation")

	// ErrProgramRejected is returned when the driver rejects program source.
	ErrProgramRejected = errors.New("gl: program rejected")

	// ErrFramebufferIncomplete is returned when a framebuffer cannot be
	// rendered to.
	ErrFramebufferIncomplete = errors.New("gl: framebuffer incomplete")

	// ErrUnsupported is returned when a drawable cannot perform a request.
	ErrUnsupported = errors.New("gl: unsupported")
)

// Functions is the table of resolved GL entry points of one context.
//
// Coordinates are in framebuffer rows: row 0 is the first row of a texture
// image and the first row of a framebuffer. Vertex and texture coordinate
// slices are read at draw time only; backends must not retain them.
type Functions interface {
	Enable(c Cap)
	Disable(c Cap)

	// GetError returns and clears the first pending error, or nil.
	GetError() error

	Viewport(x, y, width, height int)
	Scissor(x, y, width, height int)
	MatrixMode(m MatrixMode)
	LoadIdentity()

	// LoadMatrix replaces the current matrix with m in column-major order.
	LoadMatrix(m *[16]float32)

	ClearColor(r, g, b, a float32)
	ClearStencil(s int)
	Clear(mask ClearMask)
	ColorMask(r, g, b, a bool)

	// Color sets the primary (per-fragment constant) color.
	Color(r, g, b, a float32)

	BlendFunc(src, dst gputypes.BlendFactor)
	StencilFunc(fn gputypes.CompareFunction, ref int, mask uint32)
	StencilOp(fail, zfail, zpass StencilOp)
	StencilMask(mask uint32)
	MultisampleHint(h Hint)

	DrawBuffer(b Buffer)
	ReadBuffer(b Buffer)

	// ReadPixels reads RGBA8 pixels of the current read framebuffer.
	ReadPixels(x, y, width, height int, pixels []byte)
	Flush()
	Finish()

	// ActiveTexture selects the texture unit affected by texture state,
	// texture environment and texture coordinate calls.
	ActiveTexture(unit int)
	GenTexture() uint32
	DeleteTexture(name uint32)
	BindTexture(target TextureTarget, name uint32)

	// TexImage allocates level 0 of the bound texture. A nil pixels slice
	// leaves the content undefined. For 1D targets height is 1.
	TexImage(target TextureTarget, format gputypes.TextureFormat, width, height int, pixels []byte)
	TexSubImage(target TextureTarget, x, y, width, height int, pixels []byte)
	GetTexImage(target TextureTarget, pixels []byte)

	// CopyTexSubImage copies a rectangle of the read framebuffer into the
	// bound texture.
	CopyTexSubImage(target TextureTarget, xoff, yoff, x, y, width, height int)
	TexFilter(target TextureTarget, mode gputypes.FilterMode)
	TexWrap(target TextureTarget, wrap Wrap)
	TexEnv(env *TexEnv)
	TexEnvColor(r, g, b, a float32)

	// VertexPointer sets 2-component positions; stride is in floats.
	VertexPointer(data []float32, stride int)

	// TexCoordPointer sets texture coordinates for a unit. Size is 1 to 4;
	// with 3 components the third is the projective q coordinate.
	// A nil slice disables the array.
	TexCoordPointer(unit int, data []float32, size, stride int)

	// ColorPointer sets per-vertex RGBA colors. A nil slice disables it.
	ColorPointer(data []float32, stride int)
	DrawArrays(mode Primitive, first, count int)

	GenProgram() uint32
	DeleteProgram(name uint32)
	BindProgram(target ProgramTarget, name uint32)
	ProgramSource(target ProgramTarget, lang ShaderLanguage, src []byte) error
	ProgramLocalParameter(target ProgramTarget, index int, v [4]float32)

	GenFramebuffer() uint32
	DeleteFramebuffer(name uint32)

	// BindFramebuffer binds a framebuffer object; 0 selects the drawable.
	BindFramebuffer(name uint32)
	FramebufferTexture(target TextureTarget, texture uint32)
	GenRenderbuffer() uint32
	DeleteRenderbuffer(name uint32)

	// RenderbufferStencil allocates stencil storage for a renderbuffer.
	RenderbufferStencil(name uint32, width, height int)
	FramebufferRenderbuffer(name uint32)
	CheckFramebufferStatus() error
}

// Drawable is a render target owned by the platform backend.
type Drawable interface {
	// GL returns the entry points of the drawable's context.
	GL() Functions
	Caps() Caps
	Format() *DrawableFormat

	// Formats returns the texture formats the context can sample and
	// render to.
	Formats() []Format
	Width() int
	Height() int

	// PushCurrent makes the drawable's context current, remembering the
	// previously current one. It returns false when the context cannot be
	// made current. Every call must be paired with PopCurrent, including
	// failed ones.
	PushCurrent() bool
	PopCurrent()

	// MakeCurrentRead selects read as the read drawable of the current
	// context, used to copy between drawables.
	MakeCurrentRead(read Drawable) bool

	// CreateSimilar creates an offscreen drawable sharing the context's
	// object namespace.
	CreateSimilar(format *DrawableFormat, width, height int) (Drawable, error)

	// Texture returns a texture aliasing the drawable's color buffer when
	// the backend supports render-to-texture.
	Texture() (name uint32, target TextureTarget, ok bool)

	UpdateSize(width, height int) error
	SwapBuffers() bool
	Destroy()
}
