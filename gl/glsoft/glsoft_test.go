// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/gputypes"
)

func ortho(w, h int) [16]float32 {
	return [16]float32{
		2 / float32(w), 0, 0, 0,
		0, 2 / float32(h), 0, 0,
		0, 0, -1, 0,
		-1, -1, 0, 1,
	}
}

// setup returns a current drawable with a pixel-aligned projection.
func setup(t *testing.T, w, h int, opts ...Option) (*Drawable, *Context) {
	t.Helper()
	d, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !d.PushCurrent() {
		t.Fatal("PushCurrent failed")
	}
	t.Cleanup(d.PopCurrent)
	c := d.Context()
	c.Viewport(0, 0, w, h)
	c.MatrixMode(gl.MatrixProjection)
	m := ortho(w, h)
	c.LoadMatrix(&m)
	return d, c
}

func quad(x0, y0, x1, y1 float32) []float32 {
	return []float32{x0, y0, x1, y0, x1, y1, x0, y1}
}

var unitCoords = []float32{0, 0, 1, 0, 1, 1, 0, 1}

func drawQuad(c *Context, x0, y0, x1, y1 float32) {
	c.VertexPointer(quad(x0, y0, x1, y1), 2)
	c.DrawArrays(gl.PrimitiveQuads, 0, 4)
}

func solidTexture(c *Context, px ...byte) uint32 {
	tex := c.GenTexture()
	c.BindTexture(gl.TextureTarget2D, tex)
	c.TexImage(gl.TextureTarget2D, gputypes.TextureFormatRGBA8Unorm, len(px)/4, 1, px)
	return tex
}

func TestQuadCoversPixelCenters(t *testing.T) {
	d, c := setup(t, 4, 4)
	c.Color(1, 1, 1, 1)
	drawQuad(c, 1, 1, 3, 3)

	for y := range 4 {
		for x := range 4 {
			want := byte(0)
			if x >= 1 && x < 3 && y >= 1 && y < 3 {
				want = 255
			}
			if got := d.Pixel(gl.BufferFront, x, y)[0]; got != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestSharedEdgeDrawnOnce(t *testing.T) {
	d, c := setup(t, 4, 4)
	c.Enable(gl.CapBlend)
	c.BlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOne)
	c.Color(0.25, 0.25, 0.25, 0.25)
	drawQuad(c, 0, 0, 4, 4)

	for y := range 4 {
		for x := range 4 {
			if got := d.Pixel(gl.BufferFront, x, y)[3]; got != 64 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 64", x, y, got)
			}
		}
	}
}

func TestClearRespectsMasks(t *testing.T) {
	d, c := setup(t, 4, 4)
	c.ClearColor(1, 1, 1, 1)
	c.ColorMask(true, false, false, true)
	c.Enable(gl.CapScissorTest)
	c.Scissor(0, 0, 2, 4)
	c.Clear(gl.ClearColorBuffer)

	if got := d.Pixel(gl.BufferFront, 0, 0); got != [4]byte{255, 0, 0, 255} {
		t.Errorf("inside scissor = %v", got)
	}
	if got := d.Pixel(gl.BufferFront, 3, 0); got != [4]byte{} {
		t.Errorf("outside scissor = %v", got)
	}
}

func TestTextureReplaceNearest(t *testing.T) {
	d, c := setup(t, 4, 4)
	tex := c.GenTexture()
	c.BindTexture(gl.TextureTarget2D, tex)
	c.TexImage(gl.TextureTarget2D, gputypes.TextureFormatRGBA8Unorm, 2, 2, []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	})
	c.Enable(gl.CapTexture2D)
	c.TexEnv(&gl.EnvReplace)
	c.TexCoordPointer(0, unitCoords, 2, 2)
	drawQuad(c, 0, 0, 4, 4)

	tests := []struct {
		x, y int
		want [4]byte
	}{
		{0, 0, [4]byte{255, 0, 0, 255}},
		{3, 0, [4]byte{0, 255, 0, 255}},
		{0, 3, [4]byte{0, 0, 255, 255}},
		{3, 3, [4]byte{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := d.Pixel(gl.BufferFront, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		name   string
		i, n   int
		wrap   gl.Wrap
		want   int
		inside bool
	}{
		{"edge low", -3, 4, gl.WrapClampToEdge, 0, true},
		{"edge high", 9, 4, gl.WrapClampToEdge, 3, true},
		{"border", 4, 4, gl.WrapClampToBorder, 0, false},
		{"repeat negative", -1, 4, gl.WrapRepeat, 3, true},
		{"repeat", 5, 4, gl.WrapRepeat, 1, true},
		{"mirror second period", 5, 4, gl.WrapMirroredRepeat, 2, true},
		{"mirror negative", -1, 4, gl.WrapMirroredRepeat, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := wrapIndex(tt.i, tt.n, tt.wrap)
			if got != tt.want || ok != tt.inside {
				t.Errorf("wrapIndex(%d, %d) = %d, %v; want %d, %v", tt.i, tt.n, got, ok, tt.want, tt.inside)
			}
		})
	}
}

func TestCombineAlphaOfSecondUnit(t *testing.T) {
	d, c := setup(t, 2, 2)

	c.ActiveTexture(0)
	solidTexture(c, 255, 0, 0, 255)
	c.Enable(gl.CapTexture2D)
	c.TexEnv(&gl.EnvReplace)

	c.ActiveTexture(1)
	solidTexture(c, 0, 0, 0, 128)
	c.Enable(gl.CapTexture2D)
	c.TexEnv(&gl.EnvPreviousInTextureAlpha)

	c.TexCoordPointer(0, unitCoords, 2, 2)
	c.TexCoordPointer(1, unitCoords, 2, 2)
	drawQuad(c, 0, 0, 2, 2)

	if got := d.Pixel(gl.BufferFront, 1, 1); got != [4]byte{128, 0, 0, 128} {
		t.Errorf("pixel = %v, want [128 0 0 128]", got)
	}
}

func TestTexEnvCombineRequiresFeature(t *testing.T) {
	_, c := setup(t, 2, 2, WithFeatures(gl.FeatureMultitexture))
	c.TexEnv(&gl.EnvPreviousInTextureAlpha)
	if err := c.GetError(); !errors.Is(err, gl.ErrInvalidOperation) {
		t.Errorf("GetError() = %v, want ErrInvalidOperation", err)
	}
	if err := c.GetError(); err != nil {
		t.Errorf("GetError() after read = %v, want nil", err)
	}
}

func TestStencilRestrictsDrawing(t *testing.T) {
	d, c := setup(t, 4, 4)
	c.ClearStencil(0)
	c.Clear(gl.ClearStencilBuffer)

	c.Enable(gl.CapStencilTest)
	c.StencilFunc(gputypes.CompareFunctionAlways, 1, ^uint32(0))
	c.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilReplace)
	c.ColorMask(false, false, false, false)
	drawQuad(c, 0, 0, 2, 4)

	c.ColorMask(true, true, true, true)
	c.StencilFunc(gputypes.CompareFunctionEqual, 1, ^uint32(0))
	c.StencilOp(gl.StencilKeep, gl.StencilKeep, gl.StencilKeep)
	c.Color(1, 1, 1, 1)
	drawQuad(c, 0, 0, 4, 4)

	for x := range 4 {
		want := byte(0)
		if x < 2 {
			want = 255
		}
		if got := d.Pixel(gl.BufferFront, x, 2)[0]; got != want {
			t.Errorf("pixel x=%d = %d, want %d", x, got, want)
		}
	}
}

func TestFramebufferObject(t *testing.T) {
	d, c := setup(t, 4, 4)
	tex := c.GenTexture()
	c.BindTexture(gl.TextureTarget2D, tex)
	c.TexImage(gl.TextureTarget2D, gputypes.TextureFormatRGBA8Unorm, 4, 4, nil)

	fb := c.GenFramebuffer()
	c.BindFramebuffer(fb)
	c.FramebufferTexture(gl.TextureTarget2D, tex)
	if err := c.CheckFramebufferStatus(); err != nil {
		t.Fatalf("CheckFramebufferStatus: %v", err)
	}
	c.ClearColor(0, 0, 1, 1)
	c.Clear(gl.ClearColorBuffer)

	buf := make([]byte, 4*4*4)
	c.ReadPixels(0, 0, 4, 4, buf)
	if !slices.Equal(buf[:4], []byte{0, 0, 255, 255}) {
		t.Errorf("framebuffer pixel = %v", buf[:4])
	}
	c.BindFramebuffer(0)
	if got := d.Pixel(gl.BufferFront, 0, 0); got != [4]byte{} {
		t.Errorf("drawable touched by framebuffer clear: %v", got)
	}

	rb := c.GenRenderbuffer()
	c.RenderbufferStencil(rb, 2, 2)
	c.BindFramebuffer(fb)
	c.FramebufferRenderbuffer(rb)
	if err := c.CheckFramebufferStatus(); !errors.Is(err, gl.ErrFramebufferIncomplete) {
		t.Errorf("mismatched renderbuffer status = %v, want ErrFramebufferIncomplete", err)
	}
}

func loadProgram(t *testing.T, c *Context, src string) uint32 {
	t.Helper()
	p := c.GenProgram()
	c.BindProgram(gl.ProgramFragment, p)
	if err := c.ProgramSource(gl.ProgramFragment, gl.LanguageARB, []byte(src)); err != nil {
		t.Fatalf("ProgramSource: %v", err)
	}
	c.Enable(gl.CapFragmentProgram)
	return p
}

func TestFragmentProgramConstant(t *testing.T) {
	d, c := setup(t, 2, 2)
	loadProgram(t, c, "!!ARBfp1.0\nPARAM c = program.local[0];\nMOV result.color, c;\nEND")
	c.ProgramLocalParameter(gl.ProgramFragment, 0, [4]float32{0, 1, 0, 1})
	drawQuad(c, 0, 0, 2, 2)

	if got := d.Pixel(gl.BufferFront, 0, 0); got != [4]byte{0, 255, 0, 255} {
		t.Errorf("pixel = %v, want green", got)
	}
}

func TestFragmentProgramTextureAndKill(t *testing.T) {
	d, c := setup(t, 4, 1)
	solidTexture(c, 255, 0, 0, 255)
	loadProgram(t, c, `!!ARBfp1.0
# keep the right half only
TEMP t, k;
SUB k, fragment.texcoord[0], {0.5, 0.5, 0, 0};
KIL k.x;
TEX t, fragment.texcoord[0], texture[0], 2D;
MUL result.color, t, fragment.color.a;
END`)
	c.Color(0.5, 0.5, 0.5, 0.5)
	c.TexCoordPointer(0, unitCoords, 2, 2)
	drawQuad(c, 0, 0, 4, 1)

	want := [][4]byte{{}, {}, {128, 0, 0, 128}, {128, 0, 0, 128}}
	for x, w := range want {
		if got := d.Pixel(gl.BufferFront, x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestProgramRejected(t *testing.T) {
	_, c := setup(t, 2, 2)
	tests := []struct {
		name string
		src  string
	}{
		{"no header", "MOV result.color, fragment.color;\nEND"},
		{"unknown op", "!!ARBfp1.0\nFOO result.color, fragment.color;\nEND"},
		{"bad unit", "!!ARBfp1.0\nTEX result.color, fragment.texcoord[0], texture[9], 2D;\nEND"},
		{"unknown name", "!!ARBfp1.0\nMOV result.color, missing;\nEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.BindProgram(gl.ProgramFragment, c.GenProgram())
			err := c.ProgramSource(gl.ProgramFragment, gl.LanguageARB, []byte(tt.src))
			if !errors.Is(err, gl.ErrProgramRejected) {
				t.Errorf("ProgramSource() = %v, want ErrProgramRejected", err)
			}
		})
	}
}

func TestSPIRVValidation(t *testing.T) {
	module := make([]byte, 20)
	binary.LittleEndian.PutUint32(module, 0x07230203)

	_, c := setup(t, 2, 2)
	c.BindProgram(gl.ProgramFragment, c.GenProgram())
	if err := c.ProgramSource(gl.ProgramFragment, gl.LanguageSPIRV, module); !errors.Is(err, gl.ErrProgramRejected) {
		t.Errorf("SPIR-V without feature = %v, want ErrProgramRejected", err)
	}

	_, c = setup(t, 2, 2, WithFeatures(DefaultFeatures|gl.FeatureSPIRV))
	c.BindProgram(gl.ProgramFragment, c.GenProgram())
	if err := c.ProgramSource(gl.ProgramFragment, gl.LanguageSPIRV, module); err != nil {
		t.Errorf("SPIR-V module rejected: %v", err)
	}
	if err := c.ProgramSource(gl.ProgramFragment, gl.LanguageSPIRV, module[:18]); !errors.Is(err, gl.ErrProgramRejected) {
		t.Errorf("truncated module = %v, want ErrProgramRejected", err)
	}
}

func TestPushCurrentPairing(t *testing.T) {
	d, err := New(2, 2, WithFailPush())
	if err != nil {
		t.Fatal(err)
	}
	if d.PushCurrent() {
		t.Fatal("PushCurrent succeeded with WithFailPush")
	}
	d.PopCurrent()
	if n := len(d.ctx.current); n != 0 {
		t.Errorf("context stack depth = %d after pop, want 0", n)
	}
}

func TestCreateSimilarSharesObjects(t *testing.T) {
	d, c := setup(t, 2, 2, WithRenderTexture())
	other, err := d.CreateSimilar(nil, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if other.GL() != gl.Functions(c) {
		t.Error("similar drawable does not share the context")
	}
	name, target, ok := other.Texture()
	if !ok || target != gl.TextureTarget2D {
		t.Fatalf("Texture() = %d, %v, %v", name, target, ok)
	}
	if !d.MakeCurrentRead(other) {
		t.Error("MakeCurrentRead on a shared drawable failed")
	}
	other.Destroy()
	if _, _, ok := other.Texture(); ok {
		t.Error("destroyed drawable still reports a texture")
	}
}

func TestRegisteredBackend(t *testing.T) {
	if !slices.Contains(gl.List(), BackendName) {
		t.Fatalf("gl.List() = %v, missing %q", gl.List(), BackendName)
	}
	d, err := gl.NewDrawableByName(BackendName, gl.DrawableOptions{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Destroy()
	if d.Width() != 8 || d.Height() != 8 {
		t.Errorf("size = %dx%d, want 8x8", d.Width(), d.Height())
	}
}
