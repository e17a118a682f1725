package program

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/gl/glsoft"
	"github.com/gogpu/gputypes"
)

func newContext(t *testing.T, opts ...glsoft.Option) (*glsoft.Drawable, *glsoft.Context) {
	t.Helper()
	d, err := glsoft.New(4, 4, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return d, d.Context()
}

// allKeys enumerates every key the compositing engine can request.
func allKeys() []Key {
	var keys []Key
	variants := map[Kind][]uint8{
		KindCombine:        {0},
		KindSolid:          {0},
		KindConvolution:    {ConvolutionGeneral, ConvolutionSimple},
		KindLinearGradient: {WrapTransparent, WrapPad, WrapRepeat, WrapReflect},
		KindRadialGradient: {WrapTransparent, WrapPad, WrapRepeat, WrapReflect},
	}
	for kind, vs := range variants {
		for _, v := range vs {
			for unit := range uint8(2) {
				for _, target := range []gl.TextureTarget{gl.TextureTarget2D, gl.TextureTargetRectangle} {
					for _, other := range []Other{OtherNone, Other2D, OtherRect} {
						for _, mask := range []bool{false, true} {
							for _, ca := range []bool{false, true} {
								keys = append(keys, Key{kind, v, unit, target, other, mask, ca})
							}
						}
					}
				}
			}
		}
	}
	return keys
}

func TestFragmentARBAccepted(t *testing.T) {
	_, c := newContext(t)
	cache := NewCache(gl.LanguageARB)
	for _, key := range allKeys() {
		if _, err := cache.Fragment(c, key); err != nil {
			t.Errorf("%s: %v", key, err)
		}
	}
	if _, err := cache.Vertex(c); err != nil {
		t.Errorf("vertex program: %v", err)
	}
}

func TestCacheMemoizes(t *testing.T) {
	_, c := newContext(t)
	cache := NewCache(gl.LanguageARB)
	key := Key{Kind: KindConvolution, Variant: ConvolutionSimple}

	first, err := cache.Fragment(c, key)
	if err != nil || first == 0 {
		t.Fatalf("Fragment() = %d, %v", first, err)
	}
	second, _ := cache.Fragment(c, key)
	if second != first {
		t.Errorf("second lookup = %d, want %d", second, first)
	}
	if n := c.Count("GenProgram"); n != 1 {
		t.Errorf("GenProgram called %d times, want 1", n)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	cache.Release(c)
	if n := c.Count("DeleteProgram"); n != 1 {
		t.Errorf("DeleteProgram called %d times, want 1", n)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after Release = %d, want 0", cache.Len())
	}
}

func TestCacheFailureIsPermanent(t *testing.T) {
	_, c := newContext(t, glsoft.WithFeatures(gl.FeatureMultitexture))
	cache := NewCache(gl.LanguageARB)
	key := Key{Kind: KindLinearGradient, Variant: WrapPad}

	name, err := cache.Fragment(c, key)
	if name != 0 || !errors.Is(err, ErrFailed) {
		t.Fatalf("Fragment() = %d, %v; want 0, ErrFailed", name, err)
	}
	if !errors.Is(err, gl.ErrProgramRejected) {
		t.Errorf("error %v does not wrap ErrProgramRejected", err)
	}

	c.ResetCalls()
	if name, err := cache.Fragment(c, key); name != 0 || err == nil {
		t.Errorf("second Fragment() = %d, %v", name, err)
	}
	if n := c.Count("ProgramSource"); n != 0 {
		t.Errorf("failed key compiled again (%d ProgramSource calls)", n)
	}
}

func TestSimpleKernel(t *testing.T) {
	plus := [9]float32{0, 1, 0, 1, 4, 1, 0, 1, 0}
	if !SimpleKernel(&plus) {
		t.Error("plus kernel not detected as simple")
	}
	box := [9]float32{1, 1, 1, 1, 1, 1, 1, 1, 1}
	if SimpleKernel(&box) {
		t.Error("box kernel detected as simple")
	}
}

func TestExpandTable(t *testing.T) {
	e := lookup(1, gl.TextureTargetRectangle)
	if e.sampler != "texture[1]" || e.target != "RECT" || e.coord != "fragment.texcoord[1]" {
		t.Errorf("lookup(1, RECT) = %+v", e)
	}
	if e := lookup(0, gl.TextureTarget2D); e.target != "2D" || e.sampler != "texture[0]" {
		t.Errorf("lookup(0, 2D) = %+v", e)
	}
}

func TestSimpleConvolutionUsesFiveTaps(t *testing.T) {
	general := FragmentARB(Key{Kind: KindConvolution, Variant: ConvolutionGeneral})
	simple := FragmentARB(Key{Kind: KindConvolution, Variant: ConvolutionSimple})
	if n := strings.Count(general, "TEX s"); n != 9 {
		t.Errorf("general kernel samples %d taps, want 9", n)
	}
	if n := strings.Count(simple, "TEX s"); n != 5 {
		t.Errorf("simple kernel samples %d taps, want 5", n)
	}
}

// TestCombineProgramRenders draws with the source-in-mask program and
// checks the interpreted result.
func TestCombineProgramRenders(t *testing.T) {
	d, c := newContext(t)
	if !d.PushCurrent() {
		t.Fatal("PushCurrent failed")
	}
	defer d.PopCurrent()

	c.Viewport(0, 0, 4, 4)
	c.MatrixMode(gl.MatrixProjection)
	proj := [16]float32{0.5, 0, 0, 0, 0, 0.5, 0, 0, 0, 0, -1, 0, -1, -1, 0, 1}
	c.LoadMatrix(&proj)

	for unit, px := range [][]byte{{255, 0, 0, 255}, {0, 0, 0, 128}} {
		c.ActiveTexture(unit)
		c.BindTexture(gl.TextureTarget2D, c.GenTexture())
		c.TexImage(gl.TextureTarget2D, gputypes.TextureFormatRGBA8Unorm, 1, 1, px)
	}

	cache := NewCache(gl.LanguageARB)
	name, err := cache.Fragment(c, Key{Kind: KindCombine, Other: Other2D})
	if err != nil {
		t.Fatal(err)
	}
	c.BindProgram(gl.ProgramFragment, name)
	c.Enable(gl.CapFragmentProgram)
	coords := []float32{0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1}
	c.TexCoordPointer(0, coords, 3, 3)
	c.TexCoordPointer(1, coords, 3, 3)
	c.VertexPointer([]float32{0, 0, 4, 0, 4, 4, 0, 4}, 2)
	c.DrawArrays(gl.PrimitiveQuads, 0, 4)

	if got := d.Pixel(gl.BufferFront, 2, 2); got != [4]byte{128, 0, 0, 128} {
		t.Errorf("pixel = %v, want [128 0 0 128]", got)
	}
}

func TestFragmentWGSL(t *testing.T) {
	src := FragmentWGSL(Key{Kind: KindRadialGradient, Variant: WrapReflect, Unit: 1, Other: OtherRect})
	for _, want := range []string{
		"fn vs_main", "fn fs_main",
		"var tex1: texture_1d<f32>",
		"var tex0: texture_2d<f32>",
		"textureDimensions(tex0)",
		"fract(t * 0.5)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("WGSL missing %q", want)
		}
	}
}

// TestCacheSPIRV compiles every generated WGSL module to SPIR-V.
func TestCacheSPIRV(t *testing.T) {
	_, c := newContext(t, glsoft.WithFeatures(glsoft.DefaultFeatures|gl.FeatureSPIRV))
	cache := NewCache(gl.LanguageSPIRV)
	for _, key := range allKeys() {
		name, err := cache.Fragment(c, key)
		if err != nil || name == 0 {
			t.Errorf("%s: Fragment() = %d, %v", key, name, err)
			continue
		}
		lang, code, ok := c.ProgramText(name)
		if !ok || lang != gl.LanguageSPIRV || len(code) < 4 || binary.LittleEndian.Uint32(code) != 0x07230203 {
			t.Errorf("%s: program %d: lang=%v len=%d", key, name, lang, len(code))
		}
	}
	if vp, err := cache.Vertex(c); vp != 0 || err != nil {
		t.Errorf("Vertex() = %d, %v; want 0, nil for SPIR-V", vp, err)
	}
}
