package ggl

import (
	"encoding/binary"
	"math/bits"

	"github.com/gogpu/ggl/gl"
)

// ScanlineOrder is the vertical order of the lines of a client buffer.
type ScanlineOrder uint8

// Scanline orders.
const (
	ScanlineTopDown ScanlineOrder = iota
	ScanlineBottomUp
)

// PixelMasks describes the channels of a client pixel. Pixels are
// little-endian words of BPP bits; each mask selects the bits of one
// channel. A zero mask means the channel is absent. With one bit per
// pixel the most significant bit of a byte is the leftmost pixel.
type PixelMasks struct {
	BPP   int
	Alpha uint32
	Red   uint32
	Green uint32
	Blue  uint32
}

// Common client pixel layouts.
var (
	MasksRGBA32 = PixelMasks{BPP: 32, Red: 0x000000ff, Green: 0x0000ff00, Blue: 0x00ff0000, Alpha: 0xff000000}
	MasksARGB32 = PixelMasks{BPP: 32, Alpha: 0xff000000, Red: 0x00ff0000, Green: 0x0000ff00, Blue: 0x000000ff}
	MasksRGB24  = PixelMasks{BPP: 24, Red: 0xff0000, Green: 0x00ff00, Blue: 0x0000ff}
	MasksRGB565 = PixelMasks{BPP: 16, Red: 0xf800, Green: 0x07e0, Blue: 0x001f}
	MasksA8     = PixelMasks{BPP: 8, Alpha: 0xff}
	MasksA1     = PixelMasks{BPP: 1, Alpha: 0x1}
)

// PixelFormat describes a client pixel buffer holding premultiplied
// pixels.
type PixelFormat struct {
	Masks PixelMasks

	// XOffset is the number of pixels skipped at the start of each line.
	XOffset int

	// SkipLines is the number of lines skipped at the start of the buffer.
	SkipLines int

	// BytesPerLine is the line stride. Zero means tightly packed.
	BytesPerLine int

	ScanlineOrder ScanlineOrder
}

// channel extracts one channel from a packed pixel as an 8-bit value.
type channel struct {
	mask  uint32
	shift int
	max   uint32
}

func newChannel(mask uint32) channel {
	if mask == 0 {
		return channel{}
	}
	shift := bits.TrailingZeros32(mask)
	return channel{mask: mask, shift: shift, max: mask >> shift}
}

func (c channel) get(v uint32, absent byte) byte {
	if c.mask == 0 {
		return absent
	}
	return byte(((v&c.mask)>>c.shift*255 + c.max/2) / c.max)
}

func (c channel) put(b byte) uint32 {
	if c.mask == 0 {
		return 0
	}
	return (uint32(b)*c.max + 127) / 255 << c.shift & c.mask
}

// pixelCodec converts lines between a client format and RGBA8.
type pixelCodec struct {
	f          PixelFormat
	r, g, b, a channel
	stride     int
	direct     bool
}

func newPixelCodec(f PixelFormat, width int) (*pixelCodec, bool) {
	switch f.Masks.BPP {
	case 1, 8, 16, 24, 32:
	default:
		return nil, false
	}
	m := f.Masks
	all := m.Red | m.Green | m.Blue | m.Alpha
	if all == 0 || (m.BPP < 32 && all>>m.BPP != 0) {
		return nil, false
	}
	if f.XOffset < 0 || f.SkipLines < 0 || f.BytesPerLine < 0 {
		return nil, false
	}
	c := &pixelCodec{
		f: f,
		r: newChannel(m.Red), g: newChannel(m.Green),
		b: newChannel(m.Blue), a: newChannel(m.Alpha),
		stride: f.BytesPerLine,
		direct: m == MasksRGBA32,
	}
	if c.stride == 0 {
		c.stride = ((f.XOffset+width)*m.BPP + 7) / 8
	}
	return c, true
}

// size returns the buffer length needed for height lines.
func (c *pixelCodec) size(width, height int) int {
	last := (c.f.XOffset+width)*c.f.Masks.BPP + 7
	return (c.f.SkipLines+height-1)*c.stride + last/8
}

// line returns the byte offset of row (top row 0) in the buffer.
func (c *pixelCodec) line(row, height int) int {
	if c.f.ScanlineOrder == ScanlineBottomUp {
		row = height - 1 - row
	}
	return (c.f.SkipLines + row) * c.stride
}

func (c *pixelCodec) load(line []byte, i int) uint32 {
	bpp := c.f.Masks.BPP
	x := c.f.XOffset + i
	switch bpp {
	case 1:
		return uint32(line[x/8]>>(7-x%8)) & 1
	case 8:
		return uint32(line[x])
	case 16:
		return uint32(binary.LittleEndian.Uint16(line[x*2:]))
	case 24:
		p := line[x*3:]
		return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
	}
	return binary.LittleEndian.Uint32(line[x*4:])
}

func (c *pixelCodec) store(line []byte, i int, v uint32) {
	x := c.f.XOffset + i
	switch c.f.Masks.BPP {
	case 1:
		bit := byte(1) << (7 - x%8)
		if v&1 != 0 {
			line[x/8] |= bit
		} else {
			line[x/8] &^= bit
		}
	case 8:
		line[x] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(line[x*2:], uint16(v))
	case 24:
		line[x*3], line[x*3+1], line[x*3+2] = byte(v), byte(v>>8), byte(v>>16)
	default:
		binary.LittleEndian.PutUint32(line[x*4:], v)
	}
}

// decode converts one client line into RGBA8.
func (c *pixelCodec) decode(line []byte, out []byte, width int) {
	if c.direct {
		copy(out, line[c.f.XOffset*4:(c.f.XOffset+width)*4])
		return
	}
	for i := range width {
		v := c.load(line, i)
		o := out[i*4 : i*4+4]
		o[0], o[1], o[2], o[3] = c.r.get(v, 0), c.g.get(v, 0), c.b.get(v, 0), c.a.get(v, 0xff)
	}
}

// encode converts RGBA8 into one client line.
func (c *pixelCodec) encode(in []byte, line []byte, width int) {
	if c.direct {
		copy(line[c.f.XOffset*4:], in[:width*4])
		return
	}
	for i := range width {
		p := in[i*4 : i*4+4]
		c.store(line, i, c.r.put(p[0])|c.g.put(p[1])|c.b.put(p[2])|c.a.put(p[3]))
	}
}

// pixelArgs validates a pixel transfer and returns its codec.
func (s *Surface) pixelArgs(x, y, width, height int, f *PixelFormat, buf []byte) (*pixelCodec, bool) {
	switch {
	case f == nil || buf == nil:
		s.status.add(StatusNullPointer)
		return nil, false
	case s.programmatic != nil:
		s.notSupported("pixels of programmatic surface")
		return nil, false
	case x < 0 || y < 0 || width < 0 || height < 0 || x+width > s.width || y+height > s.height:
		s.status.add(StatusBadCoordinate)
		return nil, false
	case width == 0 || height == 0:
		return nil, false
	}
	c, ok := newPixelCodec(*f, width)
	if !ok {
		s.notSupported("pixel format")
		return nil, false
	}
	if len(buf) < c.size(width, height) {
		s.status.add(StatusNullPointer)
		return nil, false
	}
	return c, true
}

// SetPixels stores the width x height rectangle of buf, laid out as f,
// at (x, y) of s. The clip is not applied.
func (s *Surface) SetPixels(x, y, width, height int, f *PixelFormat, buf []byte) {
	c, ok := s.pixelArgs(x, y, width, height, f, buf)
	if !ok {
		return
	}
	px := make([]byte, width*height*4)
	for row := range height {
		off := c.line(row, height)
		out := px[row*width*4 : (row+1)*width*4]
		c.decode(buf[off:], out, width)
		for i := 0; i < len(out); i += 4 {
			neutral(s.format, out[i:i+4])
		}
	}
	if s.storePixels(x, y, width, height, px) {
		s.markDamage(Box{x, y, x + width, y + height})
		if s.drawable == nil && s.pbuf == nil {
			s.damage = Box{}
		}
	}
}

// storePixels writes RGBA8 rows into the texture, then draws them into
// the render target when it is not the texture.
func (s *Surface) storePixels(x, y, width, height int, px []byte) bool {
	if !s.sync() {
		return false
	}
	d := s.dev
	t := &s.texture
	if !d.withContext(func(fn gl.Functions) {
		fn.ActiveTexture(0)
		fn.BindTexture(t.target, t.name)
		fn.TexSubImage(t.target, x, y, width, height, px)
		fn.BindTexture(t.target, 0)
	}) {
		s.notSupported("make current")
		return false
	}
	if (s.drawable == nil && s.pbuf == nil) || t.alias {
		return true
	}

	defer d.popCurrent()
	if !d.pushCurrent(s, true) {
		s.notSupported("make current")
		return false
	}
	fn := d.fn
	fn.Disable(gl.CapStencilTest)
	fn.Disable(gl.CapBlend)
	t.bind(fn, 0)
	t.setFilter(fn, samplerFilter(FilterNearest))
	t.setWrap(fn, gl.WrapClampToEdge)
	fn.TexEnv(&gl.EnvReplace)
	m := [2]Matrix{Scale(t.scaleX, t.scaleY)}
	b := Box{x, y, x + width, y + height}.float()
	drawVertices(fn, gl.PrimitiveTriangleFan, b.polygon(), 1, &m)
	t.unbind(fn, 0)
	return true
}

// GetPixels reads the width x height rectangle at (x, y) of s into buf,
// laid out as f.
func (s *Surface) GetPixels(x, y, width, height int, f *PixelFormat, buf []byte) {
	c, ok := s.pixelArgs(x, y, width, height, f, buf)
	if !ok {
		return
	}
	px := make([]byte, width*height*4)
	if !s.readPixels(x, y, width, height, px) {
		s.notSupported("read pixels")
		return
	}
	for row := range height {
		in := px[row*width*4 : (row+1)*width*4]
		for i := 0; i < len(in); i += 4 {
			neutral(s.format, in[i:i+4])
		}
		off := c.line(row, height)
		c.encode(in, buf[off:], width)
	}
}
