package ggl

import "github.com/gogpu/ggl/gl"

// CopyArea copies the width x height rectangle at (xSrc, ySrc) of src to
// (xDst, yDst) of dst. The rectangle is clipped to both surfaces. The
// transform, filter and fill of src are not applied.
func CopyArea(src, dst *Surface, xSrc, ySrc, width, height, xDst, yDst int) {
	switch {
	case dst == nil:
		return
	case src == nil:
		dst.status.add(StatusNullPointer)
		return
	case src.programmatic != nil || dst.programmatic != nil:
		dst.notSupported("copy programmatic surface")
		return
	}

	// Clip to the source, then to the destination.
	if xSrc < 0 {
		xDst -= xSrc
		width += xSrc
		xSrc = 0
	}
	if ySrc < 0 {
		yDst -= ySrc
		height += ySrc
		ySrc = 0
	}
	if xDst < 0 {
		xSrc -= xDst
		width += xDst
		xDst = 0
	}
	if yDst < 0 {
		ySrc -= yDst
		height += yDst
		yDst = 0
	}
	width = min(width, src.width-xSrc, dst.width-xDst)
	height = min(height, src.height-ySrc, dst.height-yDst)
	if width <= 0 || height <= 0 {
		return
	}

	if src == dst {
		tmp, err := NewSurface(src.dev, src.format, width, height)
		if err != nil {
			Logger().Warn("copy intermediate allocation failed", "err", err)
			dst.status.add(StatusNoMemory)
			return
		}
		defer tmp.Destroy()
		CopyArea(src, tmp, xSrc, ySrc, width, height, 0, 0)
		CopyArea(tmp, dst, 0, 0, width, height, xDst, yDst)
		return
	}

	if dst.copyTexture(src, xSrc, ySrc, width, height, xDst, yDst) {
		return
	}

	// Composite with the sampling attributes of src neutralized.
	transform, filter, fill, ca := src.transform, src.filter, src.fill, src.componentAlpha
	geometry := dst.geometry
	src.transform, src.filter, src.fill, src.componentAlpha = nil, FilterNearest, FillTransparent, false
	dst.geometry = nil
	defer func() {
		src.transform, src.filter, src.fill, src.componentAlpha = transform, filter, fill, ca
		dst.geometry = geometry
	}()
	dst.composite(OperatorSrc, src, nil, placement{
		xSrc: xSrc, ySrc: ySrc,
		xDst: xDst, yDst: yDst,
		width: width, height: height,
	}, 0xffff, true)
}

// copyTexture copies straight from the render target of src into the
// texture of dst. It reports false when the copy must be drawn instead:
// dst renders elsewhere than its texture, is clipped, or stores other
// channels than src.
func (dst *Surface) copyTexture(src *Surface, xSrc, ySrc, width, height, xDst, yDst int) bool {
	d := dst.dev
	switch {
	case dst.drawable != nil || dst.pbuf != nil || dst.clipDepth[dst.renderBuffer()] != 0:
		return false
	case colorMask(src.format) != colorMask(dst.format):
		return false
	case src.drawable == nil && src.pbuf == nil && !d.features.Has(gl.FeatureFramebufferObject):
		return false
	}

	defer d.popCurrent()
	if !d.pushCurrent(src, true) {
		return false
	}
	fn := d.fn
	t := &dst.texture
	if !t.allocate(fn) {
		dst.status.add(StatusNoMemory)
		return true
	}
	fn.ActiveTexture(0)
	fn.BindTexture(t.target, t.name)
	fn.CopyTexSubImage(t.target, xDst, yDst, xSrc, ySrc, width, height)
	fn.BindTexture(t.target, 0)
	dst.markDamage(Box{xDst, yDst, xDst + width, yDst + height})
	return true
}
