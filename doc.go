// Package ggl composites images with the Porter-Duff operators on a GL
// pipeline.
//
// # Overview
//
// ggl maps surfaces, operators, masks, gradients, trapezoids and
// triangles onto the fixed-function texture environment and, where the
// hardware has them, generated fragment programs. The GL context is an
// external collaborator described by package gl; package gl/glsoft is a
// complete software implementation of it.
//
// # Quick Start
//
//	drawable, _ := glsoft.New(64, 64)
//	dev, _ := ggl.NewDevice(drawable)
//	argb := dev.FindStandardFormat(ggl.StandardARGB32)
//
//	dst, _ := ggl.NewSurface(dev, argb, 64, 64)
//	dst.FillRectangle(ggl.OperatorSrc, ggl.Color{Red: 0xffff, Alpha: 0xffff},
//	    ggl.Rectangle{Width: 64, Height: 64})
//
//	blue, _ := ggl.CreateSolid(dev, ggl.Color{Blue: 0xffff, Alpha: 0xffff})
//	ggl.Composite(ggl.OperatorOver, blue, nil, dst, 0, 0, 0, 0, 0, 0, 64, 64)
//	if st := dst.Status(); st != ggl.StatusSuccess {
//	    log.Print(st)
//	}
//
// # Compositing Strategies
//
// Composite classifies the source and mask (solid, textured, filtered,
// component alpha) and picks, in order:
//   - one pass with the texture environment or a fragment program
//   - two passes through an intermediate surface holding source IN mask
//   - materialized operands for component-alpha masks
//
// Repeating operands are tiled when the hardware cannot repeat the
// texture. Unbounded operators also clear the destination outside the
// source.
//
// # Errors
//
// Drawing never returns errors. Failures leave the destination unchanged
// and queue a Status on it, drained one at a time with Surface.Status.
//
// # Coordinate System
//
//   - Origin (0,0) at the first pixel row
//   - X increases right, Y increases with the row
//   - Geometry is 16.16 fixed point; pixel centers are at half units
//
// # Concurrency
//
// A Device and its surfaces are used from one goroutine. Every drawing
// call makes the destination current and restores the previous context
// before returning.
package ggl
