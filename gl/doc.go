// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gl defines the contract between the ggl compositing engine and a
// platform backend.
//
// The engine never calls a windowing or GL API directly. Everything it needs
// from the platform is expressed by three things in this package:
//
//   - [Functions]: one method per GL operation the engine issues. A backend
//     resolves its entry points once and exposes them through this interface.
//   - [Drawable]: a render target with a context that can be made current,
//     a capability set ([Caps]) and the list of texture [Format] values the
//     driver supports.
//   - [Features]: the capability bitset the engine uses to pick between
//     fixed-function, fragment-program and two-pass compositing strategies.
//
// A new platform backend is a drop-in implementation of these interfaces.
// Backends can announce themselves through [Register] so that applications
// can pick one by name or by priority:
//
//	d, err := gl.NewDrawable(gl.DrawableOptions{Width: 640, Height: 480})
//
// The software backend in gl/glsoft registers itself as "soft".
//
// Enumerations that have a direct WebGPU counterpart (blend factors, compare
// functions, filter modes, texture formats) use the gputypes vocabulary so
// that a backend sitting on top of a modern API can pass them through.
package gl
