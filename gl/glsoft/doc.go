// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glsoft is a software implementation of the gl collaborator
// contract.
//
// It rasterizes triangles with a top-left fill rule, evaluates the
// fixed-function texture environment (REPLACE, MODULATE and COMBINE),
// interprets ARB assembly fragment programs, and implements blending,
// stencil and scissor tests, framebuffer objects and drawables with front
// and back color buffers. Every entry point is appended to a call log
// so tests can assert which GPU state a caller issued.
//
// The backend registers itself under the name "soft":
//
//	d, err := gl.NewDrawableByName("soft", gl.DrawableOptions{Width: 64, Height: 64})
//
// Color buffers and textures hold four 8-bit channels, rows stored
// first-row-first. Multisampling is accepted but rendered single-sampled.
// SPIR-V programs are validated and recorded but not executed; fragments
// drawn with one bound are shaded by the fixed-function environment.
package glsoft
