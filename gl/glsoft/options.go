// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import "github.com/gogpu/ggl/gl"

// DefaultFeatures is the feature set of a drawable created without
// WithFeatures.
const DefaultFeatures = gl.FeatureTextureRectangle |
	gl.FeatureTextureNonPowerOfTwo |
	gl.FeatureTextureMirroredRepeat |
	gl.FeatureTextureBorderClamp |
	gl.FeatureMultitexture |
	gl.FeatureTextureEnvCombine |
	gl.FeatureFragmentProgram |
	gl.FeatureVertexProgram |
	gl.FeatureFramebufferObject |
	gl.FeatureBlendColor

// Option configures a software drawable.
type Option func(*config)

type config struct {
	features      gl.Features
	format        gl.DrawableFormat
	maxUnits      int
	maxSize       int
	failPush      bool
	renderTexture bool
}

func defaultConfig() config {
	return config{
		features: DefaultFeatures,
		format: gl.DrawableFormat{
			ID:      1,
			Color:   gl.ColorFormat{Red: 8, Green: 8, Blue: 8, Alpha: 8},
			Stencil: 8,
			Types:   gl.DrawableTypeWindow | gl.DrawableTypePbuffer,
		},
		maxUnits: 4,
		maxSize:  4096,
	}
}

// WithFeatures replaces the advertised feature set.
//
// Example:
//
//	// A fixed-function-only context with a single texture unit.
//	d, _ := glsoft.New(64, 64,
//	    glsoft.WithFeatures(gl.FeatureFramebufferObject),
//	    glsoft.WithMaxTextureUnits(1))
func WithFeatures(f gl.Features) Option {
	return func(c *config) {
		c.features = f
	}
}

// WithFormat sets the drawable framebuffer format. A nil format keeps the
// default (RGBA8, 8 stencil bits, single buffered).
func WithFormat(f *gl.DrawableFormat) Option {
	return func(c *config) {
		if f != nil {
			c.format = *f
		}
	}
}

// WithMaxTextureUnits sets the number of fixed-function texture units.
func WithMaxTextureUnits(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxUnits = min(n, maxUnits)
		}
	}
}

// WithMaxTextureSize sets the largest accepted texture dimension.
func WithMaxTextureSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithFailPush makes PushCurrent fail, simulating a lost context.
func WithFailPush() Option {
	return func(c *config) {
		c.failPush = true
	}
}

// WithRenderTexture makes Drawable.Texture alias the color buffer, as a
// pbuffer bound with render-to-texture does.
func WithRenderTexture() Option {
	return func(c *config) {
		c.renderTexture = true
	}
}
