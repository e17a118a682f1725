// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import "strings"

// Features is a bitmask of optional GPU capabilities.
type Features uint32

// Capability bits reported by a Drawable.
const (
	// FeatureTextureRectangle allows unnormalized rectangle textures.
	FeatureTextureRectangle Features = 1 << iota

	// FeatureTextureNonPowerOfTwo allows 2D textures of any size.
	FeatureTextureNonPowerOfTwo

	// FeatureTextureMirroredRepeat allows the mirrored repeat wrap mode.
	FeatureTextureMirroredRepeat

	// FeatureTextureBorderClamp allows clamping to a transparent border.
	FeatureTextureBorderClamp

	// FeatureMultitexture means at least two texture units are available.
	FeatureMultitexture

	// FeatureTextureEnvCombine allows the COMBINE texture environment.
	FeatureTextureEnvCombine

	// FeatureMultisample means the drawable may carry a multisample buffer.
	FeatureMultisample

	// FeatureMultisampleFilterHint allows selecting the resolve filter quality.
	FeatureMultisampleFilterHint

	// FeatureFragmentProgram allows ARB assembly fragment programs.
	FeatureFragmentProgram

	// FeatureVertexProgram allows ARB assembly vertex programs.
	FeatureVertexProgram

	// FeatureSPIRV means programs are accepted as SPIR-V binaries.
	FeatureSPIRV

	// FeaturePixelBufferObject allows pixel buffer objects for transfers.
	FeaturePixelBufferObject

	// FeatureFramebufferObject allows rendering into textures.
	FeatureFramebufferObject

	// FeatureBlendColor allows a constant blend color.
	FeatureBlendColor

	// FeaturePackedDepthStencil allows combined depth/stencil renderbuffers.
	FeaturePackedDepthStencil

	featureCount = iota
)

var featureNames = [featureCount]string{
	"texture-rectangle",
	"texture-npot",
	"texture-mirrored-repeat",
	"texture-border-clamp",
	"multitexture",
	"texture-env-combine",
	"multisample",
	"multisample-filter-hint",
	"fragment-program",
	"vertex-program",
	"spirv",
	"pixel-buffer-object",
	"framebuffer-object",
	"blend-color",
	"packed-depth-stencil",
}

// Has reports whether all bits of m are set.
func (f Features) Has(m Features) bool {
	return f&m == m
}

// String returns the feature names joined with '|'.
func (f Features) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for i := 0; i < featureCount; i++ {
		if f&(1<<i) != 0 {
			names = append(names, featureNames[i])
		}
	}
	return strings.Join(names, "|")
}

// Caps describes the limits and features of a drawable's context.
type Caps struct {
	Features Features

	// MaxTextureUnits is the number of fixed-function texture units.
	MaxTextureUnits int

	// MaxTextureSize is the largest texture dimension in texels.
	MaxTextureSize int
}
