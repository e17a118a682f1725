// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import "github.com/gogpu/gputypes"

// Cap is a server-side capability toggled by Enable and Disable.
type Cap uint8

// Capabilities.
const (
	CapBlend Cap = iota
	CapStencilTest
	CapScissorTest
	CapTexture1D
	CapTexture2D
	CapTextureRectangle
	CapMultisample
	CapFragmentProgram
	CapVertexProgram
)

// TextureTarget selects the texture binding point.
type TextureTarget uint8

// Texture targets.
const (
	// TextureTarget2D uses normalized [0,1] coordinates.
	TextureTarget2D TextureTarget = iota

	// TextureTargetRectangle uses texel coordinates and cannot repeat.
	TextureTargetRectangle

	// TextureTarget1D is used for gradient color ramps.
	TextureTarget1D
)

// Cap returns the capability that enables sampling from the target.
func (t TextureTarget) Cap() Cap {
	switch t {
	case TextureTargetRectangle:
		return CapTextureRectangle
	case TextureTarget1D:
		return CapTexture1D
	default:
		return CapTexture2D
	}
}

// Dimension returns the WebGPU texture dimension of the target.
func (t TextureTarget) Dimension() gputypes.TextureDimension {
	if t == TextureTarget1D {
		return gputypes.TextureDimension1D
	}
	return gputypes.TextureDimension2D
}

// Normalized reports whether coordinates for the target are in [0,1].
func (t TextureTarget) Normalized() bool {
	return t != TextureTargetRectangle
}

func (t TextureTarget) String() string {
	switch t {
	case TextureTargetRectangle:
		return "RECT"
	case TextureTarget1D:
		return "1D"
	default:
		return "2D"
	}
}

// Wrap is a texture coordinate wrap mode.
type Wrap uint8

// Wrap modes.
const (
	WrapClampToEdge Wrap = iota
	WrapClampToBorder
	WrapRepeat
	WrapMirroredRepeat
)

// StencilOp is the action applied to a stencil value.
type StencilOp uint8

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncr
	StencilDecr
	StencilInvert
)

// Primitive is a geometric primitive type for DrawArrays.
type Primitive uint8

// Primitives.
const (
	PrimitiveTriangles Primitive = iota
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	PrimitiveQuads
)

// ClearMask selects the buffers cleared by Clear.
type ClearMask uint8

// Clear bits.
const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearStencilBuffer
)

// Buffer selects the front or back color buffer of a drawable.
type Buffer uint8

// Color buffers.
const (
	BufferFront Buffer = iota
	BufferBack
)

// MatrixMode selects the matrix stack modified by LoadMatrix.
type MatrixMode uint8

// Matrix modes.
const (
	MatrixProjection MatrixMode = iota
	MatrixModelview
)

// ProgramTarget selects the programmable stage.
type ProgramTarget uint8

// Program targets.
const (
	ProgramVertex ProgramTarget = iota
	ProgramFragment
)

// ShaderLanguage is the encoding of a program handed to ProgramSource.
type ShaderLanguage uint8

// Program encodings.
const (
	// LanguageARB is ARB_vertex_program / ARB_fragment_program assembly.
	LanguageARB ShaderLanguage = iota

	// LanguageSPIRV is a little-endian SPIR-V binary.
	LanguageSPIRV
)

// Hint is the quality hint for multisample resolve filtering.
type Hint uint8

// Hints.
const (
	HintFastest Hint = iota
	HintNicest
)

// TexEnvMode is the texture environment function of a texture unit.
type TexEnvMode uint8

// Texture environment modes.
const (
	TexEnvReplace TexEnvMode = iota
	TexEnvModulate
	TexEnvCombine
)

// CombineFunc is a COMBINE texture environment function.
type CombineFunc uint8

// Combine functions.
const (
	CombineReplace CombineFunc = iota
	CombineModulate
)

// CombineSource is an argument source of a COMBINE function.
type CombineSource uint8

// Combine argument sources.
const (
	SourceTexture CombineSource = iota
	SourcePrevious
	SourcePrimaryColor
	SourceConstant
)

// CombineOperand selects the color or alpha part of a combine argument.
type CombineOperand uint8

// Combine operands.
const (
	OperandColor CombineOperand = iota
	OperandAlpha
)

// Combine configures one half (RGB or alpha) of the COMBINE environment.
// CombineReplace only reads the first argument.
type Combine struct {
	Func    CombineFunc
	Source  [2]CombineSource
	Operand [2]CombineOperand
}

// TexEnv is the texture environment of the active texture unit.
type TexEnv struct {
	Mode  TexEnvMode
	RGB   Combine
	Alpha Combine
}

// Common texture environments.
var (
	// EnvReplace outputs the texel.
	EnvReplace = TexEnv{Mode: TexEnvReplace}

	// EnvModulate multiplies the texel by the incoming fragment color.
	EnvModulate = TexEnv{Mode: TexEnvModulate}

	// EnvPreviousInTextureAlpha multiplies the previous unit's color and
	// alpha by this unit's texel alpha.
	EnvPreviousInTextureAlpha = TexEnv{
		Mode: TexEnvCombine,
		RGB: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrevious, SourceTexture},
			Operand: [2]CombineOperand{OperandColor, OperandAlpha},
		},
		Alpha: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrevious, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
	}

	// EnvPreviousInTextureColor multiplies the previous unit's color by
	// this unit's texel color component-wise.
	EnvPreviousInTextureColor = TexEnv{
		Mode: TexEnvCombine,
		RGB: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrevious, SourceTexture},
			Operand: [2]CombineOperand{OperandColor, OperandColor},
		},
		Alpha: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrevious, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
	}

	// EnvPrimaryInTextureAlpha multiplies the primary color by the texel
	// alpha.
	EnvPrimaryInTextureAlpha = TexEnv{
		Mode: TexEnvCombine,
		RGB: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrimaryColor, SourceTexture},
			Operand: [2]CombineOperand{OperandColor, OperandAlpha},
		},
		Alpha: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrimaryColor, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
	}

	// EnvPrimaryInTextureColor multiplies the primary color by the texel
	// color component-wise.
	EnvPrimaryInTextureColor = TexEnv{
		Mode: TexEnvCombine,
		RGB: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrimaryColor, SourceTexture},
			Operand: [2]CombineOperand{OperandColor, OperandColor},
		},
		Alpha: Combine{
			Func:    CombineModulate,
			Source:  [2]CombineSource{SourcePrimaryColor, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
	}

	// EnvAlphaOfTexture replicates the texel alpha into all four channels.
	// Used when a component-alpha pass needs source alpha times mask color.
	EnvAlphaOfTexture = TexEnv{
		Mode: TexEnvCombine,
		RGB: Combine{
			Func:    CombineReplace,
			Source:  [2]CombineSource{SourceTexture, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
		Alpha: Combine{
			Func:    CombineReplace,
			Source:  [2]CombineSource{SourceTexture, SourceTexture},
			Operand: [2]CombineOperand{OperandAlpha, OperandAlpha},
		},
	}
)
