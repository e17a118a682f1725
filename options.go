package ggl

import "github.com/gogpu/ggl/gl"

// Option configures a Device during creation.
//
// Example:
//
//	// Force the fixed-function paths even on hardware with programs.
//	dev, err := ggl.NewDevice(drawable,
//	    ggl.WithFeatureMask(^gl.FeatureFragmentProgram))
type Option func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	featureMask  gl.Features
	stackDepth   int
	language     gl.ShaderLanguage
	hasLanguage  bool
	intermediate string
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		featureMask:  ^gl.Features(0),
		stackDepth:   16,
		intermediate: "argb32",
	}
}

// WithFeatureMask restricts the features the device uses to those set in
// mask. Features the drawable does not report are never enabled.
func WithFeatureMask(mask gl.Features) Option {
	return func(o *deviceOptions) {
		o.featureMask = mask
	}
}

// WithContextStackDepth sets the maximum nesting of current contexts.
// Pushing beyond it fails the drawing operation instead of growing the
// stack.
func WithContextStackDepth(n int) Option {
	return func(o *deviceOptions) {
		if n > 0 {
			o.stackDepth = n
		}
	}
}

// WithProgramLanguage selects the encoding of generated fragment
// programs. By default ARB assembly is used when the drawable accepts it
// and SPIR-V otherwise.
func WithProgramLanguage(lang gl.ShaderLanguage) Option {
	return func(o *deviceOptions) {
		o.language = lang
		o.hasLanguage = true
	}
}

// WithIntermediateFormat names the format of the intermediate surfaces
// used by two-pass compositing and coverage masks. The format must carry
// color and alpha; the default is "argb32".
func WithIntermediateFormat(name string) Option {
	return func(o *deviceOptions) {
		o.intermediate = name
	}
}
