package ggl

import (
	"fmt"

	"github.com/gogpu/ggl/internal/blend"
	"github.com/gogpu/gputypes"
)

// Operator is a Porter-Duff compositing operator.
type Operator uint8

// Operators.
const (
	OperatorClear Operator = iota
	OperatorSrc
	OperatorDst
	OperatorOver
	OperatorOverReverse
	OperatorIn
	OperatorInReverse
	OperatorOut
	OperatorOutReverse
	OperatorAtop
	OperatorAtopReverse
	OperatorXor
	OperatorAdd

	operatorCount

	// operatorMultiply multiplies the destination by the source
	// component-wise. It builds component-alpha intermediates.
	operatorMultiply = operatorCount
)

var operatorNames = [operatorCount]string{
	"clear", "src", "dst", "over", "over-reverse", "in", "in-reverse",
	"out", "out-reverse", "atop", "atop-reverse", "xor", "add",
}

func (op Operator) String() string {
	if op < operatorCount {
		return operatorNames[op]
	}
	if op == operatorMultiply {
		return "multiply"
	}
	return fmt.Sprintf("Operator(%d)", op)
}

func (op Operator) valid() bool {
	return op < operatorCount
}

// factors returns the blend factors implementing op on premultiplied
// colors.
func (op Operator) factors() (src, dst gputypes.BlendFactor) {
	if op == operatorMultiply {
		return gputypes.BlendFactorDst, gputypes.BlendFactorZero
	}
	return blend.Factors(blend.BlendMode(op))
}

// bounded reports whether op leaves the destination unchanged where the
// source is transparent.
func (op Operator) bounded() bool {
	if op == operatorMultiply {
		return false
	}
	return blend.Bounded(blend.BlendMode(op))
}

// apply evaluates op on one pixel. It is the reference for solid paths.
func (op Operator) apply(s, d blend.Pixel) blend.Pixel {
	if op == operatorMultiply {
		return d.In(s)
	}
	return blend.Composite(blend.BlendMode(op), s, d)
}
