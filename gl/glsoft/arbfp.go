// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gogpu/ggl/gl"
)

const (
	maxLocals = 16
	maxTemps  = 32
)

var (
	errSyntax = errors.New("syntax error")
	errSPIRV  = errors.New("not a SPIR-V module")
)

// program is a program object. Fragment programs written in ARB assembly
// are parsed into code and interpreted per fragment.
type program struct {
	target gl.ProgramTarget
	lang   gl.ShaderLanguage
	source []byte
	locals [maxLocals][4]float32
	code   *fpCode
	valid  bool
}

type regFile uint8

const (
	fileTemp regFile = iota
	fileTexcoord
	fileColor
	fileLocal
	fileConst
	fileOutput
)

type binding struct {
	file  regFile
	index int
}

type operand struct {
	binding
	swizzle [4]uint8
	negate  bool
}

type dest struct {
	binding
	mask [4]bool
}

type opcode uint8

const (
	opABS opcode = iota
	opADD
	opCMP
	opDP3
	opDP4
	opFLR
	opFRC
	opKIL
	opLRP
	opMAD
	opMAX
	opMIN
	opMOV
	opMUL
	opRCP
	opRSQ
	opSGE
	opSLT
	opSUB
	opTEX
	opTXP
)

// opcodes maps mnemonics to opcodes and source operand counts.
var opcodes = map[string]struct {
	op   opcode
	srcs int
}{
	"ABS": {opABS, 1}, "ADD": {opADD, 2}, "CMP": {opCMP, 3}, "DP3": {opDP3, 2},
	"DP4": {opDP4, 2}, "FLR": {opFLR, 1}, "FRC": {opFRC, 1}, "KIL": {opKIL, 1},
	"LRP": {opLRP, 3}, "MAD": {opMAD, 3}, "MAX": {opMAX, 2}, "MIN": {opMIN, 2},
	"MOV": {opMOV, 1}, "MUL": {opMUL, 2}, "RCP": {opRCP, 1}, "RSQ": {opRSQ, 1},
	"SGE": {opSGE, 2}, "SLT": {opSLT, 2}, "SUB": {opSUB, 2}, "TEX": {opTEX, 1},
	"TXP": {opTXP, 1},
}

type instr struct {
	op     opcode
	sat    bool
	dst    dest
	src    [3]operand
	unit   int
	target gl.TextureTarget
}

type fpCode struct {
	temps  int
	consts [][4]float32
	instrs []instr
}

type fpParser struct {
	code  *fpCode
	names map[string]binding
	units int
}

// parseFragmentProgram parses the ARB_fragment_program subset used for
// compositing: TEMP, PARAM, ATTRIB, OUTPUT and OPTION declarations and the
// arithmetic, texture and KIL instructions.
func parseFragmentProgram(src string, units int) (*fpCode, error) {
	var b strings.Builder
	for line := range strings.SplitSeq(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	text := strings.TrimSpace(b.String())
	if !strings.HasPrefix(text, "!!ARBfp1.0") || !strings.HasSuffix(text, "END") {
		return nil, fmt.Errorf("%w: missing header or END", errSyntax)
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "!!ARBfp1.0"), "END")

	p := &fpParser{code: &fpCode{}, names: make(map[string]binding), units: units}
	for stmt := range strings.SplitSeq(text, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := p.statement(stmt); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errSyntax, stmt, err)
		}
	}
	return p.code, nil
}

func (p *fpParser) statement(stmt string) error {
	word, rest, _ := strings.Cut(stmt, " ")
	rest = strings.TrimSpace(rest)
	switch word {
	case "OPTION":
		return nil
	case "TEMP":
		for name := range strings.SplitSeq(rest, ",") {
			if p.code.temps == maxTemps {
				return errors.New("too many temporaries")
			}
			p.names[strings.TrimSpace(name)] = binding{fileTemp, p.code.temps}
			p.code.temps++
		}
		return nil
	case "PARAM", "ATTRIB", "OUTPUT":
		name, value, ok := strings.Cut(rest, "=")
		if !ok {
			return errors.New("missing '='")
		}
		bnd, err := p.reference(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		p.names[strings.TrimSpace(name)] = bnd
		return nil
	}

	mnemonic, sat := strings.CutSuffix(word, "_SAT")
	info, ok := opcodes[mnemonic]
	if !ok {
		return fmt.Errorf("unknown instruction %s", word)
	}
	args := splitArgs(rest)
	in := instr{op: info.op, sat: sat}
	switch info.op {
	case opKIL:
		if len(args) != 1 {
			return errors.New("KIL takes one operand")
		}
		src, err := p.operand(args[0])
		in.src[0] = src
		if err != nil {
			return err
		}
	case opTEX, opTXP:
		if len(args) != 4 {
			return errors.New("texture instruction takes four operands")
		}
		if err := p.textureArgs(&in, args); err != nil {
			return err
		}
	default:
		if len(args) != info.srcs+1 {
			return fmt.Errorf("%s takes %d operands", mnemonic, info.srcs+1)
		}
		d, err := p.dest(args[0])
		if err != nil {
			return err
		}
		in.dst = d
		for i := range info.srcs {
			if in.src[i], err = p.operand(args[i+1]); err != nil {
				return err
			}
		}
	}
	p.code.instrs = append(p.code.instrs, in)
	return nil
}

func (p *fpParser) textureArgs(in *instr, args []string) error {
	d, err := p.dest(args[0])
	if err != nil {
		return err
	}
	in.dst = d
	if in.src[0], err = p.operand(args[1]); err != nil {
		return err
	}
	unit, ok := bracketIndex(args[2], "texture[")
	if !ok || unit >= p.units {
		return fmt.Errorf("bad texture unit %s", args[2])
	}
	in.unit = unit
	switch args[3] {
	case "1D":
		in.target = gl.TextureTarget1D
	case "2D":
		in.target = gl.TextureTarget2D
	case "RECT":
		in.target = gl.TextureTargetRectangle
	default:
		return fmt.Errorf("bad texture target %s", args[3])
	}
	return nil
}

// splitArgs splits operands on commas outside braces.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

func bracketIndex(s, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return 0, false
	}
	num, _, ok := strings.Cut(rest, "]")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	return n, err == nil && n >= 0
}

// reference resolves the right-hand side of a declaration or an inline
// operand without its swizzle.
func (p *fpParser) reference(s string) (binding, error) {
	switch {
	case strings.HasPrefix(s, "{"):
		body, ok := strings.CutSuffix(strings.TrimPrefix(s, "{"), "}")
		if !ok {
			return binding{}, errors.New("unterminated constant")
		}
		v := [4]float32{0, 0, 0, 1}
		for i, f := range strings.Split(body, ",") {
			if i == 4 {
				return binding{}, errors.New("constant has more than four components")
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
			if err != nil {
				return binding{}, err
			}
			v[i] = float32(x)
		}
		p.code.consts = append(p.code.consts, v)
		return binding{fileConst, len(p.code.consts) - 1}, nil
	case s == "fragment.color" || s == "fragment.color.primary":
		return binding{file: fileColor}, nil
	case s == "result.color":
		return binding{file: fileOutput}, nil
	}
	if n, ok := bracketIndex(s, "fragment.texcoord["); ok && n < p.units {
		return binding{fileTexcoord, n}, nil
	}
	if n, ok := bracketIndex(s, "program.local["); ok && n < maxLocals {
		return binding{fileLocal, n}, nil
	}
	if b, ok := p.names[s]; ok {
		return b, nil
	}
	return binding{}, fmt.Errorf("unknown name %s", s)
}

// splitSuffix separates a trailing swizzle or write mask from a name.
func splitSuffix(s string) (name, suffix string) {
	if strings.HasSuffix(s, "}") {
		return s, ""
	}
	i := strings.LastIndexByte(s, '.')
	if i < 0 || strings.ContainsAny(s[i+1:], "[]") {
		return s, ""
	}
	suffix = s[i+1:]
	for _, r := range suffix {
		if !strings.ContainsRune("xyzwrgba", r) {
			return s, ""
		}
	}
	return s[:i], suffix
}

func component(r rune) uint8 {
	switch r {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	default:
		return 3
	}
}

func (p *fpParser) operand(s string) (operand, error) {
	var op operand
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		op.negate = true
		s = strings.TrimSpace(rest)
	}
	name, suffix := splitSuffix(s)
	b, err := p.reference(name)
	if err != nil {
		return op, err
	}
	op.binding = b
	op.swizzle = [4]uint8{0, 1, 2, 3}
	switch len(suffix) {
	case 0:
	case 1:
		c := component(rune(suffix[0]))
		op.swizzle = [4]uint8{c, c, c, c}
	case 4:
		for i, r := range suffix {
			op.swizzle[i] = component(r)
		}
	default:
		return op, fmt.Errorf("bad swizzle %s", suffix)
	}
	return op, nil
}

func (p *fpParser) dest(s string) (dest, error) {
	var d dest
	name, suffix := splitSuffix(s)
	b, err := p.reference(name)
	if err != nil {
		return d, err
	}
	if b.file != fileTemp && b.file != fileOutput {
		return d, fmt.Errorf("%s is not writable", name)
	}
	d.binding = b
	if suffix == "" {
		d.mask = [4]bool{true, true, true, true}
		return d, nil
	}
	for _, r := range suffix {
		d.mask[component(r)] = true
	}
	return d, nil
}

func validateVertexProgram(src string) error {
	text := strings.TrimSpace(src)
	if !strings.HasPrefix(text, "!!ARBvp1.0") || !strings.HasSuffix(text, "END") {
		return fmt.Errorf("%w: missing header or END", errSyntax)
	}
	return nil
}

func validateSPIRV(code []byte, f gl.Features) error {
	if !f.Has(gl.FeatureSPIRV) {
		return gl.ErrUnsupported
	}
	if len(code) < 20 || len(code)%4 != 0 || binary.LittleEndian.Uint32(code) != 0x07230203 {
		return errSPIRV
	}
	return nil
}

// programShader interprets a parsed fragment program.
type programShader struct {
	ctx  *Context
	prog *program
}

func (s *programShader) read(op *operand, f *fragmentInput, temps *[maxTemps][4]float32, out *[4]float32) [4]float32 {
	var v [4]float32
	switch op.file {
	case fileTemp:
		v = temps[op.index]
	case fileTexcoord:
		v = f.tex[op.index]
	case fileColor:
		v = f.color
	case fileLocal:
		v = s.prog.locals[op.index]
	case fileConst:
		v = s.prog.code.consts[op.index]
	case fileOutput:
		v = *out
	}
	r := [4]float32{v[op.swizzle[0]], v[op.swizzle[1]], v[op.swizzle[2]], v[op.swizzle[3]]}
	if op.negate {
		for i := range r {
			r[i] = -r[i]
		}
	}
	return r
}

func (s *programShader) sample(in *instr, coord [4]float32) [4]float32 {
	u := &s.ctx.units[in.unit]
	tex := s.ctx.share.textures[u.bound[in.target]]
	if tex == nil || tex.target != in.target {
		return [4]float32{}
	}
	if in.op == opTXP && coord[3] != 0 {
		coord[0] /= coord[3]
		coord[1] /= coord[3]
	}
	return tex.sample(coord[0], coord[1])
}

func (s *programShader) shade(f *fragmentInput) ([4]float32, bool) {
	var temps [maxTemps][4]float32
	var out [4]float32
	for i := range s.prog.code.instrs {
		in := &s.prog.code.instrs[i]
		var a, b, c [4]float32
		a = s.read(&in.src[0], f, &temps, &out)
		switch in.op {
		case opADD, opDP3, opDP4, opMAX, opMIN, opMUL, opSGE, opSLT, opSUB:
			b = s.read(&in.src[1], f, &temps, &out)
		case opCMP, opLRP, opMAD:
			b = s.read(&in.src[1], f, &temps, &out)
			c = s.read(&in.src[2], f, &temps, &out)
		}

		var r [4]float32
		switch in.op {
		case opKIL:
			for _, x := range a {
				if x < 0 {
					return out, false
				}
			}
			continue
		case opTEX, opTXP:
			r = s.sample(in, a)
		case opDP3:
			r = splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2])
		case opDP4:
			r = splat(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3])
		case opRCP:
			r = splat(1 / a[0])
		case opRSQ:
			r = splat(1 / math32.Sqrt(math32.Abs(a[0])))
		default:
			for k := range r {
				r[k] = scalarOp(in.op, a[k], b[k], c[k])
			}
		}
		if in.sat {
			for k := range r {
				r[k] = min(max(r[k], 0), 1)
			}
		}
		dst := &out
		if in.dst.file == fileTemp {
			dst = &temps[in.dst.index]
		}
		for k := range r {
			if in.dst.mask[k] {
				dst[k] = r[k]
			}
		}
	}
	return out, true
}

func splat(v float32) [4]float32 {
	return [4]float32{v, v, v, v}
}

func scalarOp(op opcode, a, b, c float32) float32 {
	switch op {
	case opABS:
		return math32.Abs(a)
	case opADD:
		return a + b
	case opCMP:
		if a < 0 {
			return b
		}
		return c
	case opFLR:
		return math32.Floor(a)
	case opFRC:
		return a - math32.Floor(a)
	case opLRP:
		return a*b + (1-a)*c
	case opMAD:
		return a*b + c
	case opMAX:
		return max(a, b)
	case opMIN:
		return min(a, b)
	case opMUL:
		return a * b
	case opSGE:
		if a >= b {
			return 1
		}
		return 0
	case opSLT:
		if a < b {
			return 1
		}
		return 0
	case opSUB:
		return a - b
	default:
		return a
	}
}
