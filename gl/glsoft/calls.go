// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glsoft

import "github.com/gogpu/ggl/gl"

// Call is one recorded entry point invocation.
type Call struct {
	Name string
	Args []any
}

func (c *Context) record(name string, args ...any) {
	c.calls = append(c.calls, Call{Name: name, Args: args})
}

// Calls returns the recorded calls since the last ResetCalls.
func (c *Context) Calls() []Call {
	return c.calls
}

// ResetCalls clears the call log.
func (c *Context) ResetCalls() {
	c.calls = c.calls[:0]
}

// Count returns how many recorded calls have the given name.
func (c *Context) Count(name string) int {
	n := 0
	for _, call := range c.calls {
		if call.Name == name {
			n++
		}
	}
	return n
}

// ProgramText returns the source last loaded into the named program.
func (c *Context) ProgramText(name uint32) (gl.ShaderLanguage, []byte, bool) {
	p, ok := c.share.programs[name]
	if !ok {
		return 0, nil, false
	}
	return p.lang, p.source, true
}

// Textures returns the number of live texture objects, including
// drawable color buffers.
func (c *Context) Textures() int {
	return len(c.share.textures)
}

// Framebuffers returns the number of live framebuffer objects.
func (c *Context) Framebuffers() int {
	return len(c.share.framebuffers)
}
