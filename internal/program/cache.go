package program

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/ggl/gl"
)

// ErrFailed is returned for keys whose compilation failed earlier.
var ErrFailed = errors.New("program: compilation failed")

// entry is a cached program. A zero name marks a failed key.
type entry struct {
	name uint32
	err  error
}

// Cache memoizes compiled programs for one context share group.
//
// Compilation failures are cached too: once a key fails it is never
// compiled again, and callers fall back to paths without programs.
// Cache is not safe for concurrent use.
type Cache struct {
	lang    gl.ShaderLanguage
	entries map[Key]entry
	vertex  entry
	hasVP   bool
}

// NewCache creates an empty cache emitting programs in lang.
func NewCache(lang gl.ShaderLanguage) *Cache {
	return &Cache{
		lang:    lang,
		entries: make(map[Key]entry),
	}
}

// Language returns the program encoding of the cache.
func (c *Cache) Language() gl.ShaderLanguage {
	return c.lang
}

// Len returns the number of cached keys, including failed ones.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Fragment returns the fragment program for key, compiling it on first
// use. It returns 0 and an error when the key cannot be compiled.
func (c *Cache) Fragment(fn gl.Functions, key Key) (uint32, error) {
	if e, ok := c.entries[key]; ok {
		return e.name, e.err
	}

	var src []byte
	var err error
	if c.lang == gl.LanguageSPIRV {
		src, err = CompileWGSL(FragmentWGSL(key))
	} else {
		src = []byte(FragmentARB(key))
	}

	var name uint32
	if err == nil {
		name, err = load(fn, gl.ProgramFragment, c.lang, src)
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrFailed, key, err)
		slogger().Warn("fragment program rejected", "key", key.String(), "err", err)
	} else {
		slogger().Debug("fragment program compiled", "key", key.String(), "name", name)
	}
	c.entries[key] = entry{name: name, err: err}
	return name, err
}

// Vertex returns the pass-through vertex program. SPIR-V modules carry
// their own vertex stage, so it returns 0 and no error for them.
func (c *Cache) Vertex(fn gl.Functions) (uint32, error) {
	if c.lang == gl.LanguageSPIRV {
		return 0, nil
	}
	if !c.hasVP {
		name, err := load(fn, gl.ProgramVertex, gl.LanguageARB, []byte(VertexARB))
		if err != nil {
			err = fmt.Errorf("%w: vertex: %w", ErrFailed, err)
			slogger().Warn("vertex program rejected", "err", err)
		}
		c.vertex = entry{name: name, err: err}
		c.hasVP = true
	}
	return c.vertex.name, c.vertex.err
}

func load(fn gl.Functions, target gl.ProgramTarget, lang gl.ShaderLanguage, src []byte) (uint32, error) {
	name := fn.GenProgram()
	fn.BindProgram(target, name)
	err := fn.ProgramSource(target, lang, src)
	fn.BindProgram(target, 0)
	if err != nil {
		fn.DeleteProgram(name)
		return 0, err
	}
	return name, nil
}

// Release deletes every compiled program. The cache is empty afterwards.
func (c *Cache) Release(fn gl.Functions) {
	n := 0
	for k, e := range c.entries {
		if e.name != 0 {
			fn.DeleteProgram(e.name)
			n++
		}
		delete(c.entries, k)
	}
	if c.vertex.name != 0 {
		fn.DeleteProgram(c.vertex.name)
		n++
	}
	c.vertex = entry{}
	c.hasVP = false
	slogger().Debug("program cache released", slog.Int("programs", n))
}
