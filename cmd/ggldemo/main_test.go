package main

import (
	"errors"
	"testing"

	"github.com/gogpu/ggl/gl"
	"github.com/gogpu/ggl/gl/glsoft"
)

func TestRender(t *testing.T) {
	for _, backend := range []string{glsoft.BackendName, ""} {
		img, err := render(backend, 48, 32, false)
		if err != nil {
			t.Fatalf("render(%q): %v", backend, err)
		}
		if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
			t.Errorf("render(%q) bounds = %v", backend, b)
		}
		if a := img.Pix[3]; a != 255 {
			t.Errorf("render(%q) corner alpha = %d, want an opaque background", backend, a)
		}
	}
}

func TestRenderUnknownBackend(t *testing.T) {
	_, err := render("missing", 8, 8, false)
	var nf *gl.BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("render error = %v, want BackendNotFoundError", err)
	}
}
