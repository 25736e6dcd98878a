// Package shadeflow provides the node catalog for building fragment shader
// dataflow graphs compiled by the glslgen package: source inputs, constants,
// arithmetic and vector operators, user parameters and the single output
// sink. Node variants are created through a [Builder] and inserted into a
// [glslgen.Graph] by the host.
package shadeflow

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Builder creates node variants and validates their configuration.
// Provides error handling strategies with panics or error accumulation
// during node creation.
type Builder struct {
	// NoConfigPanic accumulates configuration errors for retrieval with Err
	// instead of panicking on them.
	NoConfigPanic bool
	accumErrs     []error
}

func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) cfgErrorf(msg string, args ...any) {
	if !bld.NoConfigPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}

// validIdent reports whether s is usable as a GLSL identifier.
func validIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
