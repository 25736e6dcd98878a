//go:build tinygo || !cgo

package shadeflowaux

import (
	"errors"

	"github.com/shadeflow/shadeflow/glslgen"
)

func ui(g *glslgen.Graph, cfg UIConfig) error {
	return errors.New("require cgo for preview rendering")
}
