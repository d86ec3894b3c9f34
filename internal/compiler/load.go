package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/ian97531/origin/internal/ir"
)

// LoadFiles compiles each CUE file on its own and returns the class
// declarations of all of them, file by file in the order given.
//
// Files cannot reference each other; use a CUE package directory (see the
// cli loader) when declarations share definitions.
func LoadFiles(paths ...string) ([]ir.ClassSpec, error) {
	ctx := cuecontext.New()
	var specs []ir.ClassSpec
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read spec file: %w", err)
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		fileSpecs, err := CompileAll(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		specs = append(specs, fileSpecs...)
	}
	return specs, nil
}
