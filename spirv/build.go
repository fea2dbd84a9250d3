package spirv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
)

// Build compiles every source component, links the results with the
// precompiled binaries and returns the linked module.
//
// Sources are compiled one at a time in the order given and the first
// failure aborts the build. The linker receives the compiled sources first,
// in order, followed by the binaries in the order they were listed. All
// intermediate files are removed before Build returns.
func (t *Toolchain) Build(ctx context.Context, components []Component) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	var temps []*TempPath
	defer func() {
		for _, temp := range temps {
			temp.Release()
		}
	}()

	var compiled, binaries []string
	for _, c := range components {
		switch c := c.(type) {
		case Binary:
			binaries = append(binaries, c.Path)
		case Source:
			temp := t.allocate(ctx, c.ComponentPath())
			temps = append(temps, temp)
			if err := t.Compile(ctx, c.ComponentPath(), c.Kind(), c.SourceStage(), temp.Path()); err != nil {
				return nil, err
			}
			compiled = append(compiled, temp.Path())
		default:
			return nil, &IOError{Err: fmt.Errorf("%w: %T", ErrUnknownComponent, c)}
		}
	}

	linked := NewTempPath(t.TempDir, "linked")
	temps = append(temps, linked)
	if err := t.Link(ctx, append(compiled, binaries...), linked.Path()); err != nil {
		return nil, err
	}

	module, err := os.ReadFile(linked.Path())
	if err != nil {
		return nil, &IOError{Err: err}
	}
	logger.Debug("SPIR-V module linked.", "compiled", len(compiled), "binaries", len(binaries), "size", len(module))
	return module, nil
}

// allocate names the temporary output after the source file so leftover
// files and tool messages can be traced back to it.
func (t *Toolchain) allocate(ctx context.Context, sourcePath string) *TempPath {
	prefix := filepath.Base(sourcePath)
	switch prefix {
	case ".", "..", string(filepath.Separator):
		prefix = "shader"
	}
	temp := NewTempPath(t.TempDir, prefix)
	ctxlog.FromContext(ctx).Debug("Allocated temporary output.", "source", sourcePath, "path", temp.Path())
	return temp
}
