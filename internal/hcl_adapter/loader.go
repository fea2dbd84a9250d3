package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
)

// Loader is the HCL implementation of config.FileLoader.
type Loader struct {
	environ func() []string
}

// NewLoader creates a loader whose expressions see the process environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// NewLoaderWithEnv creates a loader whose expressions see only environ, given
// as "KEY=value" pairs.
func NewLoaderWithEnv(environ []string) *Loader {
	return &Loader{environ: func() []string { return environ }}
}

// LoadFile parses and decodes a single HCL manifest.
func (l *Loader) LoadFile(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("manifest", path)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Parsing HCL manifest.")

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	evalCtx := newEvalContext(l.environ())

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := &config.Model{Files: []string{path}}
	if root.Toolchain != nil {
		model.Toolchain = translateToolchain(root.Toolchain)
	}

	baseDir := filepath.Dir(path)
	for _, block := range root.Modules {
		mod, err := l.translateModule(ctx, block, evalCtx, baseDir)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		mod.File = path
		if err := model.Merge(&config.Model{Modules: []*config.Module{mod}}); err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
	}

	logger.Debug("HCL manifest decoded.", "modules", len(model.Modules))
	return model, nil
}
