// This file translates the decoded HCL blocks into the format-agnostic
// configuration model.

package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
)

func translateToolchain(b *ToolchainBlock) config.Toolchain {
	return config.Toolchain{
		TargetEnv: b.TargetEnv,
		Compiler:  b.Compiler,
		Linker:    b.Linker,
	}
}

// translateModule converts a module block, reading its component blocks in
// the order they appear in the file.
func (l *Loader) translateModule(ctx context.Context, b *ModuleBlock, evalCtx *hcl.EvalContext, baseDir string) (*config.Module, error) {
	logger := ctxlog.FromContext(ctx).With("module", b.Name)
	logger.Debug("Translating HCL module to internal config model.")

	if b.Output == "" {
		return nil, fmt.Errorf("module %q: output must not be empty", b.Name)
	}
	output := b.Output
	if !filepath.IsAbs(output) {
		output = filepath.Join(baseDir, output)
	}

	content, diags := b.Remain.Content(componentSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("module %q: %w", b.Name, diags)
	}

	mod := &config.Module{Name: b.Name, Output: output}
	for _, block := range content.Blocks {
		spec, err := decodeComponent(block, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", b.Name, err)
		}
		component, err := spec.Resolve(baseDir)
		if err != nil {
			return nil, fmt.Errorf("module %q: %s: %w", b.Name, block.DefRange, err)
		}
		mod.Components = append(mod.Components, component)
	}

	logger.Debug("HCL module translated.", "components", len(mod.Components), "output", output)
	return mod, nil
}

func decodeComponent(block *hcl.Block, evalCtx *hcl.EvalContext) (config.ComponentSpec, error) {
	spec := config.ComponentSpec{
		Language: config.Language(block.Type),
		Path:     block.Labels[0],
	}

	if spec.Language == config.LanguageBinary {
		var body BinaryBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
			return spec, diags
		}
		return spec, nil
	}

	var body SourceBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return spec, diags
	}
	spec.Stage = body.Stage
	spec.EntryPoint = body.EntryPoint
	return spec, nil
}
