package docconfig

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/spirvbuild/internal/config"
)

type document struct {
	Toolchain *toolchain `toml:"toolchain" yaml:"toolchain"`
	Modules   []module   `toml:"module" yaml:"module"`
}

type toolchain struct {
	TargetEnv string `toml:"target_env" yaml:"target_env"`
	Compiler  string `toml:"compiler" yaml:"compiler"`
	Linker    string `toml:"linker" yaml:"linker"`
}

type module struct {
	Name       string      `toml:"name" yaml:"name"`
	Output     string      `toml:"output" yaml:"output"`
	Components []component `toml:"component" yaml:"component"`
}

type component struct {
	GLSL       string `toml:"glsl" yaml:"glsl"`
	HLSL       string `toml:"hlsl" yaml:"hlsl"`
	Binary     string `toml:"binary" yaml:"binary"`
	Stage      string `toml:"stage" yaml:"stage"`
	EntryPoint string `toml:"entry_point" yaml:"entry_point"`
}

func (c component) spec() (config.ComponentSpec, error) {
	var specs []config.ComponentSpec
	for _, candidate := range []struct {
		lang config.Language
		path string
	}{
		{config.LanguageGLSL, c.GLSL},
		{config.LanguageHLSL, c.HLSL},
		{config.LanguageBinary, c.Binary},
	} {
		if candidate.path != "" {
			specs = append(specs, config.ComponentSpec{
				Language:   candidate.lang,
				Path:       candidate.path,
				Stage:      c.Stage,
				EntryPoint: c.EntryPoint,
			})
		}
	}
	if len(specs) != 1 {
		return config.ComponentSpec{}, errors.New("component must set exactly one of glsl, hlsl or binary")
	}
	return specs[0], nil
}

// translate converts a decoded document into the config model.
func (d *document) translate(path string) (*config.Model, error) {
	model := &config.Model{Files: []string{path}}
	if d.Toolchain != nil {
		model.Toolchain = config.Toolchain{
			TargetEnv: d.Toolchain.TargetEnv,
			Compiler:  d.Toolchain.Compiler,
			Linker:    d.Toolchain.Linker,
		}
	}

	baseDir := filepath.Dir(path)
	for i, m := range d.Modules {
		if m.Name == "" {
			return nil, fmt.Errorf("module #%d has no name", i+1)
		}
		if m.Output == "" {
			return nil, fmt.Errorf("module %q: output must not be empty", m.Name)
		}
		output := m.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(baseDir, output)
		}

		mod := &config.Module{Name: m.Name, Output: output, File: path}
		for j, c := range m.Components {
			spec, err := c.spec()
			if err != nil {
				return nil, fmt.Errorf("module %q, component #%d: %w", m.Name, j+1, err)
			}
			resolved, err := spec.Resolve(baseDir)
			if err != nil {
				return nil, fmt.Errorf("module %q: %w", m.Name, err)
			}
			mod.Components = append(mod.Components, resolved)
		}
		if err := model.Merge(&config.Model{Modules: []*config.Module{mod}}); err != nil {
			return nil, err
		}
	}
	return model, nil
}
