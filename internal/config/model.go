package config

import (
	"fmt"

	"github.com/specialistvlad/spirvbuild/spirv"
)

// Model is the unified representation of every loaded manifest.
type Model struct {
	Toolchain Toolchain
	Modules   []*Module
	// Files lists the manifest files the model was loaded from.
	Files []string
}

// Toolchain holds the tool settings a manifest may pin. Empty fields mean
// "use the default".
type Toolchain struct {
	TargetEnv string
	// Compiler and Linker are command lines, split with shell quoting rules.
	Compiler string
	Linker   string
}

// Module is one linked SPIR-V output.
type Module struct {
	Name string
	// Output is the path the linked module is written to.
	Output     string
	Components []spirv.Component
	// File is the manifest that declared the module.
	File string
}

// Inputs returns the path of every component of the module.
func (m *Module) Inputs() []string {
	paths := make([]string, 0, len(m.Components))
	for _, c := range m.Components {
		paths = append(paths, c.ComponentPath())
	}
	return paths
}

// Module returns the module with the given name.
func (m *Model) Module(name string) (*Module, bool) {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod, true
		}
	}
	return nil, false
}

// Merge folds other into m. Modules are appended in order; a module name
// declared twice is an error. Toolchain settings set by both models must
// agree.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	for _, mod := range other.Modules {
		if prev, ok := m.Module(mod.Name); ok {
			return fmt.Errorf("module %q declared in both %s and %s", mod.Name, prev.File, mod.File)
		}
		m.Modules = append(m.Modules, mod)
	}

	settings := []struct {
		name     string
		dst, src *string
	}{
		{"target_env", &m.Toolchain.TargetEnv, &other.Toolchain.TargetEnv},
		{"compiler", &m.Toolchain.Compiler, &other.Toolchain.Compiler},
		{"linker", &m.Toolchain.Linker, &other.Toolchain.Linker},
	}
	for _, s := range settings {
		if *s.src == "" {
			continue
		}
		if *s.dst != "" && *s.dst != *s.src {
			return fmt.Errorf("conflicting toolchain %s: %q and %q", s.name, *s.dst, *s.src)
		}
		*s.dst = *s.src
	}

	m.Files = append(m.Files, other.Files...)
	return nil
}
