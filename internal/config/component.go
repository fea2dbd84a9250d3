package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/spirvbuild/spirv"
)

// Language identifies what a manifest component entry points at.
type Language string

const (
	LanguageGLSL   Language = "glsl"
	LanguageHLSL   Language = "hlsl"
	LanguageBinary Language = "binary"
)

// ComponentSpec is a manifest component entry after format-specific
// decoding and before validation.
type ComponentSpec struct {
	Language   Language
	Path       string
	Stage      string
	EntryPoint string
}

// Resolve validates the entry and turns it into a spirv.Component. Relative
// paths are resolved against baseDir.
func (s ComponentSpec) Resolve(baseDir string) (spirv.Component, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("%s component has no path", s.Language)
	}
	path := s.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if s.Language == LanguageBinary {
		if s.Stage != "" || s.EntryPoint != "" {
			return nil, fmt.Errorf("binary component %s: stage and entry_point only apply to sources", s.Path)
		}
		return spirv.Binary{Path: path}, nil
	}

	if s.EntryPoint == "" {
		return nil, fmt.Errorf("%s component %s: entry_point is required", s.Language, s.Path)
	}
	stage, err := s.stage()
	if err != nil {
		return nil, fmt.Errorf("%s component %s: %w", s.Language, s.Path, err)
	}

	switch s.Language {
	case LanguageGLSL:
		return spirv.GLSLSource{Path: path, Stage: stage, OutputEntryPoint: s.EntryPoint}, nil
	case LanguageHLSL:
		return spirv.HLSLSource{Path: path, Stage: stage, EntryPoint: s.EntryPoint}, nil
	default:
		return nil, fmt.Errorf("unknown component language %q", s.Language)
	}
}

func (s ComponentSpec) stage() (spirv.Stage, error) {
	if s.Stage != "" {
		return spirv.ParseStage(s.Stage)
	}
	// GLSL files conventionally carry the stage in their extension. HLSL
	// files usually hold several stages, so they must say which one.
	if s.Language == LanguageGLSL {
		if stage, ok := spirv.StageFromPath(s.Path); ok {
			return stage, nil
		}
	}
	return 0, errors.New("stage is required")
}
