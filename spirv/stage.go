package spirv

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage is the pipeline phase a shader targets.
//
// wgpu has no geometry or tessellation support; those stages are listed so
// the enum matches the stages glslangValidator accepts.
type Stage int

const (
	Vertex Stage = iota
	Fragment
	TesselationControl
	TesselationEvaluation
	Geometry
	Compute
)

var stageTokens = [...]string{
	Vertex:                "vert",
	Fragment:              "frag",
	TesselationControl:    "tesc",
	TesselationEvaluation: "tese",
	Geometry:              "geom",
	Compute:               "comp",
}

var stageNames = [...]string{
	Vertex:                "vertex",
	Fragment:              "fragment",
	TesselationControl:    "tesselation_control",
	TesselationEvaluation: "tesselation_evaluation",
	Geometry:              "geometry",
	Compute:               "compute",
}

// Token returns the short stage identifier understood by glslangValidator's
// -S flag. It returns "" for values outside the enum.
func (s Stage) Token() string {
	if s < 0 || int(s) >= len(stageTokens) {
		return ""
	}
	return stageTokens[s]
}

// String returns the stage's readable name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage resolves a stage from its name ("vertex") or token ("vert"),
// ignoring case. Hyphens and spaces are treated as underscores.
func ParseStage(name string) (Stage, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for i := range stageNames {
		if normalized == stageNames[i] || normalized == stageTokens[i] {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q", name)
}

// StageFromPath infers a stage from the glslang file extension convention,
// e.g. "light.frag" is a Fragment shader. The boolean is false when the
// extension names no stage.
func StageFromPath(path string) (Stage, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return 0, false
	}
	for i, token := range stageTokens {
		if ext == token {
			return Stage(i), true
		}
	}
	return 0, false
}
