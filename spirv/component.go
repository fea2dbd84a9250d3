package spirv

// SourceKind carries the language-specific parameters needed to compile a
// shader source. It is implemented by GLSL and HLSL only; a precompiled
// binary has no source kind.
type SourceKind interface {
	sourceKind()
}

// GLSL describes a GLSL source.
type GLSL struct {
	// OutputEntryPoint is the name the compiled entry point gets in the
	// output binary. GLSL requires the entry point to be called "main",
	// which collides as soon as two GLSL shaders are linked together, so
	// the compiler renames "main" to OutputEntryPoint.
	OutputEntryPoint string
}

// HLSL describes an HLSL source.
type HLSL struct {
	// EntryPoint names the function to compile. A single HLSL file may hold
	// several entry points.
	EntryPoint string
}

func (GLSL) sourceKind() {}
func (HLSL) sourceKind() {}

// Component is one input of a linked module: a precompiled Binary, a
// GLSLSource or an HLSLSource.
type Component interface {
	// ComponentPath returns the filesystem path of the input.
	ComponentPath() string
	component()
}

// Source is a Component that has to be compiled before linking.
type Source interface {
	Component
	SourceStage() Stage
	Kind() SourceKind
}

// Binary is a precompiled SPIR-V binary.
type Binary struct {
	Path string
}

// GLSLSource is a GLSL shader source file.
type GLSLSource struct {
	Path             string
	Stage            Stage
	OutputEntryPoint string
}

// HLSLSource is an HLSL shader source file. Stage is the stage of
// EntryPoint, since one file can contain shaders for several stages.
type HLSLSource struct {
	Path       string
	Stage      Stage
	EntryPoint string
}

func (b Binary) ComponentPath() string     { return b.Path }
func (g GLSLSource) ComponentPath() string { return g.Path }
func (h HLSLSource) ComponentPath() string { return h.Path }

func (Binary) component()     {}
func (GLSLSource) component() {}
func (HLSLSource) component() {}

func (g GLSLSource) SourceStage() Stage { return g.Stage }
func (h HLSLSource) SourceStage() Stage { return h.Stage }

func (g GLSLSource) Kind() SourceKind { return GLSL{OutputEntryPoint: g.OutputEntryPoint} }
func (h HLSLSource) Kind() SourceKind { return HLSL{EntryPoint: h.EntryPoint} }
