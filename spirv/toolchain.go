package spirv

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
)

const (
	// DefaultTargetEnv is the Vulkan target both tools validate against.
	DefaultTargetEnv = "vulkan1.3"
	// DefaultCompiler is the reference GLSL/HLSL front end of the Vulkan SDK.
	DefaultCompiler = "glslangValidator"
	// DefaultLinker is the SPIR-V linker of the Vulkan SDK.
	DefaultLinker = "spirv-link"
)

// Toolchain holds the external tools and settings a build uses. The zero
// value is not usable; start from NewToolchain. A Toolchain must not be
// modified once builds are running on it.
type Toolchain struct {
	// Compiler is the compiler command line prefix, e.g. {"glslangValidator"}
	// or {"wine", "glslangValidator.exe"}.
	Compiler []string
	// Linker is the linker command line prefix.
	Linker []string
	// TargetEnv is passed to both tools as --target-env.
	TargetEnv string
	// TempDir holds intermediate artifacts. Empty means os.TempDir().
	TempDir string
	// Runner executes the tools.
	Runner Runner
}

// NewToolchain returns a Toolchain using the Vulkan SDK tools from PATH.
func NewToolchain() *Toolchain {
	return &Toolchain{
		Compiler:  []string{DefaultCompiler},
		Linker:    []string{DefaultLinker},
		TargetEnv: DefaultTargetEnv,
		Runner:    ExecRunner{},
	}
}

var defaultToolchain = NewToolchain()

// WithLogger returns a copy of ctx that makes Build, Compile and Link log to
// logger. Without it they log through slog.Default(). All output is at Debug.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, logger)
}

// Build compiles and links components with the default toolchain.
// See (*Toolchain).Build.
func Build(ctx context.Context, components []Component) ([]byte, error) {
	return defaultToolchain.Build(ctx, components)
}

// Compile compiles the shader at sourcePath into a SPIR-V binary at
// outputPath, overwriting it.
func (t *Toolchain) Compile(ctx context.Context, sourcePath string, kind SourceKind, stage Stage, outputPath string) error {
	argv := append([]string{}, t.Compiler...)
	argv = append(argv,
		"--quiet",
		"--target-env", t.TargetEnv,
		"-S", stage.Token(),
		"-o", outputPath,
	)
	switch k := kind.(type) {
	case GLSL:
		argv = append(argv,
			"--enhanced-msgs",
			"--source-entrypoint", "main",
			"--entry-point", k.OutputEntryPoint,
		)
	case HLSL:
		// -D selects HLSL input.
		argv = append(argv, "-D", "--entry-point", k.EntryPoint)
	default:
		return &IOError{Err: fmt.Errorf("unsupported source kind %T", kind)}
	}
	argv = append(argv, sourcePath)

	out, err := t.run(ctx, argv)
	if err != nil {
		return &IOError{Err: err}
	}
	if !out.Success {
		return &CompileError{Message: describe(argv[0], out), Path: sourcePath}
	}
	return nil
}

// Link links the SPIR-V binaries at binaryPaths into outputPath, overwriting
// it. The order of binaryPaths is passed through to the linker unchanged.
func (t *Toolchain) Link(ctx context.Context, binaryPaths []string, outputPath string) error {
	argv := append([]string{}, t.Linker...)
	argv = append(argv,
		"--verify-ids",
		"--target-env", t.TargetEnv,
		"-o", outputPath,
	)
	argv = append(argv, binaryPaths...)

	out, err := t.run(ctx, argv)
	if err != nil {
		return &IOError{Err: err}
	}
	if !out.Success {
		return &LinkError{Message: describe(argv[0], out)}
	}
	return nil
}

func (t *Toolchain) run(ctx context.Context, argv []string) (*Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running shader tool.", "argv", argv)

	runner := t.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	out, err := runner.Run(ctx, argv)
	if err != nil {
		logger.Debug("Shader tool could not be run.", "tool", argv[0], "error", err)
		return nil, err
	}
	logger.Debug("Shader tool finished.", "tool", argv[0], "success", out.Success)
	return out, nil
}

// describe renders both captured streams of a failed tool run. Invalid UTF-8
// in the streams is replaced with U+FFFD.
func describe(tool string, out *Output) string {
	name := filepath.Base(tool)
	var b strings.Builder
	fmt.Fprintf(&b, "[%s stdout]: %s\n", name, lossy(out.Stdout))
	fmt.Fprintf(&b, "[%s stderr]: %s", name, lossy(out.Stderr))
	return b.String()
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
