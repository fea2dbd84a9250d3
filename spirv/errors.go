package spirv

import (
	"errors"
	"fmt"
)

// ErrUnknownComponent is wrapped in an IOError when Build meets a Component
// implementation it does not know how to handle.
var ErrUnknownComponent = errors.New("unknown component type")

// BuildError is implemented by every error the build pipeline returns:
// *CompileError, *LinkError and *IOError. Use errors.As to tell them apart.
type BuildError interface {
	error
	buildError()
}

// CompileError reports that the compiler rejected a shader source.
type CompileError struct {
	// Message holds the captured compiler stdout and stderr.
	Message string
	// Path is the shader source that failed to compile.
	Path string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: SPIR-V compile failure: %s", e.Path, e.Message)
}

// LinkError reports that the linker rejected its inputs.
type LinkError struct {
	// Message holds the captured linker stdout and stderr.
	Message string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("SPIR-V link failure: %s", e.Message)
}

// IOError wraps a failure outside of the tools themselves, such as a tool
// that cannot be started or a linked output that cannot be read.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("SPIR-V build I/O failure: %v", e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (*CompileError) buildError() {}
func (*LinkError) buildError()    {}
func (*IOError) buildError()      {}
