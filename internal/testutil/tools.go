package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/specialistvlad/spirvbuild/spirv"
)

// FakeTools is a spirv.Runner that stands in for glslangValidator and
// spirv-link. The compiler writes "spv(<source path>)" to its -o path; the
// linker writes the contents of its inputs joined by newlines, so the linked
// bytes reveal the link order. Every invocation is recorded.
type FakeTools struct {
	// Fail makes a run exit with a failure status when it returns true.
	Fail func(argv []string) bool
	// StartErr, when set, is returned as if the tool could not be started.
	StartErr error
	// WriteOnFail makes a failing run leave partial output at its -o path.
	WriteOnFail bool
	// SkipLinkOutput makes a successful link leave no output file behind.
	SkipLinkOutput bool

	mu          sync.Mutex
	invocations [][]string
	outputs     []string
}

// Run implements spirv.Runner.
func (f *FakeTools) Run(_ context.Context, argv []string) (*spirv.Output, error) {
	f.mu.Lock()
	f.invocations = append(f.invocations, slices.Clone(argv))
	out := outputPath(argv)
	if out != "" {
		f.outputs = append(f.outputs, out)
	}
	f.mu.Unlock()

	if f.StartErr != nil {
		return nil, f.StartErr
	}
	if f.Fail != nil && f.Fail(argv) {
		if f.WriteOnFail && out != "" {
			if err := os.WriteFile(out, []byte("partial"), 0o600); err != nil {
				return nil, err
			}
		}
		return &spirv.Output{
			Stdout:  []byte("fake stdout"),
			Stderr:  []byte("fake stderr"),
			Success: false,
		}, nil
	}

	if IsLink(argv) {
		return f.link(argv, out)
	}
	source := argv[len(argv)-1]
	if err := os.WriteFile(out, []byte(fmt.Sprintf("spv(%s)", source)), 0o600); err != nil {
		return nil, err
	}
	return &spirv.Output{Success: true}, nil
}

func (f *FakeTools) link(argv []string, out string) (*spirv.Output, error) {
	var parts [][]byte
	for _, in := range LinkInputs(argv) {
		data, err := os.ReadFile(in)
		if err != nil {
			return &spirv.Output{Stderr: []byte(err.Error())}, nil
		}
		parts = append(parts, data)
	}
	if f.SkipLinkOutput {
		return &spirv.Output{Success: true}, nil
	}
	if err := os.WriteFile(out, bytes.Join(parts, []byte("\n")), 0o600); err != nil {
		return nil, err
	}
	return &spirv.Output{Success: true}, nil
}

// Invocations returns a copy of every argv seen so far.
func (f *FakeTools) Invocations() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.invocations)
}

// CompileCalls returns the recorded compiler invocations.
func (f *FakeTools) CompileCalls() [][]string {
	var calls [][]string
	for _, argv := range f.Invocations() {
		if !IsLink(argv) {
			calls = append(calls, argv)
		}
	}
	return calls
}

// LinkCalls returns the recorded linker invocations.
func (f *FakeTools) LinkCalls() [][]string {
	var calls [][]string
	for _, argv := range f.Invocations() {
		if IsLink(argv) {
			calls = append(calls, argv)
		}
	}
	return calls
}

// OutputPaths returns every -o path handed to a tool.
func (f *FakeTools) OutputPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.outputs)
}

// IsLink reports whether argv is a linker invocation.
func IsLink(argv []string) bool {
	return slices.Contains(argv, "--verify-ids")
}

// LinkInputs returns the binaries a linker invocation links, in order.
func LinkInputs(argv []string) []string {
	i := slices.Index(argv, "-o")
	if i < 0 || i+2 > len(argv) {
		return nil
	}
	return argv[i+2:]
}

func outputPath(argv []string) string {
	i := slices.Index(argv, "-o")
	if i < 0 || i+1 >= len(argv) {
		return ""
	}
	return argv[i+1]
}
