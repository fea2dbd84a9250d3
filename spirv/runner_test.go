package spirv

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("captures both streams of a failing tool", func(t *testing.T) {
		out, err := ExecRunner{}.Run(context.Background(), []string{"sh", "-c", "echo to-out; echo to-err >&2; exit 3"})
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "to-out\n", string(out.Stdout))
		assert.Equal(t, "to-err\n", string(out.Stderr))
	})

	t.Run("success", func(t *testing.T) {
		out, err := ExecRunner{}.Run(context.Background(), []string{"sh", "-c", "exit 0"})
		require.NoError(t, err)
		assert.True(t, out.Success)
	})
}

func TestExecRunnerStartFailure(t *testing.T) {
	t.Parallel()

	_, err := ExecRunner{}.Run(context.Background(), []string{"spirvbuild-no-such-tool-7f3a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))

	_, err = ExecRunner{}.Run(context.Background(), nil)
	assert.ErrorContains(t, err, "empty command line")
}

func TestToolchainMissingCompilerIsIOError(t *testing.T) {
	t.Parallel()

	tc := NewToolchain()
	tc.Compiler = []string{"spirvbuild-no-such-compiler-7f3a"}
	tc.TempDir = t.TempDir()

	_, err := tc.Build(context.Background(), []Component{
		GLSLSource{Path: "a.vert", Stage: Vertex, OutputEntryPoint: "vmain"},
	})

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "SPIR-V build I/O failure")
}
