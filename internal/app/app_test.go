package app_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/spirvbuild/internal/app"
	"github.com/specialistvlad/spirvbuild/internal/testutil"
	"github.com/specialistvlad/spirvbuild/spirv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoModules = `
module "sprite" {
  output = "build/sprite.spv"

  glsl "shaders/sprite.vert" {
    entry_point = "vmain"
  }
  hlsl "shaders/sprite.hlsl" {
    stage       = "fragment"
    entry_point = "fmain"
  }
}

module "noise" {
  output = "build/noise.spv"

  binary "prebuilt/noise.spv" {}
}
`

func defaultFiles() map[string]string {
	return map[string]string{
		"spirv.hcl":           twoModules,
		"shaders/sprite.vert": "void main() {}",
		"shaders/sprite.hlsl": "float4 fmain() : SV_Target { return 0; }",
		"prebuilt/noise.spv":  "NOISE",
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunBuildsAllModules(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := &testutil.FakeTools{}
	h, err := testutil.NewHarness(t, defaultFiles(), tools, nil)
	require.NoError(t, err)

	// --- Act ---
	err = h.App.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t,
		"spv("+h.Path("shaders/sprite.vert")+")\nspv("+h.Path("shaders/sprite.hlsl")+")",
		readFile(t, h.Path("build/sprite.spv")))
	assert.Equal(t, "NOISE", readFile(t, h.Path("build/noise.spv")))
	assert.Len(t, tools.CompileCalls(), 2)
	assert.Len(t, tools.LinkCalls(), 2)

	assert.Empty(t, testutil.DirEntries(t, h.Path(".tmp")), "intermediate files must be removed")
	assert.ElementsMatch(t, []string{"sprite.spv", "noise.spv"}, testutil.DirEntries(t, h.Path("build")))
	assert.Contains(t, h.Logs.String(), "Module linked.")
}

func TestRunSelectedModules(t *testing.T) {
	t.Parallel()

	t.Run("only the named module is built", func(t *testing.T) {
		tools := &testutil.FakeTools{}
		h, err := testutil.NewHarness(t, defaultFiles(), tools, func(c *app.Config) {
			c.Modules = []string{"noise"}
		})
		require.NoError(t, err)

		require.NoError(t, h.App.Run(context.Background()))
		assert.Empty(t, tools.CompileCalls())
		assert.FileExists(t, h.Path("build/noise.spv"))
		assert.NoFileExists(t, h.Path("build/sprite.spv"))
	})

	t.Run("unknown module", func(t *testing.T) {
		h, err := testutil.NewHarness(t, defaultFiles(), &testutil.FakeTools{}, func(c *app.Config) {
			c.Modules = []string{"terrain"}
		})
		require.NoError(t, err)

		err = h.App.Run(context.Background())
		assert.ErrorContains(t, err, `unknown module "terrain" (available: noise, sprite)`)
	})
}

func TestRunCompileFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := &testutil.FakeTools{
		Fail: func(argv []string) bool { return strings.HasSuffix(argv[len(argv)-1], "sprite.hlsl") },
	}
	files := defaultFiles()
	files["build/sprite.spv"] = "PREVIOUS"
	h, err := testutil.NewHarness(t, files, tools, func(c *app.Config) {
		c.Modules = []string{"sprite"}
	})
	require.NoError(t, err)

	// --- Act ---
	err = h.App.Run(context.Background())

	// --- Assert ---
	var compileErr *spirv.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, h.Path("shaders/sprite.hlsl"), compileErr.Path)
	assert.Contains(t, err.Error(), `module "sprite"`)

	assert.Empty(t, tools.LinkCalls())
	assert.Equal(t, "PREVIOUS", readFile(t, h.Path("build/sprite.spv")), "a failed build must not touch the previous output")
	assert.Equal(t, []string{"sprite.spv"}, testutil.DirEntries(t, h.Path("build")))
	assert.Empty(t, testutil.DirEntries(t, h.Path(".tmp")))
}

func TestRunToolStartFailure(t *testing.T) {
	t.Parallel()

	tools := &testutil.FakeTools{StartErr: errors.New("permission denied")}
	h, err := testutil.NewHarness(t, defaultFiles(), tools, nil)
	require.NoError(t, err)

	err = h.App.Run(context.Background())
	var ioErr *spirv.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestToolchainResolution(t *testing.T) {
	t.Parallel()

	files := defaultFiles()
	files["toolchain.toml"] = `
[toolchain]
target_env = "vulkan1.1"
compiler   = "wine 'C:/VulkanSDK/glslangValidator.exe'"
linker     = "spirv-link-custom"
`

	t.Run("manifest settings", func(t *testing.T) {
		h, err := testutil.NewHarness(t, files, &testutil.FakeTools{}, nil)
		require.NoError(t, err)

		tc := h.App.Toolchain()
		assert.Equal(t, []string{"wine", "C:/VulkanSDK/glslangValidator.exe"}, tc.Compiler)
		assert.Equal(t, []string{"spirv-link-custom"}, tc.Linker)
		assert.Equal(t, "vulkan1.1", tc.TargetEnv)
	})

	t.Run("flags win over the manifest", func(t *testing.T) {
		h, err := testutil.NewHarness(t, files, &testutil.FakeTools{}, func(c *app.Config) {
			c.Compiler = "glslangValidator"
			c.TargetEnv = "vulkan1.3"
		})
		require.NoError(t, err)

		tc := h.App.Toolchain()
		assert.Equal(t, []string{"glslangValidator"}, tc.Compiler)
		assert.Equal(t, []string{"spirv-link-custom"}, tc.Linker)
		assert.Equal(t, "vulkan1.3", tc.TargetEnv)
	})

	t.Run("defaults", func(t *testing.T) {
		h, err := testutil.NewHarness(t, defaultFiles(), &testutil.FakeTools{}, nil)
		require.NoError(t, err)

		tc := h.App.Toolchain()
		assert.Equal(t, []string{spirv.DefaultCompiler}, tc.Compiler)
		assert.Equal(t, []string{spirv.DefaultLinker}, tc.Linker)
		assert.Equal(t, spirv.DefaultTargetEnv, tc.TargetEnv)
	})
}

func TestMixedManifestFormats(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"spirv.hcl": `module "a" {
  output = "out/a.spv"
  glsl "a.frag" { entry_point = "amain" }
}`,
		"more/spirv.yaml": "module:\n  - name: b\n    output: b.spv\n    component:\n      - glsl: b.comp\n        entry_point: bmain\n",
		"a.frag":          "",
		"more/b.comp":     "",
	}
	tools := &testutil.FakeTools{}
	h, err := testutil.NewHarness(t, files, tools, nil)
	require.NoError(t, err)

	require.Len(t, h.App.Model().Modules, 2)
	require.NoError(t, h.App.Run(context.Background()))
	assert.Equal(t, "spv("+h.Path("a.frag")+")", readFile(t, h.Path("out/a.spv")))
	assert.Equal(t, "spv("+h.Path("more/b.comp")+")", readFile(t, h.Path("more/b.spv")))
}

func TestNewAppLoadFailure(t *testing.T) {
	t.Parallel()

	_, err := testutil.NewHarness(t, map[string]string{
		"spirv.hcl": `module "a" { output = "a.spv" }`,
		"dup.toml":  "[[module]]\nname = \"a\"\noutput = \"b.spv\"\n",
	}, &testutil.FakeTools{}, nil)
	assert.ErrorContains(t, err, `module "a" declared in both`)
}

// startWatch runs h.App in watch mode until the returned stop function is
// called. It returns once the initial build is done and the watcher is set up.
func startWatch(t *testing.T, h *testutil.Harness) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.App.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(h.Logs.String(), "Watching for changes.")
	}, 5*time.Second, 10*time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancellation")
		}
	}
}

func watchHarness(t *testing.T, tools *testutil.FakeTools) *testutil.Harness {
	t.Helper()
	h, err := testutil.NewHarness(t, defaultFiles(), tools, func(c *app.Config) {
		c.Watch = true
	})
	require.NoError(t, err)
	return h
}

func TestRunWatchRebuildsChangedModule(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := &testutil.FakeTools{}
	h := watchHarness(t, tools)
	stop := startWatch(t, h)
	defer stop()
	initialLinks := len(tools.LinkCalls())
	require.Equal(t, 2, initialLinks)

	// --- Act ---
	require.NoError(t, os.WriteFile(h.Path("shaders/sprite.vert"), []byte("void main() { }"), 0o644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		return len(tools.LinkCalls()) == initialLinks+1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Never(t, func() bool {
		return len(tools.LinkCalls()) > initialLinks+1
	}, 500*time.Millisecond, 20*time.Millisecond, "only the sprite module should be relinked")

	last := tools.LinkCalls()[len(tools.LinkCalls())-1]
	assert.Len(t, testutil.LinkInputs(last), 2)
}

func TestRunWatchReloadsChangedManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := &testutil.FakeTools{}
	h := watchHarness(t, tools)
	stop := startWatch(t, h)
	defer stop()
	initialLinks := len(tools.LinkCalls())

	// --- Act ---
	renamed := strings.Replace(twoModules, "build/noise.spv", "build/noise-v2.spv", 1)
	require.NoError(t, os.WriteFile(h.Path("spirv.hcl"), []byte(renamed), 0o644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		return len(tools.LinkCalls()) == initialLinks+2
	}, 5*time.Second, 20*time.Millisecond, "every module is rebuilt after a manifest change")
	assert.Never(t, func() bool {
		return len(tools.LinkCalls()) > initialLinks+2
	}, 500*time.Millisecond, 20*time.Millisecond)

	mod, ok := h.App.Model().Module("noise")
	require.True(t, ok)
	assert.Equal(t, h.Path("build/noise-v2.spv"), mod.Output)
	assert.Equal(t, "NOISE", readFile(t, h.Path("build/noise-v2.spv")))
	assert.Contains(t, h.Logs.String(), "Manifest changed, reloading.")
}

func TestRunWatchKeepsModelWhenReloadFails(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tools := &testutil.FakeTools{}
	h := watchHarness(t, tools)
	stop := startWatch(t, h)
	defer stop()
	initialLinks := len(tools.LinkCalls())
	before := h.App.Model()

	// --- Act ---
	require.NoError(t, os.WriteFile(h.Path("spirv.hcl"), []byte(`module "sprite" {`), 0o644))

	// --- Assert ---
	require.Eventually(t, func() bool {
		return strings.Contains(h.Logs.String(), "Reload failed, keeping previous manifests.")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Same(t, before, h.App.Model())
	assert.Len(t, h.App.Model().Modules, 2)
	assert.Equal(t, initialLinks, len(tools.LinkCalls()))
}
