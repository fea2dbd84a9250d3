package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/spirvbuild/internal/app"
)

// Harness is a ready-to-run App in a temporary workspace, wired to
// FakeTools instead of the real shader tools.
type Harness struct {
	Root  string
	Tools *FakeTools
	Logs  *SafeBuffer
	App   *app.App
}

// NewHarness writes files below a fresh directory, points the manifest
// search at that directory and constructs the App. configure may adjust the
// configuration before the App is created. The App's construction error is
// returned rather than failing the test, so load failures can be asserted.
func NewHarness(t *testing.T, files map[string]string, tools *FakeTools, configure func(*app.Config)) (*Harness, error) {
	t.Helper()

	root := WriteFiles(t, files)
	tempDir := filepath.Join(root, ".tmp")
	if err := os.Mkdir(tempDir, 0o755); err != nil {
		return nil, err
	}

	cfg := &app.Config{
		ManifestPaths: []string{root},
		LogLevel:      "debug",
		LogFormat:     "text",
		WorkerCount:   4,
		TempDir:       tempDir,
	}
	if configure != nil {
		configure(cfg)
	}

	logs := &SafeBuffer{}
	h := &Harness{Root: root, Tools: tools, Logs: logs}
	a, err := app.NewApp(logs, cfg, app.NewDefaultLoader(), app.WithRunner(tools))
	if os.Getenv("SPIRVBUILD_TEST_LOGS") == "true" {
		t.Cleanup(func() { t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String()) })
	}
	if err != nil {
		return h, err
	}
	h.App = a
	return h, nil
}

// Path joins a slash-separated relative path onto the workspace root.
func (h *Harness) Path(rel string) string {
	return filepath.Join(h.Root, filepath.FromSlash(rel))
}
