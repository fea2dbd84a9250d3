package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
	"github.com/specialistvlad/spirvbuild/spirv"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	loader config.Loader
	runner spirv.Runner
	status *buildStatus

	mu        sync.RWMutex
	model     *config.Model
	toolchain *spirv.Toolchain
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the process runner used for the shader tools.
func WithRunner(runner spirv.Runner) Option {
	return func(a *App) { a.runner = runner }
}

// NewApp is the constructor for the main application. It configures an
// isolated logger, loads the manifests and resolves the toolchain.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	a := &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		loader: loader,
		status: &buildStatus{},
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("Logger configured successfully.")

	ctx := ctxlog.WithLogger(context.Background(), logger)
	if err := a.reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Model returns the currently loaded manifest model.
func (a *App) Model() *config.Model {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// Toolchain returns the toolchain modules are built with.
func (a *App) Toolchain() *spirv.Toolchain {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.toolchain
}

// reload reads the manifests again and swaps in the new model and toolchain.
// On failure the previous state is kept.
func (a *App) reload(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	model, err := a.loader.Load(ctx, a.cfg.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	toolchain, err := a.resolveToolchain(model.Toolchain)
	if err != nil {
		return err
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"files", len(model.Files),
		"modules", len(model.Modules),
		"compiler", toolchain.Compiler,
		"linker", toolchain.Linker,
		"target_env", toolchain.TargetEnv,
	)

	a.mu.Lock()
	a.model = model
	a.toolchain = toolchain
	a.mu.Unlock()
	return nil
}

// resolveToolchain applies CLI overrides over manifest settings over the SDK
// defaults.
func (a *App) resolveToolchain(manifest config.Toolchain) (*spirv.Toolchain, error) {
	tc := spirv.NewToolchain()

	if command := firstNonEmpty(a.cfg.Compiler, manifest.Compiler); command != "" {
		argv, err := splitCommand(command)
		if err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
		tc.Compiler = argv
	}
	if command := firstNonEmpty(a.cfg.Linker, manifest.Linker); command != "" {
		argv, err := splitCommand(command)
		if err != nil {
			return nil, fmt.Errorf("linker: %w", err)
		}
		tc.Linker = argv
	}
	if env := firstNonEmpty(a.cfg.TargetEnv, manifest.TargetEnv); env != "" {
		tc.TargetEnv = env
	}
	tc.TempDir = a.cfg.TempDir
	if a.runner != nil {
		tc.Runner = a.runner
	}
	return tc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
