package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
	"github.com/specialistvlad/spirvbuild/spirv"
	"golang.org/x/sync/errgroup"
)

// Run builds the selected modules. In watch mode it keeps relinking modules
// whose inputs change until ctx is done; otherwise it returns the outcome of
// the single build round.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.cfg.HealthcheckPort > 0 {
		srv := a.startHealthcheckServer(ctx, a.cfg.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx, srv)
	}

	err := a.buildSelected(ctx)
	if !a.cfg.Watch {
		a.logger.Debug("App.Run method finished.")
		return err
	}
	if err != nil {
		a.logger.Error("Build failed, waiting for changes.", "error", err)
	}
	return a.watch(ctx)
}

// buildSelected builds every module the configuration selects and records
// the outcome for the health check.
func (a *App) buildSelected(ctx context.Context) error {
	modules, err := a.selectModules()
	if err == nil {
		err = a.buildModules(ctx, modules)
	}
	a.status.record(err)
	return err
}

// selectModules returns the modules named in the configuration, or all of
// them when none are named.
func (a *App) selectModules() ([]*config.Module, error) {
	model := a.Model()
	if len(a.cfg.Modules) == 0 {
		return model.Modules, nil
	}

	selected := make([]*config.Module, 0, len(a.cfg.Modules))
	for _, name := range a.cfg.Modules {
		mod, ok := model.Module(name)
		if !ok {
			available := make([]string, 0, len(model.Modules))
			for _, m := range model.Modules {
				available = append(available, m.Name)
			}
			sort.Strings(available)
			return nil, fmt.Errorf("unknown module %q (available: %s)", name, strings.Join(available, ", "))
		}
		selected = append(selected, mod)
	}
	return selected, nil
}

// buildModules links modules concurrently, at most WorkerCount at a time.
// The first failure stops modules that have not started yet.
func (a *App) buildModules(ctx context.Context, modules []*config.Module) error {
	logger := ctxlog.FromContext(ctx)
	if len(modules) == 0 {
		logger.Warn("No modules found in manifests, nothing to build.")
		return nil
	}

	toolchain := a.Toolchain()
	logger.Info("🚀 Building modules...", "count", len(modules), "workers", a.cfg.WorkerCount)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.WorkerCount)
	for _, mod := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return buildModule(gctx, toolchain, mod)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("🏁 Build finished.", "modules", len(modules), "duration", time.Since(start))
	return nil
}

func buildModule(ctx context.Context, toolchain *spirv.Toolchain, mod *config.Module) error {
	logger := ctxlog.FromContext(ctx).With("module", mod.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Building module.", "components", len(mod.Components))

	start := time.Now()
	data, err := toolchain.Build(ctx, mod.Components)
	if err != nil {
		return fmt.Errorf("module %q: %w", mod.Name, err)
	}
	if err := writeFileAtomic(mod.Output, data); err != nil {
		return fmt.Errorf("module %q: failed to write output: %w", mod.Name, err)
	}

	logger.Info("Module linked.", "output", mod.Output, "bytes", len(data), "duration", time.Since(start))
	return nil
}
