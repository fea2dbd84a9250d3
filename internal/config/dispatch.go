package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
	"github.com/specialistvlad/spirvbuild/internal/fsutil"
)

// Dispatcher is a Loader that routes every manifest file to the FileLoader
// registered for its extension and merges the resulting models in file order.
type Dispatcher struct {
	loaders map[string]FileLoader
}

// NewDispatcher returns a Dispatcher with no formats registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{loaders: make(map[string]FileLoader)}
}

// Register binds a file extension such as ".hcl" to a loader.
func (d *Dispatcher) Register(ext string, loader FileLoader) {
	d.loaders[strings.ToLower(ext)] = loader
}

// Extensions returns the registered extensions in sorted order.
func (d *Dispatcher) Extensions() []string {
	exts := make([]string, 0, len(d.loaders))
	for ext := range d.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load implements Loader.
func (d *Dispatcher) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	if len(paths) == 0 {
		return nil, errors.New("no manifest paths given")
	}
	if len(d.loaders) == 0 {
		return nil, errors.New("no manifest formats registered")
	}

	files, err := fsutil.FindFiles(paths, d.Extensions()...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no manifest files (%s) found in %s", strings.Join(d.Extensions(), ", "), strings.Join(paths, ", "))
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	model := &Model{}
	for _, file := range files {
		loader, ok := d.loaders[strings.ToLower(filepath.Ext(file))]
		if !ok {
			return nil, fmt.Errorf("unsupported manifest format %q for %s", filepath.Ext(file), file)
		}
		fileModel, err := loader.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(fileModel); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", file, err)
		}
	}

	logger.Debug("Manifest loading complete.", "files", len(model.Files), "modules", len(model.Modules))
	return model, nil
}
