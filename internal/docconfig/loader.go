package docconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// TOMLLoader implements config.FileLoader for TOML manifests.
type TOMLLoader struct{}

// YAMLLoader implements config.FileLoader for YAML manifests.
type YAMLLoader struct{}

// LoadFile decodes a TOML manifest. Unknown keys are rejected.
func (TOMLLoader) LoadFile(ctx context.Context, path string) (*config.Model, error) {
	return load(ctx, path, "TOML", func(data []byte, doc *document) error {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(doc)
	})
}

// LoadFile decodes a YAML manifest. Unknown keys are rejected.
func (YAMLLoader) LoadFile(ctx context.Context, path string) (*config.Model, error) {
	return load(ctx, path, "YAML", func(data []byte, doc *document) error {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	})
}

func load(ctx context.Context, path, format string, decode func([]byte, *document) error) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("manifest", path)
	logger.Debug("Parsing manifest.", "format", format)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", format, path, err)
	}

	var doc document
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s file %s: %w", format, path, err)
	}

	model, err := doc.translate(path)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	logger.Debug("Manifest decoded.", "format", format, "modules", len(model.Modules))
	return model, nil
}
