package config

import "context"

// Loader is the interface for reading build manifests from files or
// directories into the format-agnostic model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// FileLoader decodes a single manifest file of one specific format.
type FileLoader interface {
	LoadFile(ctx context.Context, path string) (*Model, error)
}
