// Package config defines the format-agnostic build manifest model along with
// the Loader and FileLoader interfaces that produce it.
//
// A Model lists the modules to link and the toolchain settings to link them
// with. Concrete manifest formats live in separate packages (hcl_adapter for
// HCL, docconfig for TOML and YAML); Dispatcher routes each manifest file to
// the FileLoader registered for its extension and merges the results.
package config
