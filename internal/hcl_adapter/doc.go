// Package hcl_adapter reads HCL build manifests into the format-agnostic
// config.Model.
//
// A manifest holds an optional toolchain block and any number of module
// blocks. Inside a module, glsl, hlsl and binary blocks are kept in source
// order, because that order decides the order sources are compiled and
// binaries are linked. Attribute expressions can read environment variables
// through env.NAME and call a small set of string functions.
package hcl_adapter
