// Package app contains the core application logic of spirvbuild: loading
// manifests, resolving the toolchain, linking every selected module and, in
// watch mode, relinking modules whose inputs change. It is decoupled from any
// specific entrypoint like the CLI.
package app
