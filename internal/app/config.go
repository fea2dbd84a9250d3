package app

import (
	"errors"
	"fmt"

	"github.com/mattn/go-shellwords"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // manifest files or directories
	Modules       []string // modules to build; empty builds all

	LogFormat       string
	LogLevel        string
	WorkerCount     int
	HealthcheckPort int
	Watch           bool

	// Tool overrides. Empty values fall back to the manifest, then to the
	// Vulkan SDK defaults.
	Compiler  string
	Linker    string
	TargetEnv string
	TempDir   string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	for _, command := range []string{cfg.Compiler, cfg.Linker} {
		if command == "" {
			continue
		}
		if _, err := splitCommand(command); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// splitCommand splits a tool command line using shell quoting rules.
func splitCommand(command string) ([]string, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command %q was not parsed correctly into content", command)
	}
	return argv, nil
}
