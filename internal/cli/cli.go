package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/spirvbuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("spirvbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
spirvbuild - Compile GLSL/HLSL shaders and link them into SPIR-V modules.

Usage:
  spirvbuild [options] [MANIFEST_PATH...]

Arguments:
  MANIFEST_PATH
    A manifest file (.hcl, .toml, .yaml, .yml) or a directory searched
    recursively for manifest files.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to a manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to a manifest file or directory (shorthand).")
	moduleFlag := flagSet.String("module", "", "Comma-separated list of modules to build. Default: all.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of modules linked concurrently.")
	compilerFlag := flagSet.String("compiler", "", "Compiler command line. Default: glslangValidator.")
	linkerFlag := flagSet.String("linker", "", "Linker command line. Default: spirv-link.")
	targetEnvFlag := flagSet.String("target-env", "", "Target environment for both tools. Default: vulkan1.3.")
	tempDirFlag := flagSet.String("temp-dir", "", "Directory for intermediate files. Default: the system temp dir.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and relink modules when their inputs change.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *manifestFlag != "" {
		paths = append(paths, *manifestFlag)
	}
	if *mFlag != "" {
		paths = append(paths, *mFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Manifest paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No manifest path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPaths:   paths,
		Modules:         splitList(*moduleFlag),
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
		HealthcheckPort: *healthPortFlag,
		Watch:           *watchFlag,
		Compiler:        *compilerFlag,
		Linker:          *linkerFlag,
		TargetEnv:       *targetEnvFlag,
		TempDir:         *tempDirFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
