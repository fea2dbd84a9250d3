// Command spirvbuild compiles GLSL and HLSL shaders with glslangValidator and
// links them, together with precompiled binaries, into SPIR-V modules
// described by one or more manifests.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/specialistvlad/spirvbuild/internal/app"
	"github.com/specialistvlad/spirvbuild/internal/cli"
)

// main is the entrypoint for the spirvbuild application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stderr, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		printFailure(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	spirvApp, err := app.NewApp(outW, appConfig, app.NewDefaultLoader())
	if err != nil {
		return err
	}
	return spirvApp.Run(ctx)
}

// printFailure writes err to w, in red when w is a color terminal.
func printFailure(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	header := out.String("spirvbuild: build failed").Bold().Foreground(out.Color("1"))
	fmt.Fprintf(w, "%s\n%s\n", header, err)
}
