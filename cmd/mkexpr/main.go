package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/mkexpr/internal/app"
	"github.com/vk/mkexpr/internal/cli"
)

// main is the entrypoint for the mkexpr generator.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args); err != nil {
		exitErr := cli.Report(err)
		fmt.Fprintln(os.Stderr, exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, argv []string) error {
	cfg, shouldExit, err := cli.Parse(argv[0], argv[1:], outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	generator := app.NewApp(outW, errW, cfg)
	return generator.Run(context.Background())
}
