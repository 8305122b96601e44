package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/skui/cli"
	"github.com/ardnew/skui/cli/cmd"
	"github.com/ardnew/skui/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// Diagnostics have already been printed.
		if errors.Is(err, cmd.ErrDiagnostics) {
			log.Debug("run failed", slog.Any("error", err))
			os.Exit(1)
		}

		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
