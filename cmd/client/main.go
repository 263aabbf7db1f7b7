package main

import (
	"log/slog"
	"os"

	"go-debate-client/internal/app"
	"go-debate-client/internal/logger"
)

func main() {
	level := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(slog.New(logger.New(os.Stderr, level)))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize client", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("client exited with error", "error", err)
		os.Exit(1)
	}
}
