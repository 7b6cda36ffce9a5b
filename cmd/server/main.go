package main

import (
	"log/slog"
	"os"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command_failed", "error", err)
		os.Exit(1)
	}
}
