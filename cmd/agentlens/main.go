package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentlens/agentlens/internal/cli"
	"github.com/agentlens/agentlens/internal/store"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag before cobra so build details are included
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("agentlens\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("SQLite Build Mode: %s\n", store.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", store.DriverName)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx, version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
