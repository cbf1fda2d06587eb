package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/dasgefolge/sil/internal/errors"
)

const appName = "sil"

// RestartExitCode tells the supervisor to start the freshly installed build.
const RestartExitCode = 75

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, errors.ErrNoEvent):
		return 0
	case errors.Is(err, errors.ErrUpdateRequired):
		return RestartExitCode
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}
