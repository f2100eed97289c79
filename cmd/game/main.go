package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	gamecmd "github.com/louisbranch/mathic/internal/cmd/game"
	"github.com/louisbranch/mathic/internal/platform/config"
)

func main() {
	cfg, err := gamecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gamecmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
