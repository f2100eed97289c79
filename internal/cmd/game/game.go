// Package game parses game command configuration and starts the duel server.
package game

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/mathic/internal/platform/cmd"
	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/platform/otel"
	server "github.com/louisbranch/mathic/internal/services/game/app"
	journalsqlite "github.com/louisbranch/mathic/internal/services/game/storage/sqlite"
)

// Config holds game command configuration.
type Config struct {
	Port       int    `env:"MATHIC_GAME_PORT" envDefault:"8082"`
	Addr       string `env:"MATHIC_GAME_ADDR"`
	JournalDSN string `env:"MATHIC_GAME_JOURNAL_DSN" envDefault:":memory:"`
	HubBuffer  int    `env:"MATHIC_HUB_BUFFER" envDefault:"16"`
	Log        logging.Config
	Telemetry  otel.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.JournalDSN, "journal", cfg.JournalDSN, "SQLite event journal path, or "+journalsqlite.MemoryDSN)
	fs.IntVar(&cfg.HubBuffer, "hub-buffer", cfg.HubBuffer, "Per-subscriber event queue size")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ListenAddr returns Addr, or ":<Port>" when Addr is unset.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the game service and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	options := entrypoint.RunOptions{Telemetry: cfg.Telemetry, Logger: logger}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, options, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:       cfg.ListenAddr(),
			JournalDSN: cfg.JournalDSN,
			HubBuffer:  cfg.HubBuffer,
			Logger:     logger,
		})
	})
}
