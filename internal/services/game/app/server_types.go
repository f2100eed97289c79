package server

import (
	"net"

	"github.com/louisbranch/mathic/internal/services/game/notify"
	journalsqlite "github.com/louisbranch/mathic/internal/services/game/storage/sqlite"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Config holds the startup settings of the game server.
type Config struct {
	// Addr is the TCP listen address, for example ":8082".
	Addr string
	// JournalDSN is a SQLite file path or journalsqlite.MemoryDSN.
	JournalDSN string
	// HubBuffer bounds each Watch subscriber queue.
	HubBuffer int
	Logger    logrus.FieldLogger
}

// Server hosts DuelService.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	hub        *notify.Hub
	journal    *journalsqlite.Journal
	log        logrus.FieldLogger
}
