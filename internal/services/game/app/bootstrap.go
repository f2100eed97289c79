package server

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/mathic/internal/platform/logging"
	gamegrpc "github.com/louisbranch/mathic/internal/services/game/api/grpc/game"
	"github.com/louisbranch/mathic/internal/services/game/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/mathic/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/mathic/internal/services/game/engine"
	"github.com/louisbranch/mathic/internal/services/game/matchmaking"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/registry"
	journalsqlite "github.com/louisbranch/mathic/internal/services/game/storage/sqlite"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// serverBootstrap holds the startup seams of the game server.
type serverBootstrap struct {
	listen      func(network, address string) (net.Listener, error)
	openJournal func(dsn string) (*journalsqlite.Journal, error)
}

func newServerBootstrap() *serverBootstrap {
	return &serverBootstrap{listen: net.Listen, openJournal: openJournal}
}

// New builds a game server from cfg.
func New(cfg Config) (*Server, error) {
	return newServerBootstrap().New(cfg)
}

// New listens, opens the journal and registers DuelService. Everything
// acquired so far is released when a later phase fails.
func (b *serverBootstrap) New(cfg Config) (server *Server, err error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithField("service", "game")

	listener, err := b.listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	defer func() {
		if err != nil {
			_ = listener.Close()
		}
	}()

	journal, err := b.openJournal(cfg.JournalDSN)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = journal.Close()
		}
	}()

	hub := notify.NewHub(cfg.HubBuffer, log)
	notifier := notify.Fanout{hub, notify.SessionScoped(journal)}
	sessions := registry.New()

	service, err := gamegrpc.NewService(gamegrpc.Deps{
		Matchmaker: matchmaking.New(sessions, matchmaking.WithNotifier(notifier), matchmaking.WithLogger(log)),
		Engine:     engine.New(sessions, engine.WithNotifier(notifier), engine.WithLogger(log)),
		Subscriber: hub,
		Events:     journal,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("build duel service: %w", err)
	}

	grpcServer := newGRPCServer(log)
	gamegrpc.RegisterDuelServiceServer(grpcServer, service)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamegrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		hub:        hub,
		journal:    journal,
		log:        log,
	}, nil
}

// newGRPCServer chains metadata first so logging and error mapping see the
// request id, caller and locale.
func newGRPCServer(log logrus.FieldLogger) *grpc.Server {
	return grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.LoggingUnaryInterceptor(log),
			interceptors.ErrorUnaryInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpcmeta.StreamServerInterceptor(nil),
			interceptors.LoggingStreamInterceptor(log),
			interceptors.ErrorStreamInterceptor(),
		),
	)
}

func openJournal(dsn string) (*journalsqlite.Journal, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = journalsqlite.MemoryDSN
	}
	if dsn != journalsqlite.MemoryDSN {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}
	journal, err := journalsqlite.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open event journal: %w", err)
	}
	return journal, nil
}

// ensureDir creates the parent directory of a journal file.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	return nil
}
