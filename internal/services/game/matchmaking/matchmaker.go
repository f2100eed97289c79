package matchmaking

import (
	"context"
	"time"

	"github.com/louisbranch/mathic/internal/platform/id"
	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/observability/tracing"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/mathic/internal/services/game/matchmaking"

// Store is the subset of the session registry the matchmaker needs.
type Store interface {
	Create(session duel.Session) (duel.Session, error)
	Get(id string) (duel.Session, error)
	Mutate(id string, fn func(*duel.Session) error) (duel.Session, error)
	Claim(match func(duel.Session) bool, fn func(*duel.Session) error) (duel.Session, bool, error)
	List() []duel.Session
}

// Matchmaker pairs players into sessions.
type Matchmaker struct {
	store    Store
	notifier notify.Notifier
	newID    id.Generator
	now      func() time.Time
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

// Option configures a Matchmaker.
type Option func(*Matchmaker)

// WithNotifier sets where session events are published.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Matchmaker) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithIDGenerator overrides session id allocation.
func WithIDGenerator(fn id.Generator) Option {
	return func(m *Matchmaker) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock overrides the event timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(m *Matchmaker) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Matchmaker) {
		if log != nil {
			m.log = log
		}
	}
}

// New builds a Matchmaker over store.
func New(store Store, opts ...Option) *Matchmaker {
	m := &Matchmaker{
		store:    store,
		notifier: notify.Discard,
		newID:    id.NewID,
		now:      time.Now,
		log:      logging.Discard(),
		tracer:   tracing.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession opens a NEW session owned by player.
func (m *Matchmaker) CreateSession(ctx context.Context, player duel.PlayerID) (duel.Session, error) {
	ctx, span := m.start(ctx, "CreateSession", tracing.PlayerIDKey.String(string(player)))
	defer span.End()

	if err := duel.RequirePlayer(player); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	sessionID, err := m.newID()
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, err := m.store.Create(duel.NewSession(sessionID, player, m.now()))
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	span.SetAttributes(tracing.SessionIDKey.String(session.ID))
	m.log.WithFields(logrus.Fields{"session_id": session.ID, "player_id": player}).Info("session created")
	m.publish(ctx, m.sessionsEvent())
	return session, nil
}

// Connect seats player as the opponent in sessionID.
func (m *Matchmaker) Connect(ctx context.Context, player duel.PlayerID, sessionID string) (duel.Session, error) {
	ctx, span := m.start(ctx, "Connect",
		tracing.PlayerIDKey.String(string(player)), tracing.SessionIDKey.String(sessionID))
	defer span.End()

	if err := duel.RequirePlayer(player); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	if err := duel.RequireSessionID(sessionID); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, err := m.store.Mutate(sessionID, func(s *duel.Session) error {
		return s.Join(player)
	})
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	m.log.WithFields(logrus.Fields{"session_id": session.ID, "player_id": player}).Info("player connected")
	m.publish(ctx, notify.LobbyEvent(session.View(), m.now()), m.sessionsEvent())
	return session, nil
}

// ConnectRandom seats player in the oldest NEW session owned by someone else.
func (m *Matchmaker) ConnectRandom(ctx context.Context, player duel.PlayerID) (duel.Session, error) {
	ctx, span := m.start(ctx, "ConnectRandom", tracing.PlayerIDKey.String(string(player)))
	defer span.End()

	if err := duel.RequirePlayer(player); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, ok, err := m.store.Claim(
		func(s duel.Session) bool {
			return s.Status == duel.StatusNew && s.Player1 != player
		},
		func(s *duel.Session) error {
			return s.Join(player)
		},
	)
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	if !ok {
		return duel.Session{}, tracing.Fail(span, duel.NoOpenSessionError())
	}
	span.SetAttributes(tracing.SessionIDKey.String(session.ID))
	m.log.WithFields(logrus.Fields{"session_id": session.ID, "player_id": player}).Info("player matched")
	m.publish(ctx, notify.LobbyEvent(session.View(), m.now()), m.sessionsEvent())
	return session, nil
}

// LeavePlayer1 removes the session owner, promoting the opponent if seated.
func (m *Matchmaker) LeavePlayer1(ctx context.Context, sessionID string) (duel.Session, error) {
	return m.leave(ctx, "LeavePlayer1", sessionID, (*duel.Session).LeavePlayer1)
}

// LeavePlayer2 clears the opponent seat.
func (m *Matchmaker) LeavePlayer2(ctx context.Context, sessionID string) (duel.Session, error) {
	return m.leave(ctx, "LeavePlayer2", sessionID, (*duel.Session).LeavePlayer2)
}

func (m *Matchmaker) leave(ctx context.Context, op, sessionID string, apply func(*duel.Session)) (duel.Session, error) {
	ctx, span := m.start(ctx, op, tracing.SessionIDKey.String(sessionID))
	defer span.End()

	if err := duel.RequireSessionID(sessionID); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, err := m.store.Mutate(sessionID, func(s *duel.Session) error {
		apply(s)
		return nil
	})
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	m.log.WithFields(logrus.Fields{"session_id": session.ID, "status": session.Status.String()}).Info("seat vacated")
	m.publish(ctx, notify.LobbyEvent(session.View(), m.now()), m.sessionsEvent())
	return session, nil
}

// AnnounceStart re-publishes the session on its start topic so both
// clients leave the lobby.
func (m *Matchmaker) AnnounceStart(ctx context.Context, sessionID string) (duel.Session, error) {
	ctx, span := m.start(ctx, "AnnounceStart", tracing.SessionIDKey.String(sessionID))
	defer span.End()

	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	m.publish(ctx, notify.StartEvent(session.View(), m.now()))
	return session, nil
}

// GetSession returns the current snapshot of sessionID.
func (m *Matchmaker) GetSession(_ context.Context, sessionID string) (duel.Session, error) {
	if err := duel.RequireSessionID(sessionID); err != nil {
		return duel.Session{}, err
	}
	return m.store.Get(sessionID)
}

// ListSessions summarizes every session in creation order.
func (m *Matchmaker) ListSessions(context.Context) []duel.SessionSummary {
	return duel.Summaries(m.store.List())
}

// ListPlayers returns every seated player, player one before player two,
// in session creation order.
func (m *Matchmaker) ListPlayers(context.Context) []duel.PlayerID {
	sessions := m.store.List()
	players := make([]duel.PlayerID, 0, len(sessions)*2)
	for _, s := range sessions {
		players = append(players, s.Player1)
		if p2, ok := s.Player2.Get(); ok {
			players = append(players, p2)
		}
	}
	return players
}

func (m *Matchmaker) sessionsEvent() notify.Event {
	return notify.SessionsEvent(duel.Summaries(m.store.List()), m.now())
}

// publish delivers events after the mutation committed. Delivery failures are
// logged and never undo the mutation.
func (m *Matchmaker) publish(ctx context.Context, events ...notify.Event) {
	if err := m.notifier.Publish(ctx, events...); err != nil {
		m.log.WithError(err).Warn("publish session events")
	}
}

func (m *Matchmaker) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracing.Start(ctx, m.tracer, "matchmaking."+op, attrs...)
}
