// Package engine applies gameplay actions to duel sessions.
package engine

import (
	"context"
	"time"

	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/observability/tracing"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/mathic/internal/services/game/engine"

// Store is the subset of the session registry the engine needs.
type Store interface {
	Mutate(id string, fn func(*duel.Session) error) (duel.Session, error)
}

// Engine validates and applies attacks and surrenders.
type Engine struct {
	store    Store
	notifier notify.Notifier
	now      func() time.Time
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets where progress events are published.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithClock overrides the event timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New builds an Engine over store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: notify.Discard,
		now:      time.Now,
		log:      logging.Discard(),
		tracer:   tracing.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attack is one attack request.
type Attack struct {
	SessionID   string
	Player      duel.PlayerID
	AttackIndex int
	TargetIndex int
}

// ApplyAttack runs one attack atomically and returns the resulting session.
// A rejected attack leaves the session unchanged.
func (e *Engine) ApplyAttack(ctx context.Context, attack Attack) (duel.Session, error) {
	ctx, span := e.start(ctx, "ApplyAttack",
		tracing.SessionIDKey.String(attack.SessionID),
		tracing.PlayerIDKey.String(string(attack.Player)),
		attribute.Int("mathic.attack_index", attack.AttackIndex),
		attribute.Int("mathic.target_index", attack.TargetIndex),
	)
	defer span.End()

	if err := duel.RequireSessionID(attack.SessionID); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	if err := duel.RequirePlayer(attack.Player); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, err := e.store.Mutate(attack.SessionID, func(s *duel.Session) error {
		return s.Attack(attack.Player, attack.AttackIndex, attack.TargetIndex)
	})
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	span.SetAttributes(tracing.StatusKey.String(session.Status.String()))

	fields := logrus.Fields{"session_id": session.ID, "player_id": attack.Player}
	if winner, ok := session.Winner.Get(); ok {
		e.log.WithFields(fields).WithField("winner", winner).Info("game won")
	} else {
		e.log.WithFields(fields).Debug("attack applied")
	}
	e.publish(ctx, notify.ProgressEvent(session, e.now()))
	return session, nil
}

// FinishGame ends a session by surrender. by names the surrendering caller
// when known.
func (e *Engine) FinishGame(ctx context.Context, sessionID string, by duel.OptionalPlayer) (duel.Session, error) {
	ctx, span := e.start(ctx, "FinishGame", tracing.SessionIDKey.String(sessionID))
	defer span.End()

	if err := duel.RequireSessionID(sessionID); err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}
	session, err := e.store.Mutate(sessionID, func(s *duel.Session) error {
		return s.Surrender(by)
	})
	if err != nil {
		return duel.Session{}, tracing.Fail(span, err)
	}

	e.log.WithFields(logrus.Fields{
		"session_id":     session.ID,
		"surrendered_by": session.SurrenderedBy.String(),
		"winner":         session.Winner.String(),
	}).Info("game surrendered")
	e.publish(ctx, notify.ProgressEvent(session, e.now()))
	return session, nil
}

func (e *Engine) publish(ctx context.Context, events ...notify.Event) {
	if err := e.notifier.Publish(ctx, events...); err != nil {
		e.log.WithError(err).Warn("publish session events")
	}
}

func (e *Engine) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracing.Start(ctx, e.tracer, "engine."+op, attrs...)
}
