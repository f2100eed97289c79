package game

import (
	"context"
	"errors"

	"github.com/louisbranch/mathic/internal/platform/grpc/pagination"
	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/platform/requestctx"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/engine"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/storage"
	"github.com/louisbranch/mathic/internal/services/game/wire"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultListEventsPageSize = 50
	maxListEventsPageSize     = 200

	orderBySeq     = "seq"
	orderBySeqDesc = "seq desc"
)

// Matchmaker is the lobby surface the service delegates to.
type Matchmaker interface {
	CreateSession(ctx context.Context, player duel.PlayerID) (duel.Session, error)
	Connect(ctx context.Context, player duel.PlayerID, sessionID string) (duel.Session, error)
	ConnectRandom(ctx context.Context, player duel.PlayerID) (duel.Session, error)
	LeavePlayer1(ctx context.Context, sessionID string) (duel.Session, error)
	LeavePlayer2(ctx context.Context, sessionID string) (duel.Session, error)
	AnnounceStart(ctx context.Context, sessionID string) (duel.Session, error)
	GetSession(ctx context.Context, sessionID string) (duel.Session, error)
	ListSessions(ctx context.Context) []duel.SessionSummary
	ListPlayers(ctx context.Context) []duel.PlayerID
}

// Engine applies moves.
type Engine interface {
	ApplyAttack(ctx context.Context, attack engine.Attack) (duel.Session, error)
	FinishGame(ctx context.Context, sessionID string, by duel.OptionalPlayer) (duel.Session, error)
}

// Subscriber opens topic subscriptions for Watch.
type Subscriber interface {
	Subscribe(topic string) (*notify.Subscription, error)
}

// EventReader pages through recorded events.
type EventReader interface {
	ListEvents(ctx context.Context, filter storage.EventFilter) ([]storage.JournalEntry, error)
}

// Service implements DuelServiceServer.
type Service struct {
	matchmaker Matchmaker
	engine     Engine
	subscriber Subscriber
	events     EventReader
	log        logrus.FieldLogger
}

// Deps groups the collaborators of Service. Subscriber and Events may be nil,
// in which case Watch and ListEvents report Unavailable.
type Deps struct {
	Matchmaker Matchmaker
	Engine     Engine
	Subscriber Subscriber
	Events     EventReader
	Logger     logrus.FieldLogger
}

// NewService builds the gRPC service.
func NewService(deps Deps) (*Service, error) {
	if deps.Matchmaker == nil {
		return nil, errors.New("matchmaker is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("engine is required")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		matchmaker: deps.Matchmaker,
		engine:     deps.Engine,
		subscriber: deps.Subscriber,
		events:     deps.Events,
		log:        log,
	}, nil
}

var _ DuelServiceServer = (*Service)(nil)

// CreateSession opens a session seated by the caller.
func (s *Service) CreateSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	player, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.matchmaker.CreateSession(ctx, player)
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// Connect seats the caller in the requested session.
func (s *Service) Connect(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.matchmaker.Connect(ctx, player, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// ConnectRandom seats the caller in the oldest open session.
func (s *Service) ConnectRandom(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	player, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.matchmaker.ConnectRandom(ctx, player)
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// Attack plays one move for the caller.
func (s *Service) Attack(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	attackIndex, err := wire.RequiredInt(in, wire.FieldAttackIndex)
	if err != nil {
		return nil, duel.InvalidParamError(duel.ReasonCardIndex, err.Error())
	}
	targetIndex, err := wire.RequiredInt(in, wire.FieldTargetIndex)
	if err != nil {
		return nil, duel.InvalidParamError(duel.ReasonCardIndex, err.Error())
	}
	session, err := s.engine.ApplyAttack(ctx, engine.Attack{
		SessionID:   wire.String(in, wire.FieldSessionID),
		Player:      player,
		AttackIndex: attackIndex,
		TargetIndex: targetIndex,
	})
	if err != nil {
		return nil, err
	}
	return wire.Session(session), nil
}

// LeavePlayer1 vacates seat one.
func (s *Service) LeavePlayer1(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.matchmaker.LeavePlayer1(ctx, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// LeavePlayer2 vacates seat two.
func (s *Service) LeavePlayer2(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.matchmaker.LeavePlayer2(ctx, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// Surrender ends the game. The caller identity is optional.
func (s *Service) Surrender(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	by := duel.NoPlayer()
	if player := duel.PlayerID(requestctx.PlayerIDFromContext(ctx)); duel.RequirePlayer(player) == nil {
		by = duel.SomePlayer(player)
	}
	session, err := s.engine.FinishGame(ctx, wire.String(in, wire.FieldSessionID), by)
	if err != nil {
		return nil, err
	}
	return wire.Session(session), nil
}

// AnnounceStart tells both clients to leave the lobby.
func (s *Service) AnnounceStart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.matchmaker.AnnounceStart(ctx, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// ListSessions returns the summaries of every session.
func (s *Service) ListSessions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		wire.FieldSessions: structpb.NewListValue(wire.Summaries(s.matchmaker.ListSessions(ctx))),
	}}, nil
}

// ListPlayers returns every seated player.
func (s *Service) ListPlayers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		wire.FieldPlayers: structpb.NewListValue(wire.Players(s.matchmaker.ListPlayers(ctx))),
	}}, nil
}

// GetSession returns the lobby view of a session.
func (s *Service) GetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.matchmaker.GetSession(ctx, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.View(session.View()), nil
}

// GetSessionFull returns the session with both hands.
func (s *Service) GetSessionFull(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.matchmaker.GetSession(ctx, wire.String(in, wire.FieldSessionID))
	if err != nil {
		return nil, err
	}
	return wire.Session(session), nil
}

// ListEvents pages through the event journal.
func (s *Service) ListEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.events == nil {
		return nil, status.Error(codes.Unavailable, "event journal is not configured")
	}
	pageSize, err := wire.Int(in, wire.FieldPageSize)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	afterSeq, err := wire.Int(in, wire.FieldAfterSeq)
	if err != nil || afterSeq < 0 {
		return nil, status.Error(codes.InvalidArgument, "after_seq must be a non-negative integer")
	}
	orderBy, err := pagination.NormalizeOrderBy(wire.String(in, wire.FieldOrderBy), pagination.OrderByConfig{
		Default: orderBySeq,
		Allowed: []string{orderBySeq, orderBySeqDesc},
	})
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	filter := storage.EventFilter{
		SessionID:  wire.String(in, wire.FieldSessionID),
		AfterSeq:   int64(afterSeq),
		Limit:      pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: defaultListEventsPageSize, Max: maxListEventsPageSize}),
		Descending: orderBy == orderBySeqDesc,
	}
	entries, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		wire.FieldEvents: structpb.NewListValue(wire.JournalEntries(entries)),
	}}
	if len(entries) == filter.Limit {
		out.Fields[wire.FieldNextSeq] = structpb.NewNumberValue(float64(entries[len(entries)-1].Seq))
	}
	return out, nil
}

// Watch streams events published on one topic until the client goes away.
func (s *Service) Watch(in *structpb.Struct, stream DuelService_WatchServer) error {
	if s.subscriber == nil {
		return status.Error(codes.Unavailable, "event stream is not configured")
	}
	topic := wire.String(in, wire.FieldTopic)
	if topic == "" {
		return status.Error(codes.InvalidArgument, "topic is required")
	}
	sub, err := s.subscriber.Subscribe(topic)
	if err != nil {
		if errors.Is(err, notify.ErrHubClosed) {
			return status.Error(codes.Unavailable, err.Error())
		}
		return status.Error(codes.InvalidArgument, err.Error())
	}
	defer sub.Cancel()

	ctx := stream.Context()
	log := s.log.WithField("topic", topic)
	log.Debug("watch opened")
	for {
		select {
		case <-ctx.Done():
			log.WithField("dropped", sub.Dropped()).Debug("watch closed")
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return status.Error(codes.Unavailable, "event stream closed")
			}
			if err := stream.Send(wire.Event(event)); err != nil {
				return err
			}
		}
	}
}

func callerID(ctx context.Context) (duel.PlayerID, error) {
	player := duel.PlayerID(requestctx.PlayerIDFromContext(ctx))
	if err := duel.RequirePlayer(player); err != nil {
		return "", err
	}
	return player, nil
}
