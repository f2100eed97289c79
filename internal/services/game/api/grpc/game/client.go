package game

import (
	"context"

	gamemetadata "github.com/louisbranch/mathic/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/storage"
	"github.com/louisbranch/mathic/internal/services/game/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// WithPlayer attaches the caller identity to outgoing calls.
func WithPlayer(ctx context.Context, player duel.PlayerID) context.Context {
	return metadata.AppendToOutgoingContext(ctx, gamemetadata.PlayerIDHeader, string(player))
}

// WithLocale attaches the caller's preferred locales to outgoing calls.
func WithLocale(ctx context.Context, locale string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, gamemetadata.LocaleHeader, locale)
}

// Client is a typed DuelService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// EventsPage selects a page of journal events.
type EventsPage struct {
	SessionID string
	AfterSeq  int64
	PageSize  int
	// OrderBy is "seq" or "seq desc".
	OrderBy string
}

// CreateSession opens a session seated by the player in ctx.
func (c *Client) CreateSession(ctx context.Context) (duel.SessionView, error) {
	return c.view(ctx, MethodCreateSession, "")
}

// Connect joins a known session.
func (c *Client) Connect(ctx context.Context, sessionID string) (duel.SessionView, error) {
	return c.view(ctx, MethodConnect, sessionID)
}

// ConnectRandom joins the oldest open session.
func (c *Client) ConnectRandom(ctx context.Context) (duel.SessionView, error) {
	return c.view(ctx, MethodConnectRandom, "")
}

// Attack plays one move.
func (c *Client) Attack(ctx context.Context, sessionID string, attackIndex, targetIndex int) (duel.Session, error) {
	in := sessionRequest(sessionID)
	in.Fields[wire.FieldAttackIndex] = structpb.NewNumberValue(float64(attackIndex))
	in.Fields[wire.FieldTargetIndex] = structpb.NewNumberValue(float64(targetIndex))
	out, err := c.invoke(ctx, MethodAttack, in)
	if err != nil {
		return duel.Session{}, err
	}
	return wire.DecodeSession(out)
}

// LeavePlayer1 vacates seat one.
func (c *Client) LeavePlayer1(ctx context.Context, sessionID string) (duel.SessionView, error) {
	return c.view(ctx, MethodLeavePlayer1, sessionID)
}

// LeavePlayer2 vacates seat two.
func (c *Client) LeavePlayer2(ctx context.Context, sessionID string) (duel.SessionView, error) {
	return c.view(ctx, MethodLeavePlayer2, sessionID)
}

// Surrender ends a game.
func (c *Client) Surrender(ctx context.Context, sessionID string) (duel.Session, error) {
	return c.session(ctx, MethodSurrender, sessionID)
}

// AnnounceStart emits the game start event.
func (c *Client) AnnounceStart(ctx context.Context, sessionID string) (duel.SessionView, error) {
	return c.view(ctx, MethodAnnounceStart, sessionID)
}

// GetSession reads the lobby view.
func (c *Client) GetSession(ctx context.Context, sessionID string) (duel.SessionView, error) {
	return c.view(ctx, MethodGetSession, sessionID)
}

// GetSessionFull reads the session with both hands.
func (c *Client) GetSessionFull(ctx context.Context, sessionID string) (duel.Session, error) {
	return c.session(ctx, MethodGetSessionFull, sessionID)
}

// ListSessions reads every session summary.
func (c *Client) ListSessions(ctx context.Context) ([]duel.SessionSummary, error) {
	out, err := c.invoke(ctx, MethodListSessions, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return wire.DecodeSummaries(out.GetFields()[wire.FieldSessions].GetListValue())
}

// ListPlayers reads every seated player.
func (c *Client) ListPlayers(ctx context.Context) ([]duel.PlayerID, error) {
	out, err := c.invoke(ctx, MethodListPlayers, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return wire.DecodePlayers(out.GetFields()[wire.FieldPlayers].GetListValue()), nil
}

// ListEvents reads one journal page and the cursor of the next one, or zero
// when the page is the last.
func (c *Client) ListEvents(ctx context.Context, page EventsPage) ([]storage.JournalEntry, int64, error) {
	in := sessionRequest(page.SessionID)
	in.Fields[wire.FieldAfterSeq] = structpb.NewNumberValue(float64(page.AfterSeq))
	in.Fields[wire.FieldPageSize] = structpb.NewNumberValue(float64(page.PageSize))
	in.Fields[wire.FieldOrderBy] = structpb.NewStringValue(page.OrderBy)
	out, err := c.invoke(ctx, MethodListEvents, in)
	if err != nil {
		return nil, 0, err
	}
	entries, err := wire.DecodeJournalEntries(out.GetFields()[wire.FieldEvents].GetListValue())
	if err != nil {
		return nil, 0, err
	}
	next, err := wire.Int(out, wire.FieldNextSeq)
	if err != nil {
		return nil, 0, err
	}
	return entries, int64(next), nil
}

// WatchStream receives events from a Watch call.
type WatchStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event.
func (w *WatchStream) Recv() (notify.Event, error) {
	out := new(structpb.Struct)
	if err := w.stream.RecvMsg(out); err != nil {
		return notify.Event{}, err
	}
	return wire.DecodeEvent(out)
}

// Watch subscribes to topic. Cancel ctx to end the stream.
func (c *Client) Watch(ctx context.Context, topic string) (*WatchStream, error) {
	desc := &DuelService_ServiceDesc.Streams[0]
	stream, err := c.cc.NewStream(ctx, desc, FullMethod(MethodWatch))
	if err != nil {
		return nil, err
	}
	in := &structpb.Struct{Fields: map[string]*structpb.Value{wire.FieldTopic: structpb.NewStringValue(topic)}}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchStream{stream: stream}, nil
}

func (c *Client) view(ctx context.Context, method, sessionID string) (duel.SessionView, error) {
	out, err := c.invoke(ctx, method, sessionRequest(sessionID))
	if err != nil {
		return duel.SessionView{}, err
	}
	return wire.DecodeView(out)
}

func (c *Client) session(ctx context.Context, method, sessionID string) (duel.Session, error) {
	out, err := c.invoke(ctx, method, sessionRequest(sessionID))
	if err != nil {
		return duel.Session{}, err
	}
	return wire.DecodeSession(out)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func sessionRequest(sessionID string) *structpb.Struct {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if sessionID != "" {
		in.Fields[wire.FieldSessionID] = structpb.NewStringValue(sessionID)
	}
	return in
}
