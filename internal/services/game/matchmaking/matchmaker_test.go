package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/louisbranch/mathic/internal/platform/errors"
	"github.com/louisbranch/mathic/internal/platform/errors/i18n"
	"github.com/louisbranch/mathic/internal/platform/id"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/registry"
	"golang.org/x/sync/errgroup"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (f *fakeNotifier) Publish(_ context.Context, events ...notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return f.err
}

func (f *fakeNotifier) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Topic)
	}
	return out
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	f.events = nil
	f.mu.Unlock()
}

func newTestMatchmaker() (*Matchmaker, *fakeNotifier) {
	notifier := &fakeNotifier{}
	clock := func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	m := New(registry.New(registry.WithClock(clock)),
		WithNotifier(notifier),
		WithIDGenerator(id.Sequence("s")),
		WithClock(clock),
	)
	return m, notifier
}

func equalTopics(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCreateSession(t *testing.T) {
	m, notifier := newTestMatchmaker()
	ctx := context.Background()

	session, err := m.CreateSession(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID != "s-1" || session.Status != duel.StatusNew || session.Player1 != "alice" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.Cards1 != duel.NewCards() || session.Cards2 != duel.NewCards() || session.CurrentTurn != "alice" {
		t.Fatalf("expected fresh hands with alice to move, got %+v", session)
	}
	if got := notifier.topics(); !equalTopics(got, []string{notify.SessionsTopic}) {
		t.Fatalf("unexpected events %v", got)
	}
	if summaries := notifier.events[0].Summaries; len(summaries) != 1 || summaries[0].ID != "s-1" {
		t.Fatalf("expected list to include new session, got %+v", summaries)
	}
}

func TestCreateSessionRequiresPlayer(t *testing.T) {
	m, notifier := newTestMatchmaker()
	_, err := m.CreateSession(context.Background(), " ")
	if !errors.Is(err, duel.ErrInvalidParam) {
		t.Fatalf("expected invalid param, got %v", err)
	}
	if len(notifier.topics()) != 0 {
		t.Fatal("expected no events for rejected call")
	}
}

func TestCreateSessionIDFailure(t *testing.T) {
	boom := errors.New("entropy")
	m := New(registry.New(), WithIDGenerator(func() (string, error) { return "", boom }))
	if _, err := m.CreateSession(context.Background(), "alice"); !errors.Is(err, boom) {
		t.Fatalf("expected id error, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	m, notifier := newTestMatchmaker()
	ctx := context.Background()
	created, err := m.CreateSession(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	notifier.reset()

	session, err := m.Connect(ctx, "bob", created.ID)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if session.Status != duel.StatusInProgress || !session.Player2.Is("bob") {
		t.Fatalf("unexpected session %+v", session)
	}
	want := []string{notify.LobbyTopic(created.ID), notify.SessionsTopic}
	if got := notifier.topics(); !equalTopics(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := m.Connect(ctx, "carol", created.ID); !errors.Is(err, duel.ErrInvalidState) {
		t.Fatalf("expected full game rejection, got %v", err)
	}
	if _, err := m.Connect(ctx, "carol", "missing"); !errors.Is(err, duel.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := m.Connect(ctx, "carol", ""); !errors.Is(err, duel.ErrInvalidParam) {
		t.Fatalf("expected invalid param, got %v", err)
	}
}

func TestConnectRandomPrefersOldestForeignSession(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	for _, owner := range []duel.PlayerID{"bob", "alice", "carol"} {
		if _, err := m.CreateSession(ctx, owner); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := m.ConnectRandom(ctx, "bob")
	if err != nil {
		t.Fatalf("connect random: %v", err)
	}
	if got.ID != "s-2" || got.Player1 != "alice" || !got.Player2.Is("bob") {
		t.Fatalf("expected bob to join alice's session, got %+v", got)
	}
}

func TestConnectRandomWithoutOpenSession(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	if _, err := m.CreateSession(ctx, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := m.ConnectRandom(ctx, "alice")
	if !errors.Is(err, duel.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) || domainErr.Metadata[i18n.ReasonKey] != duel.ReasonNoOpenGame {
		t.Fatalf("expected no open game reason, got %v", err)
	}
}

func TestConcurrentConnectRandomClaimsOnce(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	created, err := m.CreateSession(ctx, "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const callers = 32
	var wins, misses atomic.Int32
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		player := duel.PlayerID(fmt.Sprintf("p-%d", i))
		g.Go(func() error {
			_, err := m.ConnectRandom(ctx, player)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, duel.ErrNotFound):
				misses.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("connect random: %v", err)
	}
	if wins.Load() != 1 || misses.Load() != callers-1 {
		t.Fatalf("expected 1 win and %d misses, got %d/%d", callers-1, wins.Load(), misses.Load())
	}

	session, err := m.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !session.Player2.IsSet() || session.Status != duel.StatusInProgress {
		t.Fatalf("expected one opponent seated, got %+v", session)
	}
}

func TestLeavePlayer1(t *testing.T) {
	m, notifier := newTestMatchmaker()
	ctx := context.Background()
	created, _ := m.CreateSession(ctx, "alice")
	if _, err := m.Connect(ctx, "bob", created.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}
	notifier.reset()

	session, err := m.LeavePlayer1(ctx, created.ID)
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if session.Player1 != "bob" || session.Player2.IsSet() || session.Status != duel.StatusWaiting {
		t.Fatalf("expected bob promoted and waiting, got %+v", session)
	}
	want := []string{notify.LobbyTopic(created.ID), notify.SessionsTopic}
	if got := notifier.topics(); !equalTopics(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	session, err = m.LeavePlayer1(ctx, created.ID)
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if session.Status != duel.StatusFinished {
		t.Fatalf("expected abandoned session finished, got %s", session.Status)
	}
}

func TestLeavePlayer2IsIdempotent(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	created, _ := m.CreateSession(ctx, "alice")
	if _, err := m.Connect(ctx, "bob", created.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}

	first, err := m.LeavePlayer2(ctx, created.ID)
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	second, err := m.LeavePlayer2(ctx, created.ID)
	if err != nil {
		t.Fatalf("leave again: %v", err)
	}
	if first.Status != duel.StatusWaiting || second != first {
		t.Fatalf("expected identical WAITING snapshots, got %+v / %+v", first, second)
	}
	if _, err := m.LeavePlayer2(ctx, "missing"); !errors.Is(err, duel.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWaitingSessionIsNotOfferedToRandomJoin(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	created, _ := m.CreateSession(ctx, "alice")
	if _, err := m.Connect(ctx, "bob", created.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := m.LeavePlayer2(ctx, created.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if _, err := m.ConnectRandom(ctx, "carol"); !errors.Is(err, duel.ErrNotFound) {
		t.Fatalf("expected WAITING session skipped, got %v", err)
	}
	if _, err := m.Connect(ctx, "carol", created.ID); err != nil {
		t.Fatalf("direct connect to waiting session: %v", err)
	}
}

func TestListSessionsAndPlayers(t *testing.T) {
	m, _ := newTestMatchmaker()
	ctx := context.Background()
	first, _ := m.CreateSession(ctx, "alice")
	if _, err := m.CreateSession(ctx, "carol"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Connect(ctx, "bob", first.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}

	summaries := m.ListSessions(ctx)
	if len(summaries) != 2 || summaries[0].Status != duel.StatusInProgress || summaries[1].Player1 != "carol" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	players := m.ListPlayers(ctx)
	want := []duel.PlayerID{"alice", "bob", "carol"}
	if len(players) != len(want) {
		t.Fatalf("expected %v, got %v", want, players)
	}
	for i := range want {
		if players[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, players)
		}
	}
}

func TestAnnounceStart(t *testing.T) {
	m, notifier := newTestMatchmaker()
	ctx := context.Background()
	created, _ := m.CreateSession(ctx, "alice")
	notifier.reset()

	session, err := m.AnnounceStart(ctx, created.ID)
	if err != nil {
		t.Fatalf("announce: %v", err)
	}
	if session.ID != created.ID {
		t.Fatalf("unexpected session %+v", session)
	}
	if got := notifier.topics(); !equalTopics(got, []string{notify.StartTopic(created.ID)}) {
		t.Fatalf("unexpected events %v", got)
	}
	if _, err := m.AnnounceStart(ctx, "missing"); !errors.Is(err, duel.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	m, notifier := newTestMatchmaker()
	notifier.err = errors.New("broker down")

	if _, err := m.CreateSession(context.Background(), "alice"); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
}
