package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/storage"
)

var at = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	journal, err := Open(path, WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		if err := journal.Close(); err != nil {
			t.Fatalf("close journal: %v", err)
		}
	})
	return journal
}

func seedEvents(t *testing.T, journal *Journal) duel.Session {
	t.Helper()
	session := duel.NewSession("s-1", "alice", at)
	other := duel.NewSession("s-2", "carol", at)
	events := []notify.Event{
		notify.SessionsEvent(duel.Summaries([]duel.Session{session}), at),
		notify.LobbyEvent(session.View(), at),
		notify.ProgressEvent(session, at),
		notify.LobbyEvent(other.View(), at),
		notify.StartEvent(session.View(), at),
	}
	if err := journal.Publish(context.Background(), events...); err != nil {
		t.Fatalf("publish: %v", err)
	}
	return session
}

func TestMillisHelpers(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	value := time.Date(2026, 2, 1, 9, 0, 0, 0, loc)
	if toMillis(value) != value.UTC().UnixMilli() {
		t.Fatalf("expected millis to match UTC unix millis")
	}
	if round := fromMillis(toMillis(value)); !round.Equal(value.UTC()) {
		t.Fatalf("expected round trip UTC time, got %v", round)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	for i := 0; i < 2; i++ {
		journal, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := journal.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestPublishAndListAll(t *testing.T) {
	journal := openTestJournal(t)
	session := seedEvents(t, journal)

	entries, err := journal.ListEvents(context.Background(), storage.EventFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Seq <= entries[i-1].Seq {
			t.Fatalf("expected increasing seq, got %d after %d", entries[i].Seq, entries[i-1].Seq)
		}
	}
	if !entries[0].RecordedAt.Equal(at) {
		t.Fatalf("expected recorded_at from clock, got %v", entries[0].RecordedAt)
	}

	progress := entries[2].Event
	if progress.Kind != notify.KindProgress || progress.Session.ID != session.ID || progress.Session.Cards1 != session.Cards1 {
		t.Fatalf("unexpected progress event %+v", progress)
	}
	if list := entries[0].Event; list.Topic != notify.SessionsTopic || len(list.Summaries) != 1 {
		t.Fatalf("unexpected sessions event %+v", list)
	}
}

func TestListFiltersBySessionAndCursor(t *testing.T) {
	journal := openTestJournal(t)
	seedEvents(t, journal)
	ctx := context.Background()

	entries, err := journal.ListEvents(ctx, storage.EventFilter{SessionID: "s-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries for s-1, got %d", len(entries))
	}

	page, err := journal.ListEvents(ctx, storage.EventFilter{SessionID: "s-1", AfterSeq: entries[0].Seq, Limit: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].Seq != entries[1].Seq {
		t.Fatalf("expected second entry, got %+v", page)
	}

	desc, err := journal.ListEvents(ctx, storage.EventFilter{SessionID: "s-1", Descending: true, AfterSeq: entries[2].Seq})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(desc) != 2 || desc[0].Seq != entries[1].Seq || desc[1].Seq != entries[0].Seq {
		t.Fatalf("unexpected descending page %+v", desc)
	}
}

func TestMemoryJournal(t *testing.T) {
	journal, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("open memory journal: %v", err)
	}
	defer journal.Close()

	seedEvents(t, journal)
	entries, err := journal.ListEvents(context.Background(), storage.EventFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(entries))
	}
}

func TestPublishHonorsCanceledContext(t *testing.T) {
	journal := openTestJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := journal.Publish(ctx, notify.SessionsEvent(nil, at)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestNilJournal(t *testing.T) {
	var journal *Journal
	if err := journal.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
	if err := journal.Publish(context.Background()); err == nil {
		t.Fatal("expected error for unconfigured journal")
	}
}

func TestBuildListEventsSQLPlan(t *testing.T) {
	plan := buildListEventsSQLPlan(storage.EventFilter{SessionID: "s-1", AfterSeq: 9, Limit: 5, Descending: true})
	if plan.whereClause != "1 = 1 AND session_id = ? AND seq < ?" {
		t.Fatalf("unexpected where clause %q", plan.whereClause)
	}
	if len(plan.params) != 2 || plan.params[1] != int64(9) {
		t.Fatalf("unexpected params %v", plan.params)
	}
	if plan.orderClause != "ORDER BY seq DESC" || plan.limitClause != " LIMIT 5" {
		t.Fatalf("unexpected order/limit %q %q", plan.orderClause, plan.limitClause)
	}
}

func TestOpenAppliesConnectionPragmas(t *testing.T) {
	journal := openTestJournal(t)
	ctx := context.Background()

	tests := []struct {
		pragma string
		want   string
	}{
		{pragma: "journal_mode", want: "wal"},
		{pragma: "busy_timeout", want: "5000"},
		{pragma: "foreign_keys", want: "1"},
		{pragma: "synchronous", want: "1"},
	}
	for _, tc := range tests {
		var got string
		if err := journal.sqlDB.QueryRowContext(ctx, "PRAGMA "+tc.pragma).Scan(&got); err != nil {
			t.Fatalf("read %s: %v", tc.pragma, err)
		}
		if got != tc.want {
			t.Fatalf("%s = %q, want %q", tc.pragma, got, tc.want)
		}
	}
}
