package storage

import (
	"context"
	"time"

	"github.com/louisbranch/mathic/internal/services/game/notify"
)

// JournalEntry is one recorded event with its journal position.
type JournalEntry struct {
	Seq        int64
	RecordedAt time.Time
	Event      notify.Event
}

// EventFilter narrows a journal read.
type EventFilter struct {
	// SessionID limits results to one session; empty reads every topic,
	// including the sessions list.
	SessionID string
	// AfterSeq is an exclusive cursor. Ascending reads return seq > AfterSeq;
	// descending reads return seq < AfterSeq when it is set.
	AfterSeq   int64
	Limit      int
	Descending bool
}

// EventJournal records published events and reads them back in order.
type EventJournal interface {
	notify.Notifier
	ListEvents(ctx context.Context, filter EventFilter) ([]JournalEntry, error)
	Close() error
}
