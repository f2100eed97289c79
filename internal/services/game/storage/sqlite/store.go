package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/mathic/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"github.com/louisbranch/mathic/internal/services/game/storage"
	"github.com/louisbranch/mathic/internal/services/game/storage/sqlite/migrations"
	"github.com/louisbranch/mathic/internal/services/game/wire"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MemoryDSN opens a private in-memory journal.
const MemoryDSN = ":memory:"

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Journal is the SQLite event journal.
type Journal struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.EventJournal = (*Journal)(nil)

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the recorded_at clock.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// Open opens the journal at path and applies embedded migrations.
// MemoryDSN keeps the journal in process memory.
func Open(path string, opts ...Option) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != MemoryDSN {
		dsn = fileDSN(path)
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryDSN {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.JournalFS, "journal"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	j := &Journal{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(j)
		}
	}
	return j, nil
}

// fileDSN applies the connection pragmas in the form the modernc driver
// runs on every new connection.
func fileDSN(path string) string {
	pragmas := url.Values{}
	for _, pragma := range []string{
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
	} {
		pragmas.Add("_pragma", pragma)
	}
	return filepath.Clean(path) + "?" + pragmas.Encode()
}

// Close closes the underlying SQLite database. It is nil-safe.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// Publish appends events in one transaction. It implements notify.Notifier.
func (j *Journal) Publish(ctx context.Context, events ...notify.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j == nil || j.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := j.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	recordedAt := toMillis(j.now())
	for _, evt := range events {
		payload, err := protojson.Marshal(wire.Event(evt))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode %s event: %w", evt.Kind, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_events (topic, kind, session_id, payload, occurred_at, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			evt.Topic,
			string(evt.Kind),
			evt.SessionID,
			string(payload),
			toMillis(evt.OccurredAt),
			recordedAt,
		); err != nil {
			_ = tx.Rollback()
			if isSQLiteBusyError(err) {
				return fmt.Errorf("append %s event: journal busy: %w", evt.Kind, err)
			}
			return fmt.Errorf("append %s event: %w", evt.Kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// ListEvents reads journal entries matching filter.
func (j *Journal) ListEvents(ctx context.Context, filter storage.EventFilter) ([]storage.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j == nil || j.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	plan := buildListEventsSQLPlan(filter)
	rows, err := j.sqlDB.QueryContext(ctx,
		"SELECT seq, payload, recorded_at FROM session_events WHERE "+plan.whereClause+" "+plan.orderClause+plan.limitClause,
		plan.params...,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var entries []storage.JournalEntry
	for rows.Next() {
		var (
			seq        int64
			payload    string
			recordedAt int64
		)
		if err := rows.Scan(&seq, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt, err := decodePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("decode event %d: %w", seq, err)
		}
		entries = append(entries, storage.JournalEntry{Seq: seq, RecordedAt: fromMillis(recordedAt), Event: evt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return entries, nil
}

func decodePayload(payload string) (notify.Event, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal([]byte(payload), &s); err != nil {
		return notify.Event{}, err
	}
	return wire.DecodeEvent(&s)
}

func isSQLiteBusyError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code() & 0xff
	return code == sqlite3lib.SQLITE_BUSY || code == sqlite3lib.SQLITE_LOCKED
}
