package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

// PgTable keeps each record of a collection as one JSONB row in records,
// ordered by position.
type PgTable[T any] struct {
	db         pgQuerier
	collection string
}

// pgQuerier is the subset of pgxpool.Pool a table needs, so tests can pass a pgxmock pool.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

func NewPgTable[T any](db pgQuerier, collection string) *PgTable[T] {
	return &PgTable[T]{db: db, collection: collection}
}

func (t *PgTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	rows, err := t.db.Query(ctx, `
		SELECT body
		FROM records
		WHERE collection = $1
		ORDER BY position
	`, t.collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.collection, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.collection, err)
		}
		var rec T
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", t.collection, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveAll replaces the collection inside one transaction.
func (t *PgTable[T]) SaveAll(ctx context.Context, records []T) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s save: %w", t.collection, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE collection = $1`, t.collection); err != nil {
		return fmt.Errorf("clear %s: %w", t.collection, err)
	}
	for i, rec := range records {
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s row %d: %w", t.collection, i, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO records (collection, position, body)
			VALUES ($1, $2, $3)
		`, t.collection, i, string(body)); err != nil {
			return fmt.Errorf("insert %s row %d: %w", t.collection, i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s save: %w", t.collection, err)
	}
	return nil
}

type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgEventRecorder appends appointment events to event_logs.
type PgEventRecorder struct {
	db pgExecer
}

func NewPgEventRecorder(db pgExecer) *PgEventRecorder {
	return &PgEventRecorder{db: db}
}

func (r *PgEventRecorder) InsertEvent(ctx context.Context, ev schedule.EventLog) error {
	var payload *string
	if len(ev.Payload) > 0 {
		s := string(ev.Payload)
		payload = &s
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
