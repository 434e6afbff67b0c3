package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/ports"
)

const (
	// DefaultRecentLimit applies when callers ask for a non-positive limit.
	DefaultRecentLimit = 100
	// DefaultRetention is the number of newest entries kept.
	DefaultRetention = 1000

	activityTable = "activity_log"
)

// SQLActivityLog persists activity events into a relational table.
type SQLActivityLog struct {
	db        *Database
	retention int
}

var _ ports.ActivityLog = (*SQLActivityLog)(nil)

// NewSQLActivityLog wires the log; retention <= 0 keeps DefaultRetention rows.
func NewSQLActivityLog(db *Database, retention int) *SQLActivityLog {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SQLActivityLog{db: db, retention: retention}
}

// Append inserts the event and trims rows beyond the retention window.
func (r *SQLActivityLog) Append(ctx context.Context, event domain.ActivityEvent) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal activity data: %w", err)
	}

	_, err = r.db.builder.Insert(activityTable).
		Columns("id", "occurred_at", "event", "data").
		Values(event.ID, event.Timestamp.UTC(), string(event.Event), string(payload)).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	_, err = r.db.builder.Delete(activityTable).
		Where(sq.Expr("seq <= (SELECT MAX(seq) FROM "+activityTable+") - ?", r.retention)).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("trim activity: %w", err)
	}

	return nil
}

// Recent returns up to limit newest events, oldest first.
func (r *SQLActivityLog) Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := r.db.builder.Select("id", "occurred_at", "event", "data").
		From(activityTable).
		OrderBy("seq DESC").
		Limit(uint64(limit)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}

	var events []domain.ActivityEvent
	for rows.Next() {
		var (
			event      domain.ActivityEvent
			kind       string
			payload    string
			occurredAt time.Time
		)
		if err := rows.Scan(&event.ID, &occurredAt, &kind, &payload); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &event.Data); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode activity %s: %w", event.ID, err)
		}
		event.Event = domain.EventType(kind)
		event.Timestamp = occurredAt.UTC()
		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	slices.Reverse(events)
	return events, nil
}

// Clear removes every event.
func (r *SQLActivityLog) Clear(ctx context.Context) error {
	if _, err := r.db.builder.Delete(activityTable).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	return nil
}
