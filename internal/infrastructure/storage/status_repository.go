package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/ports"
)

// ErrMissingClientName is returned when a status check has no client name.
var ErrMissingClientName = errors.New("client_name is required")

const (
	statusTable     = "status_checks"
	statusListLimit = 1000
)

// SQLStatusRepository persists status checks into a relational table.
type SQLStatusRepository struct {
	db  *Database
	now func() time.Time
}

var _ ports.StatusRepository = (*SQLStatusRepository)(nil)

// NewSQLStatusRepository wires a database handle.
func NewSQLStatusRepository(db *Database) *SQLStatusRepository {
	return &SQLStatusRepository{db: db, now: time.Now}
}

// Create stores a new check stamped with the current time.
func (r *SQLStatusRepository) Create(ctx context.Context, clientName string) (domain.StatusCheck, error) {
	check, err := newStatusCheck(clientName, r.now())
	if err != nil {
		return domain.StatusCheck{}, err
	}

	_, err = r.db.builder.Insert(statusTable).
		Columns("id", "client_name", "created_at").
		Values(check.ID, check.ClientName, check.Timestamp).
		ExecContext(ctx)
	if err != nil {
		return domain.StatusCheck{}, fmt.Errorf("insert status check: %w", err)
	}

	return check, nil
}

// List returns stored checks, oldest first.
func (r *SQLStatusRepository) List(ctx context.Context) ([]domain.StatusCheck, error) {
	rows, err := r.db.builder.Select("id", "client_name", "created_at").
		From(statusTable).
		OrderBy("created_at ASC").
		Limit(statusListLimit).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query status checks: %w", err)
	}
	defer rows.Close()

	var checks []domain.StatusCheck
	for rows.Next() {
		var check domain.StatusCheck
		if err := rows.Scan(&check.ID, &check.ClientName, &check.Timestamp); err != nil {
			return nil, fmt.Errorf("scan status check: %w", err)
		}
		check.Timestamp = check.Timestamp.UTC()
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return checks, nil
}

func newStatusCheck(clientName string, now time.Time) (domain.StatusCheck, error) {
	if strings.TrimSpace(clientName) == "" {
		return domain.StatusCheck{}, ErrMissingClientName
	}
	return domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  now.UTC(),
	}, nil
}
