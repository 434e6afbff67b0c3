package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EasyFinder/internal/domain"
)

func event(n int) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        fmt.Sprintf("evt-%d", n),
		Timestamp: time.Date(2026, time.January, 1, 0, 0, n, 0, time.UTC),
		Event:     domain.EventLeadScored,
		Data:      map[string]any{"n": n},
	}
}

func TestMemoryActivityLogCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := NewMemoryActivityLog(3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, log.Append(ctx, event(i)))
	}

	all, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "evt-3", all[0].ID)
	assert.Equal(t, "evt-5", all[2].ID)

	latest, err := log.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "evt-5", latest[0].ID)

	require.NoError(t, log.Clear(ctx))
	all, err = log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryActivityLogCopiesData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := NewMemoryActivityLog(0)
	e := event(1)
	require.NoError(t, log.Append(ctx, e))
	e.Data["n"] = 99

	got, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Data["n"])
}

func TestMemoryStatusRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryStatusRepository()

	_, err := repo.Create(ctx, "  ")
	require.ErrorIs(t, err, ErrMissingClientName)

	check, err := repo.Create(ctx, "dashboard")
	require.NoError(t, err)
	assert.NotEmpty(t, check.ID)
	assert.Equal(t, time.UTC, check.Timestamp.Location())

	checks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCheck{check}, checks)
}

func TestSQLActivityLogAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewSQLActivityLog(NewDatabase(db, DriverPostgres), 500)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_log (id,occurred_at,event,data) VALUES ($1,$2,$3,$4)")).
		WithArgs("evt-1", sqlmock.AnyArg(), "LEAD_SCORED", `{"n":1}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activity_log WHERE seq <= (SELECT MAX(seq) FROM activity_log) - $1")).
		WithArgs(500).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, log.Append(context.Background(), event(1)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLActivityLogRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewSQLActivityLog(NewDatabase(db, DriverSQLite), 0)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "event", "data"}).
		AddRow("evt-2", event(2).Timestamp, "EMAIL_SENT", `{"to":"a@b.c"}`).
		AddRow("evt-1", event(1).Timestamp, "LEAD_SCORED", `{"score":80}`)
	mock.ExpectQuery(`SELECT id, occurred_at, event, data FROM activity_log ORDER BY seq DESC LIMIT 2`).
		WillReturnRows(rows)

	events, err := log.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, domain.EventLeadScored, events[0].Event)
	assert.Equal(t, 80.0, events[0].Data["score"])
	assert.Equal(t, domain.EventEmailSent, events[1].Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLActivityLogRecentDecodeError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewSQLActivityLog(NewDatabase(db, DriverSQLite), 0)
	mock.ExpectQuery("SELECT (.+) FROM activity_log").
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "event", "data"}).
			AddRow("evt-1", time.Now(), "LEAD_SCORED", "not json"))

	_, err = log.Recent(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode activity evt-1")
}

func TestSQLActivityLogClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM activity_log").WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, NewSQLActivityLog(NewDatabase(db, DriverSQLite), 0).Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStatusRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLStatusRepository(NewDatabase(db, DriverPostgres))
	fixed := time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_checks (id,client_name,created_at) VALUES ($1,$2,$3)")).
		WithArgs(sqlmock.AnyArg(), "frontend", fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	check, err := repo.Create(context.Background(), "frontend")
	require.NoError(t, err)
	assert.Equal(t, fixed, check.Timestamp)

	mock.ExpectQuery("SELECT id, client_name, created_at FROM status_checks").
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_name", "created_at"}).
			AddRow(check.ID, "frontend", fixed))

	checks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCheck{check}, checks)

	_, err = repo.Create(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingClientName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestNewDatabaseSQLitePlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewSQLActivityLog(NewDatabase(db, DriverSQLite), 10)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_log (id,occurred_at,event,data) VALUES (?,?,?,?)")).
		WithArgs("evt-1", sqlmock.AnyArg(), "LEAD_SCORED", `{"n":1}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activity_log WHERE seq <= (SELECT MAX(seq) FROM activity_log) - ?")).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, log.Append(context.Background(), event(1)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareSQLite(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "nested", "x.db")
	dsn, err := prepareSQLite(plain)
	require.NoError(t, err)
	assert.Equal(t, plain+"?"+sqliteParams, dsn)
	assert.DirExists(t, filepath.Join(dir, "nested"))

	uri := "file:" + filepath.Join(dir, "uri", "x.db") + "?cache=shared"
	dsn, err = prepareSQLite(uri)
	require.NoError(t, err)
	assert.Equal(t, uri+"&"+sqliteParams, dsn)
	assert.NoDirExists(t, filepath.Join(dir, "uri"))
}

func TestOpenSQLiteURIWithQuery(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, "file:"+filepath.Join(t.TempDir(), "x.db")+"?cache=shared")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, NewSQLActivityLog(db, 0).Append(ctx, event(1)))
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "easyfinder.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	log := NewSQLActivityLog(db, 2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, log.Append(ctx, event(i)))
	}

	events, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-2", events[0].ID)
	assert.Equal(t, "evt-3", events[1].ID)
	assert.True(t, event(3).Timestamp.Equal(events[1].Timestamp))

	repo := NewSQLStatusRepository(db)
	_, err = repo.Create(ctx, "cli")
	require.NoError(t, err)
	checks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, "cli", checks[0].ClientName)
}
