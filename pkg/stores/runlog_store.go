package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/galleyproject/galley/pkg/telemetry"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunLogStore records compile runs and their lifecycle events in SQLite.
type RunLogStore struct {
	db   *sql.DB
	path string
}

// Config holds run-log store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewRunLogStore creates a new run-log store instance.
func NewRunLogStore(cfg Config) (*RunLogStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &RunLogStore{path: cfg.Path}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *RunLogStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Foreign keys are a connection-level setting
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *RunLogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *RunLogStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateRun records the start of a compile run.
func (s *RunLogStore) CreateRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (id, node_name, status, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.NodeName,
		run.Status,
		run.StartedAt,
		run.CompletedAt,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun records a run's final status and optional error.
func (s *RunLogStore) CompleteRun(ctx context.Context, runID string, status RunStatus, runErr error) error {
	var errText *string
	if runErr != nil {
		msg := runErr.Error()
		errText = &msg
	}
	query := `
		UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), errText, runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunLogStore) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT id, node_name, status, started_at, completed_at, error
		FROM runs
		WHERE id = ?
	`
	run := &Run{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.NodeName,
		&run.Status,
		&run.StartedAt,
		&run.CompletedAt,
		&run.Error,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// AppendEvent records one lifecycle event.
func (s *RunLogStore) AppendEvent(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO events (id, run_id, type, phase, path, message, level, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.RunID,
		event.Type,
		event.Phase,
		event.Path,
		event.Message,
		event.Level,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// GetEvents retrieves a run's events in recorded order.
func (s *RunLogStore) GetEvents(ctx context.Context, runID string) ([]Event, error) {
	query := `
		SELECT id, run_id, type, phase, path, message, level, timestamp
		FROM events
		WHERE run_id = ?
		ORDER BY timestamp, id
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.RunID, &e.Type, &e.Phase, &e.Path, &e.Message, &e.Level, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// Subscriber returns a telemetry subscriber that persists every published
// event. Persistence failures are swallowed after the fact; the run itself
// must not fail because its audit trail hiccuped.
func (s *RunLogStore) Subscriber(ctx context.Context) telemetry.EventSubscriber {
	return func(event telemetry.Event) {
		_ = s.AppendEvent(ctx, &Event{
			ID:        event.ID,
			RunID:     event.RunID,
			Type:      event.Type,
			Phase:     event.Phase,
			Path:      event.Path,
			Message:   event.Message,
			Level:     event.Level,
			Timestamp: event.Timestamp,
		})
	}
}
