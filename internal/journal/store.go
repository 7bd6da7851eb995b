package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/garbled1/ps-ripper/internal/config"
)

// Entry is one completed archive.
type Entry struct {
	ID          int64
	Serial      string
	Label       string
	UniqueID    string
	MediaKind   string
	Region      string
	ArchivePath string
	CompletedAt time.Time
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a completed archive.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	completed := entry.CompletedAt
	if completed.IsZero() {
		completed = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO archive_journal (
            serial, label, unique_id, media_kind, region, archive_path, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullableString(entry.Serial),
		entry.Label,
		entry.UniqueID,
		entry.MediaKind,
		nullableString(entry.Region),
		entry.ArchivePath,
		completed.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first. limit <= 0 returns
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, serial, label, unique_id, media_kind, region, archive_path, completed_at
        FROM archive_journal ORDER BY completed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			serial    sql.NullString
			region    sql.NullString
			completed string
		)
		if err := rows.Scan(&entry.ID, &serial, &entry.Label, &entry.UniqueID, &entry.MediaKind, &region, &entry.ArchivePath, &completed); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Serial = serial.String
		entry.Region = region.String
		if parsed, err := time.Parse(time.RFC3339Nano, completed); err == nil {
			entry.CompletedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
