// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/retype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timestampLayout keeps every stored timestamp the same width so that SQL
// string comparison matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a text ID has no row.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for the text corpus and run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS texts (
			id INTEGER PRIMARY KEY,
			body TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			text_id TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_finished_at ON history(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_history_text_id ON history(text_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CountTexts returns the number of corpus texts. IDs run from 1 to the count.
func (s *Store) CountTexts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM texts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetText returns the corpus text with the given ID.
func (s *Store) GetText(ctx context.Context, id int64) (model.TextEntry, error) {
	entry := model.TextEntry{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT body FROM texts WHERE id = ?`, id).Scan(&entry.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TextEntry{}, fmt.Errorf("text %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.TextEntry{}, err
	}
	return entry, nil
}

// InsertTexts appends texts to the corpus and returns their IDs.
func (s *Store) InsertTexts(ctx context.Context, bodies []string) (ids []int64, err error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO texts (body) VALUES (?)`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, body := range bodies {
		res, err := stmt.ExecContext(ctx, body)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListTexts returns the whole corpus ordered by ID.
func (s *Store) ListTexts(ctx context.Context) ([]model.TextEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM texts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var texts []model.TextEntry
	for rows.Next() {
		var entry model.TextEntry
		if err := rows.Scan(&entry.ID, &entry.Body); err != nil {
			return nil, err
		}
		texts = append(texts, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return texts, nil
}

// AppendHistory stores one completed run. A run ID is generated when the
// record has none, and the local date and time are stored alongside the
// full timestamp.
func (s *Store) AppendHistory(ctx context.Context, rec model.HistoryRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = s.now()
	}
	local := rec.FinishedAt.Local()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (run_id, text_id, wpm, accuracy, elapsed_ms, date, time, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.TextID,
		rec.WPM,
		rec.Accuracy,
		rec.ElapsedMs,
		local.Format(time.DateOnly),
		local.Format(time.TimeOnly),
		rec.FinishedAt.UTC().Format(timestampLayout),
	)
	return err
}

// ListHistory returns runs in the order they were recorded. With q.Last set
// only the most recent q.Last runs are returned.
func (s *Store) ListHistory(ctx context.Context, q model.HistoryQuery) ([]model.HistoryRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if q.TextID != "" {
		clauses = append(clauses, "text_id = ?")
		args = append(args, q.TextID)
	}
	if q.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, q.Since.UTC().Format(timestampLayout))
	}
	limit := ""
	if q.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, q.Last)
	}
	query := fmt.Sprintf(`SELECT run_id, text_id, wpm, accuracy, elapsed_ms, finished_at FROM (
		SELECT id, run_id, text_id, wpm, accuracy, elapsed_ms, finished_at
		FROM history
		WHERE %s
		ORDER BY id DESC
		%s
	) ORDER BY id ASC`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		var finishedAt string
		if err := rows.Scan(&rec.RunID, &rec.TextID, &rec.WPM, &rec.Accuracy, &rec.ElapsedMs, &finishedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, finishedAt)
		if err != nil {
			return nil, err
		}
		rec.FinishedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
