package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"coalition_site/internal/model"
	"coalition_site/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveSession inserts or replaces the session of a carousel message.
func (s *SQLite) SaveSession(ctx context.Context, ls *model.ListSession) error {
	now := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list_sessions (chat_id, message_id, list, filter, sort, idx, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (chat_id, message_id) DO UPDATE SET
		   list = excluded.list, filter = excluded.filter, sort = excluded.sort,
		   idx = excluded.idx, updated_at = excluded.updated_at`,
		ls.ChatID, ls.MessageID, ls.List, ls.Filter, ls.Sort, ls.Index, now,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	ls.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetSession returns the session of a carousel message.
func (s *SQLite) GetSession(ctx context.Context, chatID int64, messageID int) (*model.ListSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_id, message_id, list, filter, sort, idx, updated_at
		 FROM list_sessions WHERE chat_id = ? AND message_id = ?`, chatID, messageID,
	)
	var ls model.ListSession
	var updated string
	err := row.Scan(&ls.ChatID, &ls.MessageID, &ls.List, &ls.Filter, &ls.Sort, &ls.Index, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d/%d: %w", chatID, messageID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	ls.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &ls, nil
}

// PruneSessions deletes sessions last touched before the given time.
func (s *SQLite) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM list_sessions WHERE updated_at < ?`, before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// CreateCountdown inserts a countdown and populates its ID and CreatedAt.
func (s *SQLite) CreateCountdown(ctx context.Context, c *model.Countdown) error {
	now := s.now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO countdowns (chat_id, message_id, label, target_at, is_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ChatID, c.MessageID, c.Label, c.Target.UTC().Format(timeLayout), boolToInt(c.Completed), now,
	)
	if err != nil {
		return fmt.Errorf("insert countdown: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetCountdown returns a single countdown by its ID.
func (s *SQLite) GetCountdown(ctx context.Context, id int64) (*model.Countdown, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chat_id, message_id, label, target_at, is_completed, created_at
		 FROM countdowns WHERE id = ?`, id,
	)
	c, err := scanCountdown(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("countdown %d: %w", id, ErrNotFound)
	}
	return c, err
}

// ListCountdowns returns all countdowns of a chat, oldest first.
func (s *SQLite) ListCountdowns(ctx context.Context, chatID int64) ([]model.Countdown, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, message_id, label, target_at, is_completed, created_at
		 FROM countdowns WHERE chat_id = ? ORDER BY id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("query countdowns: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCountdowns(rows)
}

// ListActiveCountdowns returns every countdown that has a message and has
// not been completed yet.
func (s *SQLite) ListActiveCountdowns(ctx context.Context) ([]model.Countdown, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, message_id, label, target_at, is_completed, created_at
		 FROM countdowns WHERE is_completed = 0 AND message_id != 0 ORDER BY target_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active countdowns: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCountdowns(rows)
}

// SetCountdownMessage records the message that displays a countdown.
func (s *SQLite) SetCountdownMessage(ctx context.Context, id int64, messageID int) error {
	return s.exec(ctx, "set countdown message", id,
		`UPDATE countdowns SET message_id = ? WHERE id = ?`, messageID, id)
}

// CompleteCountdown marks a countdown as finished.
func (s *SQLite) CompleteCountdown(ctx context.Context, id int64) error {
	return s.exec(ctx, "complete countdown", id,
		`UPDATE countdowns SET is_completed = 1 WHERE id = ?`, id)
}

// DeleteCountdown removes a countdown by its ID.
func (s *SQLite) DeleteCountdown(ctx context.Context, id int64) error {
	return s.exec(ctx, "delete countdown", id, `DELETE FROM countdowns WHERE id = ?`, id)
}

// exec runs a single-row statement and reports ErrNotFound when no row changed.
func (s *SQLite) exec(ctx context.Context, op string, id int64, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCountdown(row scannable) (*model.Countdown, error) {
	var c model.Countdown
	var completed int
	var target, created string
	err := row.Scan(&c.ID, &c.ChatID, &c.MessageID, &c.Label, &target, &completed, &created)
	if err != nil {
		return nil, fmt.Errorf("scan countdown: %w", err)
	}
	c.Completed = completed == 1
	c.Target, _ = time.Parse(timeLayout, target)
	c.CreatedAt, _ = time.Parse(timeLayout, created)
	return &c, nil
}

func scanCountdowns(rows *sql.Rows) ([]model.Countdown, error) {
	var out []model.Countdown
	for rows.Next() {
		c, err := scanCountdown(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
