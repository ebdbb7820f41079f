package stores

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

// sqliteHistory stores messages as ordered rows per user. Save deletes and
// reinserts the user's rows inside one transaction, which preserves the
// replace-whole-record contract under a crash.
type sqliteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteHistory(path string) (History, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db at %s: %w", path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db at %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			user_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (user_id, seq)
		);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &sqliteHistory{db: db}, nil
}

func (s *sqliteHistory) Load(ctx context.Context, userID string) (chat.Messages, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		logger().Infow("query history fail", "user", userID, "err", err)
		return chat.Messages{}, nil
	}
	defer rows.Close()

	data := chat.Messages{}
	for rows.Next() {
		var msg chat.Message
		if err = rows.Scan(&msg.Role, &msg.Content); err != nil {
			logger().Infow("scan history row fail", "user", userID, "err", err)
			return chat.Messages{}, nil
		}
		data = append(data, msg)
	}
	if err = rows.Err(); err != nil {
		logger().Infow("iterate history fail", "user", userID, "err", err)
		return chat.Messages{}, nil
	}
	return data, nil
}

func (s *sqliteHistory) Save(ctx context.Context, userID string, msgs chat.Messages) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	for i, msg := range msgs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO messages (user_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			userID, i, msg.Role, msg.Content)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteHistory) Clear(ctx context.Context, userID string) error {
	return s.Save(ctx, userID, nil)
}

func (s *sqliteHistory) Close() error { return s.db.Close() }
