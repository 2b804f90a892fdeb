package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore keeps the identity in a SQLite database file.
type SQLiteStore struct {
	conn *sql.DB
	path string
}

// OpenSQLiteStore migrates and opens the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	mgr, err := NewMigrationManager(path)
	if err != nil {
		return nil, err
	}
	if err := mgr.Up(); err != nil {
		mgr.Close()
		return nil, err
	}
	if err := mgr.Close(); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, (5 * time.Second).Milliseconds())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{conn: conn, path: path}, nil
}

// Load reads the identity. An empty database yields ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context) (Identity, error) {
	var id Identity
	err := s.conn.QueryRowContext(ctx,
		`SELECT starting_life FROM tracker_settings WHERE id = 1`,
	).Scan(&id.StartingLife)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("query settings: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT player_id, name, color FROM player_identity ORDER BY seat`)
	if err != nil {
		return Identity{}, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerIdentity
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return Identity{}, fmt.Errorf("scan player: %w", err)
		}
		id.Players = append(id.Players, p)
	}
	if err := rows.Err(); err != nil {
		return Identity{}, fmt.Errorf("iterate players: %w", err)
	}
	return id, nil
}

// Save replaces the stored identity in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, id Identity) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tracker_settings (id, starting_life) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET starting_life = excluded.starting_life`,
		id.StartingLife,
	); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_identity`); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	for seat, p := range id.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_identity (seat, player_id, name, color) VALUES (?, ?, ?, ?)`,
			seat, p.ID, p.Name, p.Color,
		); err != nil {
			return fmt.Errorf("save player %d: %w", seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
