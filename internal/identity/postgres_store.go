package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS player_identity (
    seat      INTEGER PRIMARY KEY,
    player_id TEXT    NOT NULL,
    name      TEXT    NOT NULL,
    color     TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS tracker_settings (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    starting_life INTEGER NOT NULL
);`

// PostgresStore keeps the identity in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgresStore connects to dsn and ensures the schema exists.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load reads the identity. An empty database yields ErrNotFound.
func (s *PostgresStore) Load(ctx context.Context) (Identity, error) {
	var id Identity
	err := s.pool.QueryRow(ctx,
		`SELECT starting_life FROM tracker_settings WHERE id = 1`,
	).Scan(&id.StartingLife)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("query settings: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT player_id, name, color FROM player_identity ORDER BY seat`)
	if err != nil {
		return Identity{}, fmt.Errorf("query players: %w", err)
	}
	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PlayerIdentity, error) {
		var p PlayerIdentity
		err := row.Scan(&p.ID, &p.Name, &p.Color)
		return p, err
	})
	if err != nil {
		return Identity{}, fmt.Errorf("scan players: %w", err)
	}
	id.Players = players
	return id, nil
}

// Save replaces the stored identity in a single transaction.
func (s *PostgresStore) Save(ctx context.Context, id Identity) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tracker_settings (id, starting_life) VALUES (1, $1)
			 ON CONFLICT (id) DO UPDATE SET starting_life = EXCLUDED.starting_life`,
			id.StartingLife,
		); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM player_identity`)
		for seat, p := range id.Players {
			batch.Queue(
				`INSERT INTO player_identity (seat, player_id, name, color) VALUES ($1, $2, $3, $4)`,
				seat, p.ID, p.Name, p.Color,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save players: %w", err)
		}
		return nil
	})
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
