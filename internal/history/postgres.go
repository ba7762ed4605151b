package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/postgres"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore shares history between operators through a table:
//
//	CREATE TABLE console_history (
//	    id         BIGSERIAL PRIMARY KEY,
//	    operator   TEXT NOT NULL,
//	    line       TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
// Lines are scoped by operator so each person keeps their own history.
type PostgresStore struct {
	db       *postgres.Client
	operator string
}

// NewPostgresStore creates the history table if needed.
func NewPostgresStore(ctx context.Context, db *postgres.Client, operator string) (*PostgresStore, error) {
	_, err := db.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS console_history (
		id         BIGSERIAL PRIMARY KEY,
		operator   TEXT NOT NULL,
		line       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating console_history table: %w", err)
	}
	return &PostgresStore{db: db, operator: operator}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT line FROM console_history WHERE operator = $1 ORDER BY id`,
		s.operator,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, lines []string) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO console_history (operator, line) VALUES ($1, $2)`)
		if err != nil {
			return fmt.Errorf("preparing history insert: %w", err)
		}
		defer stmt.Close()
		for _, line := range lines {
			if _, err := stmt.ExecContext(ctx, s.operator, line); err != nil {
				return fmt.Errorf("inserting history line: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
