package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"swapcap/internal/model"
	"swapcap/internal/storage"
)

const createLogsTable = `
	CREATE TABLE IF NOT EXISTS logs (
		tx_hash TEXT,
		sender_address TEXT,
		receiver_address TEXT,
		amount0 TEXT,
		amount1 TEXT,
		sqrt_price TEXT,
		liquidity TEXT,
		tick INTEGER
	)`

const insertLog = `
	INSERT INTO logs (
		tx_hash, sender_address, receiver_address,
		amount0, amount1, sqrt_price, liquidity, tick
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Store provides Postgres persistence for swap records. Big numeric
// columns are text: the values exceed native integer ranges.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens a connection pool and ensures the logs table exists.
// Safe to call against an existing table.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: pg dsn is required", storage.ErrPersistence)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open pool: %v", storage.ErrPersistence, err)
	}
	if _, err := pool.Exec(ctx, createLogsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: create logs table: %v", storage.ErrPersistence, err)
	}
	return &Store{pool: pool}, nil
}

// Append commits one record as a new row.
func (s *Store) Append(ctx context.Context, record model.SwapRecord) error {
	row := record.Row()
	_, err := s.pool.Exec(ctx, insertLog,
		row.TxHash,
		row.SenderAddress,
		row.ReceiverAddress,
		row.Amount0,
		row.Amount1,
		row.SqrtPrice,
		row.Liquidity,
		row.Tick,
	)
	if err != nil {
		return fmt.Errorf("%w: insert log: %v", storage.ErrPersistence, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Rows returns all persisted rows in insertion order. Test support only.
func (s *Store) Rows(ctx context.Context) ([]model.SwapRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tx_hash, sender_address, receiver_address,
		       amount0, amount1, sqrt_price, liquidity, tick
		FROM logs`)
	if err != nil {
		return nil, fmt.Errorf("%w: query logs: %v", storage.ErrPersistence, err)
	}
	defer rows.Close()

	var out []model.SwapRow
	for rows.Next() {
		var r model.SwapRow
		if err := rows.Scan(
			&r.TxHash, &r.SenderAddress, &r.ReceiverAddress,
			&r.Amount0, &r.Amount1, &r.SqrtPrice, &r.Liquidity, &r.Tick,
		); err != nil {
			return nil, fmt.Errorf("%w: scan log row: %v", storage.ErrPersistence, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate logs: %v", storage.ErrPersistence, err)
	}
	return out, nil
}
