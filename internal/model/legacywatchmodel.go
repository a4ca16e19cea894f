package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ LegacyWatchModel = (*defaultLegacyWatchModel)(nil)

type (
	// LegacyWatchModel accesses the legacy store's watch_symbols table
	// (MySQL). The legacy schema stores exchange as '' rather than NULL;
	// every lookup coalesces so the two spellings compare equal.
	LegacyWatchModel interface {
		List(ctx context.Context) ([]LegacyWatch, error)
		FindByKey(ctx context.Context, symbol, exchange string) (*LegacyWatch, error)
		Insert(ctx context.Context, symbol, exchange string, active bool) (int64, error)
		UpdateActive(ctx context.Context, id int64, active bool) error
	}

	defaultLegacyWatchModel struct {
		conn sqlx.SqlConn
	}

	// LegacyWatch is one row of watch_symbols.
	LegacyWatch struct {
		Id        int64        `db:"id"`
		Symbol    string       `db:"symbol"`
		Exchange  string       `db:"exchange"`
		Active    bool         `db:"active"`
		CreatedAt time.Time    `db:"created_at"`
		UpdatedAt sql.NullTime `db:"updated_at"`
	}
)

const legacyWatchRows = "id, symbol, COALESCE(exchange, '') AS exchange, active, created_at, updated_at"

// NewLegacyWatchModel returns a model for the legacy watch_symbols table.
func NewLegacyWatchModel(conn sqlx.SqlConn) LegacyWatchModel {
	return &defaultLegacyWatchModel{conn: conn}
}

func (m *defaultLegacyWatchModel) List(ctx context.Context) ([]LegacyWatch, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_symbols ORDER BY id", legacyWatchRows)
	var rows []LegacyWatch
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("legacy watch list: %w", err)
	}
	return rows, nil
}

func (m *defaultLegacyWatchModel) FindByKey(ctx context.Context, symbol, exchange string) (*LegacyWatch, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_symbols WHERE symbol = ? AND COALESCE(exchange, '') = ? LIMIT 1", legacyWatchRows)
	var row LegacyWatch
	err := m.conn.QueryRowCtx(ctx, &row, query, symbol, exchange)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("legacy watch find %s/%s: %w", symbol, exchange, err)
	}
}

func (m *defaultLegacyWatchModel) Insert(ctx context.Context, symbol, exchange string, active bool) (int64, error) {
	const query = "INSERT INTO watch_symbols (symbol, exchange, active, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())"
	result, err := m.conn.ExecCtx(ctx, query, symbol, exchange, active)
	if err != nil {
		return 0, fmt.Errorf("legacy watch insert %s/%s: %w", symbol, exchange, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("legacy watch insert id: %w", err)
	}
	return id, nil
}

func (m *defaultLegacyWatchModel) UpdateActive(ctx context.Context, id int64, active bool) error {
	const query = "UPDATE watch_symbols SET active = ?, updated_at = NOW() WHERE id = ?"
	result, err := m.conn.ExecCtx(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("legacy watch update id=%d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("legacy watch update id=%d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
