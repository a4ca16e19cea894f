package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ WatchListModel = (*defaultWatchListModel)(nil)

type (
	// WatchListModel reads the canonical store's watch_list table
	// (Postgres). Writes are transactional and live in the watch
	// persistence service so they can span the history table.
	WatchListModel interface {
		List(ctx context.Context) ([]WatchList, error)
		ListActive(ctx context.Context) ([]WatchList, error)
		FindOne(ctx context.Context, id int64) (*WatchList, error)
		FindByKey(ctx context.Context, symbol, exchange string) (*WatchList, error)
	}

	defaultWatchListModel struct {
		conn sqlx.SqlConn
	}

	// WatchList is one row of watch_list. Exchange is coalesced to ''
	// on read so NULL and '' form the same key.
	WatchList struct {
		Id        int64        `db:"id"`
		Symbol    string       `db:"symbol"`
		Exchange  string       `db:"exchange"`
		Active    bool         `db:"active"`
		CreatedAt time.Time    `db:"created_at"`
		UpdatedAt sql.NullTime `db:"updated_at"`
	}
)

const watchListRows = "id, symbol, COALESCE(exchange, '') AS exchange, active, created_at, updated_at"

// NewWatchListModel returns a model for the canonical watch_list table.
func NewWatchListModel(conn sqlx.SqlConn) WatchListModel {
	return &defaultWatchListModel{conn: conn}
}

func (m *defaultWatchListModel) List(ctx context.Context) ([]WatchList, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_list ORDER BY id", watchListRows)
	var rows []WatchList
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("watch list: %w", err)
	}
	return rows, nil
}

func (m *defaultWatchListModel) ListActive(ctx context.Context) ([]WatchList, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_list WHERE active ORDER BY id", watchListRows)
	var rows []WatchList
	if err := m.conn.QueryRowsCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("watch list active: %w", err)
	}
	return rows, nil
}

func (m *defaultWatchListModel) FindOne(ctx context.Context, id int64) (*WatchList, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_list WHERE id = $1 LIMIT 1", watchListRows)
	var row WatchList
	err := m.conn.QueryRowCtx(ctx, &row, query, id)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("watch list find id=%d: %w", id, err)
	}
}

func (m *defaultWatchListModel) FindByKey(ctx context.Context, symbol, exchange string) (*WatchList, error) {
	query := fmt.Sprintf("SELECT %s FROM watch_list WHERE symbol = $1 AND COALESCE(exchange, '') = $2 LIMIT 1", watchListRows)
	var row WatchList
	err := m.conn.QueryRowCtx(ctx, &row, query, symbol, exchange)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("watch list find %s/%s: %w", symbol, exchange, err)
	}
}
