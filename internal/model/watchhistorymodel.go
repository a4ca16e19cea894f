package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ WatchHistoryModel = (*defaultWatchHistoryModel)(nil)

type (
	// WatchHistoryModel reads the canonical store's asset_watch_history
	// table. At most one open row (inactive_at IS NULL) may exist per
	// watch_list_id; the watch service enforces that on write.
	WatchHistoryModel interface {
		History(ctx context.Context, watchListId int64) ([]AssetWatchHistory, error)
		FindOpen(ctx context.Context, watchListId int64) (*AssetWatchHistory, error)
	}

	defaultWatchHistoryModel struct {
		conn sqlx.SqlConn
	}

	// AssetWatchHistory is one active interval of a watch entry.
	AssetWatchHistory struct {
		Id          int64        `db:"id"`
		WatchListId int64        `db:"watch_list_id"`
		ActiveFrom  time.Time    `db:"active_from"`
		InactiveAt  sql.NullTime `db:"inactive_at"`
	}
)

const watchHistoryRows = "id, watch_list_id, active_from, inactive_at"

// NewWatchHistoryModel returns a model for the asset_watch_history table.
func NewWatchHistoryModel(conn sqlx.SqlConn) WatchHistoryModel {
	return &defaultWatchHistoryModel{conn: conn}
}

func (m *defaultWatchHistoryModel) History(ctx context.Context, watchListId int64) ([]AssetWatchHistory, error) {
	query := fmt.Sprintf("SELECT %s FROM asset_watch_history WHERE watch_list_id = $1 ORDER BY active_from", watchHistoryRows)
	var rows []AssetWatchHistory
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, watchListId); err != nil {
		return nil, fmt.Errorf("watch history id=%d: %w", watchListId, err)
	}
	return rows, nil
}

func (m *defaultWatchHistoryModel) FindOpen(ctx context.Context, watchListId int64) (*AssetWatchHistory, error) {
	query := fmt.Sprintf("SELECT %s FROM asset_watch_history WHERE watch_list_id = $1 AND inactive_at IS NULL ORDER BY active_from DESC LIMIT 1", watchHistoryRows)
	var row AssetWatchHistory
	err := m.conn.QueryRowCtx(ctx, &row, query, watchListId)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("watch history open id=%d: %w", watchListId, err)
	}
}
