package watchpersist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"watchsync-api/internal/model"
)

// ErrNoOpenHistory reports a corrupted history invariant: an active entry
// was asked to deactivate but no open history row exists to close.
var ErrNoOpenHistory = errors.New("watchpersist: no open history row to close")

// Service implements the canonical store's transactional watch operations.
// The watch_list row and its asset_watch_history children always move
// together inside one transaction.
type Service struct {
	conn    sqlx.SqlConn
	watch   model.WatchListModel
	history model.WatchHistoryModel
}

// Config enumerates dependencies required by the watch service.
type Config struct {
	SQLConn      sqlx.SqlConn
	WatchModel   model.WatchListModel
	HistoryModel model.WatchHistoryModel
}

// NewService wires a canonical watch service.
func NewService(cfg Config) *Service {
	return &Service{
		conn:    cfg.SQLConn,
		watch:   cfg.WatchModel,
		history: cfg.HistoryModel,
	}
}

// Create inserts a watch entry; when active it also opens the first history
// row. Returns the persisted entry and, if opened, the history row.
func (s *Service) Create(ctx context.Context, symbol, exchange string, active bool) (*model.WatchList, *model.AssetWatchHistory, error) {
	symbol = strings.TrimSpace(symbol)
	exchange = strings.TrimSpace(exchange)
	if symbol == "" {
		return nil, nil, fmt.Errorf("watchpersist: symbol is required")
	}

	var entry model.WatchList
	var historyRow *model.AssetWatchHistory
	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		const insertEntry = `
INSERT INTO watch_list (symbol, exchange, active, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, symbol, COALESCE(exchange, '') AS exchange, active, created_at, updated_at`
		if err := session.QueryRowCtx(ctx, &entry, insertEntry, symbol, exchange, active); err != nil {
			return fmt.Errorf("insert watch entry %s/%s: %w", symbol, exchange, err)
		}
		if !active {
			return nil
		}
		const insertHistory = `
INSERT INTO asset_watch_history (watch_list_id, active_from)
VALUES ($1, NOW())
RETURNING id, watch_list_id, active_from, inactive_at`
		var opened model.AssetWatchHistory
		if err := session.QueryRowCtx(ctx, &opened, insertHistory, entry.Id); err != nil {
			return fmt.Errorf("open watch history id=%d: %w", entry.Id, err)
		}
		historyRow = &opened
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &entry, historyRow, nil
}

// SetActiveStatus flips an entry's active flag. Setting the state it already
// holds is a no-op. Activation opens a history row; deactivation closes the
// open one and fails with ErrNoOpenHistory when the invariant is broken.
func (s *Service) SetActiveStatus(ctx context.Context, id int64, active bool) error {
	return s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		var current model.WatchList
		const find = `
SELECT id, symbol, COALESCE(exchange, '') AS exchange, active, created_at, updated_at
FROM watch_list WHERE id = $1 FOR UPDATE`
		err := session.QueryRowCtx(ctx, &current, find, id)
		if errors.Is(err, sqlx.ErrNotFound) {
			return model.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find watch entry id=%d: %w", id, err)
		}
		if current.Active == active {
			return nil
		}

		const update = "UPDATE watch_list SET active = $1, updated_at = NOW() WHERE id = $2"
		if _, err := session.ExecCtx(ctx, update, active, id); err != nil {
			return fmt.Errorf("update watch entry id=%d: %w", id, err)
		}

		if active {
			const open = "INSERT INTO asset_watch_history (watch_list_id, active_from) VALUES ($1, NOW())"
			if _, err := session.ExecCtx(ctx, open, id); err != nil {
				return fmt.Errorf("open watch history id=%d: %w", id, err)
			}
			return nil
		}

		const closeOpen = `
UPDATE asset_watch_history SET inactive_at = NOW()
WHERE id = (
    SELECT id FROM asset_watch_history
    WHERE watch_list_id = $1 AND inactive_at IS NULL
    ORDER BY active_from DESC LIMIT 1
)`
		result, err := session.ExecCtx(ctx, closeOpen, id)
		if err != nil {
			return fmt.Errorf("close watch history id=%d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("close watch history id=%d: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("watch entry id=%d: %w", id, ErrNoOpenHistory)
		}
		return nil
	})
}

// List returns every canonical watch entry.
func (s *Service) List(ctx context.Context) ([]model.WatchList, error) {
	return s.watch.List(ctx)
}

// ListActive returns the entries the collection pipeline should pull.
func (s *Service) ListActive(ctx context.Context) ([]model.WatchList, error) {
	return s.watch.ListActive(ctx)
}

// FindByKey looks an entry up by its (symbol, exchange) key.
func (s *Service) FindByKey(ctx context.Context, symbol, exchange string) (*model.WatchList, error) {
	return s.watch.FindByKey(ctx, symbol, exchange)
}

// History returns an entry's active intervals, oldest first.
func (s *Service) History(ctx context.Context, watchListId int64) ([]model.AssetWatchHistory, error) {
	return s.history.History(ctx, watchListId)
}
