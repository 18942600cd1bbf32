package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

// TileRepository implements ports.TileRepository.
type TileRepository struct {
	db *DB
}

func NewTileRepository(db *DB) *TileRepository {
	return &TileRepository{db: db}
}

const tileColumns = "id, x, y, frame_id, is_pending, placed_at"

func scanTile(row rowScanner) (*domain.Tile, error) {
	var t domain.Tile
	err := row.Scan(&t.ID, &t.X, &t.Y, &t.FrameID, &t.IsPending, &t.PlacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tile: %w", err)
	}
	return &t, nil
}

func (r *TileRepository) FindAt(ctx context.Context, x, y int) (*domain.Tile, error) {
	return scanTile(r.db.QueryRowContext(ctx, "SELECT "+tileColumns+" FROM tiles WHERE x = ? AND y = ?", x, y))
}

func (r *TileRepository) ListByFrame(ctx context.Context, frameID int64) ([]*domain.Tile, error) {
	return r.list(ctx, "SELECT "+tileColumns+" FROM tiles WHERE frame_id = ? ORDER BY id", frameID)
}

func (r *TileRepository) ListVisible(ctx context.Context) ([]*domain.Tile, error) {
	query := `
		SELECT t.id, t.x, t.y, t.frame_id, t.is_pending, t.placed_at
		FROM tiles t
		JOIN frames f ON f.id = t.frame_id
		WHERE t.is_pending = 0 AND f.is_pending = 0
		ORDER BY t.id
	`
	return r.list(ctx, query)
}

func (r *TileRepository) ListPendingByOwner(ctx context.Context, ownerID int64) ([]*domain.Tile, error) {
	query := `
		SELECT t.id, t.x, t.y, t.frame_id, t.is_pending, t.placed_at
		FROM tiles t
		JOIN frames f ON f.id = t.frame_id
		WHERE t.is_pending = 1 AND f.owner_id = ?
		ORDER BY t.id
	`
	return r.list(ctx, query, ownerID)
}

func (r *TileRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Tile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tiles: %w", err)
	}
	defer rows.Close()

	var tiles []*domain.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, rows.Err()
}

// Place inserts the tile and charges the frame inside one transaction.
// The UNIQUE(x, y) index rejects occupied cells, and the guarded UPDATE
// only matches when the frame is not pending and has at least one full
// tile of unspent approved time. Either failure rolls the whole
// placement back, so a concurrent placement can never leave a charged
// frame without its tile or vice versa.
func (r *TileRepository) Place(ctx context.Context, t *domain.Tile) (*domain.Tile, *domain.Frame, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("place tile: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO tiles (x, y, frame_id, is_pending, placed_at) VALUES (?, ?, ?, 0, ?)",
		t.X, t.Y, t.FrameID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, domain.ErrPositionOccupied
		}
		return nil, nil, fmt.Errorf("place tile: %w", err)
	}
	tileID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("place tile: %w", err)
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE frames
		SET placed_tiles = placed_tiles + 1
		WHERE id = ?
		  AND is_pending = 0
		  AND approved_time IS NOT NULL
		  AND approved_time >= (placed_tiles + 1) * ?
	`, t.FrameID, domain.TileCost)
	if err != nil {
		return nil, nil, fmt.Errorf("charge frame: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, nil, fmt.Errorf("charge frame: %w", err)
	} else if n == 0 {
		return nil, nil, domain.ErrBudgetExceeded
	}

	tile, err := scanTile(tx.QueryRowContext(ctx, "SELECT "+tileColumns+" FROM tiles WHERE id = ?", tileID))
	if err != nil {
		return nil, nil, err
	}
	frame, err := scanFrame(tx.QueryRowContext(ctx, "SELECT "+frameColumns+" FROM frames WHERE id = ?", t.FrameID))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("place tile: %w", err)
	}
	return tile, frame, nil
}

func (r *TileRepository) PlacePending(ctx context.Context, t *domain.Tile) (*domain.Tile, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tiles (x, y, frame_id, is_pending, placed_at) VALUES (?, ?, ?, 1, ?)",
		t.X, t.Y, t.FrameID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrPositionOccupied
		}
		return nil, fmt.Errorf("place pending tile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("place pending tile: %w", err)
	}
	return scanTile(r.db.QueryRowContext(ctx, "SELECT "+tileColumns+" FROM tiles WHERE id = ?", id))
}
