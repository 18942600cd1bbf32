package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

// FrameRepository implements ports.FrameRepository.
type FrameRepository struct {
	db *DB
}

func NewFrameRepository(db *DB) *FrameRepository {
	return &FrameRepository{db: db}
}

const frameColumns = "id, owner_id, url, project_names, is_pending, approved_time, placed_tiles, tracker_record_id, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFrame(row rowScanner) (*domain.Frame, error) {
	var (
		f        domain.Frame
		approved sql.NullInt64
	)
	err := row.Scan(&f.ID, &f.OwnerID, &f.URL, &f.ProjectNames, &f.IsPending, &approved, &f.PlacedTiles, &f.TrackerRecordID, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFrameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan frame: %w", err)
	}
	if approved.Valid {
		f.ApprovedTime = &approved.Int64
	}
	return &f, nil
}

func (r *FrameRepository) Create(ctx context.Context, f *domain.Frame) (*domain.Frame, error) {
	query := `
		INSERT INTO frames (owner_id, url, project_names, is_pending, placed_tiles, tracker_record_id, created_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, f.OwnerID, f.URL, f.ProjectNames, f.IsPending, f.TrackerRecordID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("create frame: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create frame: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *FrameRepository) FindByID(ctx context.Context, id int64) (*domain.Frame, error) {
	return scanFrame(r.db.QueryRowContext(ctx, "SELECT "+frameColumns+" FROM frames WHERE id = ?", id))
}

func (r *FrameRepository) FindByURL(ctx context.Context, url string) (*domain.Frame, error) {
	return scanFrame(r.db.QueryRowContext(ctx, "SELECT "+frameColumns+" FROM frames WHERE url = ? ORDER BY id LIMIT 1", url))
}

func (r *FrameRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Frame, error) {
	return r.list(ctx, "SELECT "+frameColumns+" FROM frames WHERE owner_id = ? ORDER BY id", ownerID)
}

func (r *FrameRepository) LatestByOwner(ctx context.Context, ownerID int64, limit int) ([]*domain.Frame, error) {
	return r.list(ctx, "SELECT "+frameColumns+" FROM frames WHERE owner_id = ? ORDER BY id DESC LIMIT ?", ownerID, limit)
}

func (r *FrameRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Frame, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var frames []*domain.Frame
	for rows.Next() {
		f, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// SetApproval replaces the approved-time balance and clears the pending
// flag. Replacement, not accumulation: re-approving the same work twice
// must not double-credit.
func (r *FrameRepository) SetApproval(ctx context.Context, id int64, approvedTime int64) (*domain.Frame, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE frames SET approved_time = ?, is_pending = 0 WHERE id = ?", approvedTime, id)
	if err != nil {
		return nil, fmt.Errorf("approve frame: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrFrameNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *FrameRepository) MarkPending(ctx context.Context, id int64) (*domain.Frame, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE frames SET is_pending = 1 WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("mark frame pending: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrFrameNotFound
	}
	return r.FindByID(ctx, id)
}
