package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hackclub/iplace/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, slack_id, name, avatar, created_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.SlackID, &u.Name, &u.Avatar, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (r *UserRepository) FindBySlackID(ctx context.Context, slackID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE slack_id = ?", slackID)
	return scanUser(row)
}

// Upsert inserts the user on first login; on conflict with the unique
// slack_id it refreshes name and avatar instead.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (slack_id, name, avatar, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slack_id) DO UPDATE SET name = excluded.name, avatar = excluded.avatar
	`
	if _, err := r.db.ExecContext(ctx, query, u.SlackID, u.Name, u.Avatar, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return r.FindBySlackID(ctx, u.SlackID)
}
