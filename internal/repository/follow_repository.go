package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

type followRepository struct {
	db sqlx.ExtContext
}

func NewFollowRepository(db sqlx.ExtContext) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the directed edge follower -> followed. An existing edge is
// left untouched.
func (r *followRepository) Follow(ctx context.Context, followerID, followedID string) error {
	query := `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, followerID, followedID); err != nil {
		return fmt.Errorf("ошибка при добавлении подписки: %w", err)
	}

	return nil
}

func (r *followRepository) DeleteEdge(ctx context.Context, followerID, followedID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)`

	if err := sqlx.GetContext(ctx, r.db, &exists, query, followerID, followedID); err != nil {
		return false, fmt.Errorf("ошибка при проверке подписки: %w", err)
	}

	return exists, nil
}

// Followers returns the users that follow userID.
func (r *followRepository) Followers(ctx context.Context, userID string) ([]models.User, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `
		FROM "user" u
		JOIN followers f ON f.follower_id = u.id
		WHERE f.followed_id = $1
		ORDER BY u.username
	`

	return r.selectUsers(ctx, query, userID)
}

// Following returns the users that userID follows.
func (r *followRepository) Following(ctx context.Context, userID string) ([]models.User, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `
		FROM "user" u
		JOIN followers f ON f.followed_id = u.id
		WHERE f.follower_id = $1
		ORDER BY u.username
	`

	return r.selectUsers(ctx, query, userID)
}

// Connections returns ids of everyone linked to userID by an edge in either
// direction.
func (r *followRepository) Connections(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT followed_id FROM followers WHERE follower_id = $1
		UNION
		SELECT follower_id FROM followers WHERE followed_id = $1
	`

	var ids []string
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении связей пользователя: %w", err)
	}

	return ids, nil
}

func (r *followRepository) selectUsers(ctx context.Context, query, userID string) ([]models.User, error) {
	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении списка друзей: %w", err)
	}

	return users, nil
}
