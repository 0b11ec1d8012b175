package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

const postSelect = `
	SELECT p.id, p.body, p.timestamp, p.user_id, u.username AS author_username,
		p.chat_id, p.news_id, p.kind
	FROM post p
	JOIN "user" u ON u.id = p.user_id
`

type postRepository struct {
	db sqlx.ExtContext
}

func NewPostRepository(db sqlx.ExtContext) PostRepository {
	return &postRepository{db: db}
}

// Create stores a post. The timestamp is assigned here when the caller left
// it zero and is never updated afterwards.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if (post.ChatID == nil) == (post.NewsID == nil) {
		return fmt.Errorf("сообщение должно принадлежать ровно одной беседе или новости: %w", models.ErrValidation)
	}

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now().UTC()
	}
	if post.Kind == "" {
		post.Kind = models.PostKindMessage
	}

	query := `
		INSERT INTO post (id, body, timestamp, user_id, chat_id, news_id, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Body, post.Timestamp, post.UserID, post.ChatID, post.NewsID, post.Kind)
	if err != nil {
		return fmt.Errorf("ошибка при создании сообщения: %w", err)
	}

	return nil
}

func (r *postRepository) CountByChat(ctx context.Context, chatID string) (int, error) {
	var count int

	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM post WHERE chat_id = $1`, chatID); err != nil {
		return 0, fmt.Errorf("ошибка при подсчете сообщений: %w", err)
	}

	return count, nil
}

// ListByChat returns a window of the chat history, oldest first.
func (r *postRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]models.Post, error) {
	query := postSelect + `
		WHERE p.chat_id = $1
		ORDER BY p.timestamp ASC, p.id ASC
		LIMIT $2 OFFSET $3
	`

	posts := []models.Post{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, query, chatID, limit, offset); err != nil {
		return nil, fmt.Errorf("ошибка при получении сообщений: %w", err)
	}

	return posts, nil
}

func (r *postRepository) ListByNews(ctx context.Context, newsID string) ([]models.Post, error) {
	query := postSelect + `
		WHERE p.news_id = $1
		ORDER BY p.timestamp ASC, p.id ASC
	`

	posts := []models.Post{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, query, newsID); err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return posts, nil
}
