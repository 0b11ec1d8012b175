package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

const newsSelect = `
	SELECT n.id, n.body, n.timestamp, n.user_id, u.username AS author_username, n.image_url,
		(SELECT COUNT(*) FROM user_news un WHERE un.news_id = n.id) AS likes
	FROM news n
	JOIN "user" u ON u.id = n.user_id
`

type newsRepository struct {
	db sqlx.ExtContext
}

func NewNewsRepository(db sqlx.ExtContext) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	if news.ID == "" {
		news.ID = uuid.New().String()
	}
	if news.Timestamp.IsZero() {
		news.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO news (id, body, timestamp, user_id, image_url)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, news.ID, news.Body, news.Timestamp, news.UserID, news.ImageURL)
	if err != nil {
		return fmt.Errorf("ошибка при создании новости: %w", err)
	}

	return nil
}

func (r *newsRepository) GetByID(ctx context.Context, newsID string) (*models.News, error) {
	var news models.News

	err := sqlx.GetContext(ctx, r.db, &news, newsSelect+` WHERE n.id = $1`, newsID)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("новость %s: %w", newsID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении новости: %w", err)
	}

	return &news, nil
}

// Feed returns news written by users that userID follows and by users that
// follow userID, newest first.
func (r *newsRepository) Feed(ctx context.Context, userID string, limit int) ([]models.News, error) {
	query := newsSelect + `
		WHERE n.user_id IN (
			SELECT followed_id FROM followers WHERE follower_id = $1
			UNION
			SELECT follower_id FROM followers WHERE followed_id = $1
		)
		ORDER BY n.timestamp DESC, n.id DESC
		LIMIT $2
	`

	items := []models.News{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, userID, limit); err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты новостей: %w", err)
	}

	return items, nil
}

func (r *newsRepository) Like(ctx context.Context, newsID, userID string) error {
	query := `
		INSERT INTO user_news (user_id, news_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, news_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, newsID); err != nil {
		return fmt.Errorf("ошибка при добавлении отметки «нравится»: %w", err)
	}

	return nil
}

func (r *newsRepository) Unlike(ctx context.Context, newsID, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_news WHERE user_id = $1 AND news_id = $2`, userID, newsID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении отметки «нравится»: %w", err)
	}

	return nil
}

func (r *newsRepository) SetImage(ctx context.Context, newsID string, data []byte, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE news SET image = $1, image_url = $2 WHERE id = $3`, data, url, newsID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении изображения новости: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("новость %s", newsID))
}

func (r *newsRepository) GetImage(ctx context.Context, newsID string) ([]byte, error) {
	return getBlob(ctx, r.db, `SELECT image FROM news WHERE id = $1`, newsID, "изображение новости")
}
