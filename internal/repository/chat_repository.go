package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

const chatColumns = `id, name, kind, direct_low_id, direct_high_id, image_url, created_at`

type chatRepository struct {
	db sqlx.ExtContext
}

func NewChatRepository(db sqlx.ExtContext) ChatRepository {
	return &chatRepository{db: db}
}

func prepareChat(chat *models.Chat) {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
}

// Create inserts a group chat. A name collision is reported as
// ErrDuplicateName.
func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	prepareChat(chat)
	chat.Kind = models.ChatKindGroup

	query := `
		INSERT INTO chat (id, name, kind, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, chat.ID, chat.Name, chat.Kind, chat.ImageURL, chat.CreatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "ux_chat_group_name" {
			return fmt.Errorf("беседа %q: %w", chat.Name, models.ErrDuplicateName)
		}
		return fmt.Errorf("ошибка при создании беседы: %w", err)
	}

	return nil
}

// CreateDirect inserts a direct chat keyed by its ordered user pair. It
// returns false when a chat for the pair already exists.
func (r *chatRepository) CreateDirect(ctx context.Context, chat *models.Chat) (bool, error) {
	if chat.DirectLowID == nil || chat.DirectHighID == nil {
		return false, fmt.Errorf("личная беседа без участников: %w", models.ErrValidation)
	}
	prepareChat(chat)
	chat.Kind = models.ChatKindDirect

	query := `
		INSERT INTO chat (id, name, kind, direct_low_id, direct_high_id, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (direct_low_id, direct_high_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		chat.ID, chat.Name, chat.Kind, *chat.DirectLowID, *chat.DirectHighID, chat.ImageURL, chat.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("ошибка при создании личной беседы: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке вставленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *chatRepository) getOne(ctx context.Context, what, query string, args ...interface{}) (*models.Chat, error) {
	var chat models.Chat

	err := sqlx.GetContext(ctx, r.db, &chat, query, args...)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("беседа %s: %w", what, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении беседы: %w", err)
	}

	return &chat, nil
}

func (r *chatRepository) GetByID(ctx context.Context, chatID string) (*models.Chat, error) {
	return r.getOne(ctx, chatID, `SELECT `+chatColumns+` FROM chat WHERE id = $1`, chatID)
}

func (r *chatRepository) GetGroupByName(ctx context.Context, name string) (*models.Chat, error) {
	return r.getOne(ctx, fmt.Sprintf("%q", name),
		`SELECT `+chatColumns+` FROM chat WHERE name = $1 AND kind = 'group'`, name)
}

func (r *chatRepository) GetDirect(ctx context.Context, lowID, highID string) (*models.Chat, error) {
	return r.getOne(ctx, lowID+"/"+highID,
		`SELECT `+chatColumns+` FROM chat WHERE direct_low_id = $1 AND direct_high_id = $2`, lowID, highID)
}

// AddMember reports whether a membership row was inserted; an existing
// membership is left as is.
func (r *chatRepository) AddMember(ctx context.Context, chatID, userID string) (bool, error) {
	query := `
		INSERT INTO user_chats (user_id, chat_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, chat_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, userID, chatID)
	if err != nil {
		return false, fmt.Errorf("ошибка при добавлении участника беседы: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке вставленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *chatRepository) RemoveMember(ctx context.Context, chatID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_chats WHERE user_id = $1 AND chat_id = $2`, userID, chatID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении участника беседы: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("участник %s беседы %s", userID, chatID))
}

func (r *chatRepository) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM user_chats WHERE user_id = $1 AND chat_id = $2)`

	if err := sqlx.GetContext(ctx, r.db, &exists, query, userID, chatID); err != nil {
		return false, fmt.Errorf("ошибка при проверке участника беседы: %w", err)
	}

	return exists, nil
}

func (r *chatRepository) Members(ctx context.Context, chatID string) ([]models.User, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `
		FROM "user" u
		JOIN user_chats uc ON uc.user_id = u.id
		WHERE uc.chat_id = $1
		ORDER BY u.username
	`

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query, chatID); err != nil {
		return nil, fmt.Errorf("ошибка при получении участников беседы: %w", err)
	}

	return users, nil
}

// ListForUser returns the chats userID belongs to with the timestamp of
// their latest post. Ordering is left to the caller.
func (r *chatRepository) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	query := `
		SELECT ` + prefixed("c", chatColumns) + `, MAX(p.timestamp) AS last_activity
		FROM chat c
		JOIN user_chats uc ON uc.chat_id = c.id
		LEFT JOIN post p ON p.chat_id = c.id
		WHERE uc.user_id = $1
		GROUP BY c.id
	`

	chats := []models.Chat{}
	if err := sqlx.SelectContext(ctx, r.db, &chats, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении бесед пользователя: %w", err)
	}

	return chats, nil
}

func (r *chatRepository) SetImage(ctx context.Context, chatID string, data []byte, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE chat SET image = $1, image_url = $2 WHERE id = $3`, data, url, chatID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении изображения беседы: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("беседа %s", chatID))
}

func (r *chatRepository) GetImage(ctx context.Context, chatID string) ([]byte, error) {
	return getBlob(ctx, r.db, `SELECT image FROM chat WHERE id = $1`, chatID, "изображение беседы")
}
