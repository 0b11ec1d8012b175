package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

type invitationRepository struct {
	db sqlx.ExtContext
}

func NewInvitationRepository(db sqlx.ExtContext) InvitationRepository {
	return &invitationRepository{db: db}
}

// Create stores a pending invitation. A second invitation for the same user
// and chat is rejected with ErrDuplicateInvitation.
func (r *invitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO invitation (id, user_id, chat_id, inviter_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		invitation.ID, invitation.UserID, invitation.ChatID, invitation.InviterID, invitation.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("пользователь %s в беседу %s: %w",
				invitation.UserID, invitation.ChatID, models.ErrDuplicateInvitation)
		}
		return fmt.Errorf("ошибка при создании приглашения: %w", err)
	}

	return nil
}

func (r *invitationRepository) get(ctx context.Context, query, invitationID string) (*models.Invitation, error) {
	var invitation models.Invitation

	err := sqlx.GetContext(ctx, r.db, &invitation, query, invitationID)
	if err != nil {
		if noRow(err) {
			return nil, fmt.Errorf("приглашение %s: %w", invitationID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении приглашения: %w", err)
	}

	return &invitation, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return r.get(ctx, `SELECT id, user_id, chat_id, inviter_id, created_at FROM invitation WHERE id = $1`, invitationID)
}

// GetByIDForUpdate locks the invitation row until the surrounding
// transaction ends.
func (r *invitationRepository) GetByIDForUpdate(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return r.get(ctx,
		`SELECT id, user_id, chat_id, inviter_id, created_at FROM invitation WHERE id = $1 FOR UPDATE`, invitationID)
}

func (r *invitationRepository) Delete(ctx context.Context, invitationID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invitation WHERE id = $1`, invitationID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении приглашения: %w", err)
	}

	return expectOneRow(result, fmt.Sprintf("приглашение %s", invitationID))
}

func (r *invitationRepository) ListForUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	query := `
		SELECT i.id, i.user_id, i.chat_id, i.inviter_id, i.created_at,
			c.name AS chat_name, u.username AS inviter_username
		FROM invitation i
		JOIN chat c ON c.id = i.chat_id
		LEFT JOIN "user" u ON u.id = i.inviter_id
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC
	`

	invitations := []models.Invitation{}
	if err := sqlx.SelectContext(ctx, r.db, &invitations, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении приглашений: %w", err)
	}

	return invitations, nil
}
