package service

import (
	"context"
	"fmt"

	"microchat/internal/models"
	"microchat/internal/observability"
	"microchat/internal/repository"
)

type InvitationService interface {
	Invite(ctx context.Context, chatID, inviterID, targetUsername string) (*models.Invitation, error)
	Accept(ctx context.Context, invitationID, actorID string) (*models.Chat, error)
	Decline(ctx context.Context, invitationID, actorID string) error
	Pending(ctx context.Context, userID string) ([]models.Invitation, error)
}

type invitationService struct {
	userRepo       repository.UserRepository
	chatRepo       repository.ChatRepository
	invitationRepo repository.InvitationRepository
	tx             repository.Transactor
}

func NewInvitationService(userRepo repository.UserRepository, chatRepo repository.ChatRepository, invitationRepo repository.InvitationRepository, tx repository.Transactor) InvitationService {
	return &invitationService{
		userRepo:       userRepo,
		chatRepo:       chatRepo,
		invitationRepo: invitationRepo,
		tx:             tx,
	}
}

func (s *invitationService) Invite(ctx context.Context, chatID, inviterID, targetUsername string) (*models.Invitation, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if chat.Kind == models.ChatKindDirect {
		return nil, fmt.Errorf("в личную беседу нельзя приглашать: %w", models.ErrValidation)
	}

	isMember, err := s.chatRepo.IsMember(ctx, chatID, inviterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("приглашать могут только участники беседы: %w", models.ErrForbidden)
	}

	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	isMember, err = s.chatRepo.IsMember(ctx, chatID, target.ID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, fmt.Errorf("пользователь %s: %w", target.Username, models.ErrAlreadyMember)
	}

	invitation := &models.Invitation{
		UserID:    target.ID,
		ChatID:    chat.ID,
		InviterID: &inviterID,
		ChatName:  chat.Name,
	}

	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	observability.InvitationsResolved.WithLabelValues("sent").Inc()
	return invitation, nil
}

// Accept adds the invited user to the chat and removes the invitation in one
// transaction, holding a row lock on the invitation.
func (s *invitationService) Accept(ctx context.Context, invitationID, actorID string) (*models.Chat, error) {
	var chat *models.Chat

	err := s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		invitation, err := tx.Invitation.GetByIDForUpdate(ctx, invitationID)
		if err != nil {
			return err
		}

		if invitation.UserID != actorID {
			return fmt.Errorf("приглашение %s адресовано другому пользователю: %w", invitationID, models.ErrForbidden)
		}

		if _, err := tx.Chat.AddMember(ctx, invitation.ChatID, invitation.UserID); err != nil {
			return err
		}

		if err := tx.Invitation.Delete(ctx, invitation.ID); err != nil {
			return err
		}

		chat, err = tx.Chat.GetByID(ctx, invitation.ChatID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.InvitationsResolved.WithLabelValues("accepted").Inc()
	return chat, nil
}

func (s *invitationService) Decline(ctx context.Context, invitationID, actorID string) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}

	if invitation.UserID != actorID {
		return fmt.Errorf("приглашение %s адресовано другому пользователю: %w", invitationID, models.ErrForbidden)
	}

	if err := s.invitationRepo.Delete(ctx, invitation.ID); err != nil {
		return err
	}

	observability.InvitationsResolved.WithLabelValues("declined").Inc()
	return nil
}

func (s *invitationService) Pending(ctx context.Context, userID string) ([]models.Invitation, error) {
	return s.invitationRepo.ListForUser(ctx, userID)
}
