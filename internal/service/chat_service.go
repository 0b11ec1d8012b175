package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"microchat/internal/models"
	"microchat/internal/observability"
	"microchat/internal/repository"
	"microchat/internal/storage"
)

type ChatService interface {
	GetOrCreateDirectChat(ctx context.Context, actorID, otherUsername string) (*models.Chat, error)
	CreateNamedChat(ctx context.Context, name, creatorID string) (*models.Chat, error)
	JoinChat(ctx context.Context, name, userID string) (*models.Chat, error)
	GetChat(ctx context.Context, chatID string) (*models.Chat, error)
	LeaveChat(ctx context.Context, chatID, userID string) error
	ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error)
	SetChatImage(ctx context.Context, chatID, actorID string, image models.Image) (string, error)
	GetChatImage(ctx context.Context, chatID string) (*models.Image, error)
}

type chatService struct {
	userRepo repository.UserRepository
	chatRepo repository.ChatRepository
	tx       repository.Transactor
	storage  storage.Storage
}

func NewChatService(userRepo repository.UserRepository, chatRepo repository.ChatRepository, tx repository.Transactor, storage storage.Storage) ChatService {
	return &chatService{
		userRepo: userRepo,
		chatRepo: chatRepo,
		tx:       tx,
		storage:  storage,
	}
}

// DirectChatName is the display name of the direct chat between two users,
// given in canonical (low id, high id) order.
func DirectChatName(lowUsername, highUsername string) string {
	return models.DirectChatPrefix + lowUsername + ":" + highUsername
}

// GetOrCreateDirectChat returns the direct chat between the two users,
// creating it together with both memberships and an opening system post.
// Calls in either order resolve to the same chat.
func (s *chatService) GetOrCreateDirectChat(ctx context.Context, actorID, otherUsername string) (*models.Chat, error) {
	actor, err := s.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	other, err := s.userRepo.GetUserByUsername(ctx, otherUsername)
	if err != nil {
		return nil, err
	}

	if actor.ID == other.ID {
		return nil, fmt.Errorf("нельзя начать беседу с самим собой: %w", models.ErrValidation)
	}

	low, high := actor, other
	if high.ID < low.ID {
		low, high = high, low
	}

	existing, err := s.chatRepo.GetDirect(ctx, low.ID, high.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	var chat *models.Chat
	err = s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		candidate := &models.Chat{
			Name:         DirectChatName(low.Username, high.Username),
			DirectLowID:  &low.ID,
			DirectHighID: &high.ID,
		}

		created, err := tx.Chat.CreateDirect(ctx, candidate)
		if err != nil {
			return err
		}

		// lost the race to a concurrent creator
		if !created {
			chat, err = tx.Chat.GetDirect(ctx, low.ID, high.ID)
			return err
		}

		for _, id := range []string{low.ID, high.ID} {
			if _, err := tx.Chat.AddMember(ctx, candidate.ID, id); err != nil {
				return err
			}
		}

		if err := createSystemPost(ctx, tx, candidate.ID, actor.ID,
			fmt.Sprintf("Личная беседа создана пользователем %s", actor.Username)); err != nil {
			return err
		}

		observability.ChatsCreated.WithLabelValues(models.ChatKindDirect).Inc()
		chat = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chat, nil
}

func validateChatName(name string) error {
	if name == "" || len([]rune(name)) > models.MaxChatNameLength {
		return fmt.Errorf("название беседы должно быть от 1 до %d символов: %w", models.MaxChatNameLength, models.ErrValidation)
	}
	if strings.HasPrefix(name, models.DirectChatPrefix) {
		return fmt.Errorf("название беседы не может начинаться с %q: %w", models.DirectChatPrefix, models.ErrValidation)
	}
	return nil
}

func (s *chatService) CreateNamedChat(ctx context.Context, name, creatorID string) (*models.Chat, error) {
	name = strings.TrimSpace(name)
	if err := validateChatName(name); err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	chat := &models.Chat{Name: name}
	err = s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Chat.Create(ctx, chat); err != nil {
			return err
		}

		if _, err := tx.Chat.AddMember(ctx, chat.ID, creator.ID); err != nil {
			return err
		}

		return createSystemPost(ctx, tx, chat.ID, creator.ID,
			fmt.Sprintf("Беседа создана пользователем %s", creator.Username))
	})
	if err != nil {
		return nil, err
	}

	observability.ChatsCreated.WithLabelValues(models.ChatKindGroup).Inc()
	return chat, nil
}

func createSystemPost(ctx context.Context, tx *repository.Repository, chatID, authorID, body string) error {
	post := &models.Post{
		Body:   body,
		UserID: authorID,
		ChatID: &chatID,
		Kind:   models.PostKindSystem,
	}

	if err := tx.Post.Create(ctx, post); err != nil {
		return err
	}

	observability.MessagesPosted.WithLabelValues(models.PostKindSystem).Inc()
	return nil
}

// JoinChat adds the user to the group chat with the given name. Joining a
// chat the user already belongs to is a no-op.
func (s *chatService) JoinChat(ctx context.Context, name, userID string) (*models.Chat, error) {
	chat, err := s.chatRepo.GetGroupByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	if _, err := s.chatRepo.AddMember(ctx, chat.ID, userID); err != nil {
		return nil, err
	}

	return chat, nil
}

func (s *chatService) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	members, err := s.chatRepo.Members(ctx, chatID)
	if err != nil {
		return nil, err
	}
	chat.Members = members

	return chat, nil
}

func (s *chatService) LeaveChat(ctx context.Context, chatID, userID string) error {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return err
	}

	return s.chatRepo.RemoveMember(ctx, chatID, userID)
}

func (s *chatService) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	chats, err := s.chatRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sortChats(chats)
	return chats, nil
}

// sortChats orders chats by their latest post, newest first. Chats without
// posts come last, newest created first, with the id as the final tie break.
func sortChats(chats []models.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i].LastActivity, chats[j].LastActivity

		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		}

		if !chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return chats[i].ID < chats[j].ID
	})
}

// SetChatImage replaces the chat picture. Only members may change it.
func (s *chatService) SetChatImage(ctx context.Context, chatID, actorID string, image models.Image) (string, error) {
	if err := checkImage(&image); err != nil {
		return "", err
	}

	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return "", err
	}

	member, err := s.chatRepo.IsMember(ctx, chatID, actorID)
	if err != nil {
		return "", err
	}
	if !member {
		return "", fmt.Errorf("изменять изображение могут только участники беседы: %w", models.ErrForbidden)
	}

	url := mirrorImage(ctx, s.storage, storage.PrefixChats, chatID, image)

	if err := s.chatRepo.SetImage(ctx, chatID, image.Data, url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *chatService) GetChatImage(ctx context.Context, chatID string) (*models.Image, error) {
	data, err := s.chatRepo.GetImage(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return loadedImage(data), nil
}
