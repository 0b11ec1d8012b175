package service

import (
	"context"
	"fmt"
	"strings"

	"microchat/internal/config"
	"microchat/internal/models"
	"microchat/internal/observability"
	"microchat/internal/repository"
)

const maxMessagesPerPage = 100

type MessageService interface {
	PostMessage(ctx context.Context, chatID, authorID, body string) (*models.Post, error)
	PaginateMessages(ctx context.Context, chatID string, page, perPage int) (*models.MessagePage, error)
}

type messageService struct {
	userRepo repository.UserRepository
	chatRepo repository.ChatRepository
	postRepo repository.PostRepository
	tx       repository.Transactor
	cfg      *config.Config
}

func NewMessageService(userRepo repository.UserRepository, chatRepo repository.ChatRepository, postRepo repository.PostRepository, tx repository.Transactor, cfg *config.Config) MessageService {
	return &messageService{
		userRepo: userRepo,
		chatRepo: chatRepo,
		postRepo: postRepo,
		tx:       tx,
		cfg:      cfg,
	}
}

// validateBody trims the body and checks it against limit runes.
func validateBody(body string, limit int) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("текст не может быть пустым: %w", models.ErrValidation)
	}
	if len([]rune(body)) > limit {
		return "", fmt.Errorf("текст длиннее %d символов: %w", limit, models.ErrValidation)
	}
	return body, nil
}

func (s *messageService) PostMessage(ctx context.Context, chatID, authorID, body string) (*models.Post, error) {
	body, err := validateBody(body, models.MaxPostLength)
	if err != nil {
		return nil, err
	}

	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}

	isMember, err := s.chatRepo.IsMember(ctx, chatID, authorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("писать в беседу могут только ее участники: %w", models.ErrForbidden)
	}

	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Body:           body,
		UserID:         author.ID,
		AuthorUsername: author.Username,
		ChatID:         &chatID,
		Kind:           models.PostKindMessage,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.MessagesPosted.WithLabelValues(models.PostKindMessage).Inc()
	return post, nil
}

// PaginateMessages returns one page of the chat history, oldest first.
// A page <= 0 selects the last page and pages past the end are clamped to it.
func (s *messageService) PaginateMessages(ctx context.Context, chatID string, page, perPage int) (*models.MessagePage, error) {
	if perPage <= 0 {
		perPage = s.cfg.MessagesPerPage
	}
	if perPage > maxMessagesPerPage {
		perPage = maxMessagesPerPage
	}

	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}

	var (
		total, pages int
		posts        []models.Post
	)

	// count and window must come from one snapshot or a concurrent post
	// shifts the page boundaries
	err := s.tx.WithSnapshot(ctx, func(tx *repository.Repository) error {
		var err error
		if total, err = tx.Post.CountByChat(ctx, chatID); err != nil {
			return err
		}

		pages = (total + perPage - 1) / perPage
		if pages == 0 {
			pages = 1
		}
		if page <= 0 || page > pages {
			page = pages
		}

		posts, err = tx.Post.ListByChat(ctx, chatID, perPage, (page-1)*perPage)
		return err
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	result := &models.MessagePage{
		Posts:   posts,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	}
	if page < pages {
		next := page + 1
		result.Next = &next
	}
	if page > 1 {
		prev := page - 1
		result.Prev = &prev
	}

	return result, nil
}
