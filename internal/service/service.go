package service

import (
	"context"

	"microchat/internal/config"
	"microchat/internal/models"
	"microchat/internal/repository"
	"microchat/internal/storage"
)

// FeedCache is the subset of cache.FeedCache the services use.
type FeedCache interface {
	Get(ctx context.Context, userID string, limit int) ([]models.News, bool, error)
	Set(ctx context.Context, userID string, limit int, items []models.News) error
	Invalidate(ctx context.Context, userIDs ...string)
}

type Service struct {
	Auth       AuthService
	User       UserService
	Follow     FollowService
	Chat       ChatService
	Invitation InvitationService
	Message    MessageService
	News       NewsService
	Tables     TablesService
}

// NewService wires the services. storage and feedCache may be nil.
func NewService(rep *repository.Repository, tx repository.Transactor, cfg *config.Config, storage storage.Storage, feedCache FeedCache) *Service {
	if feedCache == nil {
		feedCache = noopFeedCache{}
	}

	return &Service{
		Auth:       NewAuthService(rep.User, cfg),
		User:       NewUserService(rep.User, storage),
		Follow:     NewFollowService(rep.User, rep.Follow, feedCache),
		Chat:       NewChatService(rep.User, rep.Chat, tx, storage),
		Invitation: NewInvitationService(rep.User, rep.Chat, rep.Invitation, tx),
		Message:    NewMessageService(rep.User, rep.Chat, rep.Post, tx, cfg),
		News:       NewNewsService(rep.User, rep.News, rep.Post, rep.Follow, tx, feedCache, storage, cfg),
		Tables:     NewTablesService(rep.Tables),
	}
}

type noopFeedCache struct{}

func (noopFeedCache) Get(context.Context, string, int) ([]models.News, bool, error) {
	return nil, false, nil
}

func (noopFeedCache) Set(context.Context, string, int, []models.News) error { return nil }

func (noopFeedCache) Invalidate(context.Context, ...string) {}
