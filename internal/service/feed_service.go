package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"microchat/internal/config"
	"microchat/internal/models"
	"microchat/internal/observability"
	"microchat/internal/repository"
	"microchat/internal/storage"
)

const maxFeedLimit = 100

type NewsService interface {
	BuildNewsFeed(ctx context.Context, userID string, limit int) ([]models.News, error)
	CreateNews(ctx context.Context, authorID, body string, image *models.Image) (*models.News, error)
	GetNews(ctx context.Context, newsID string) (*models.News, error)
	LikeNews(ctx context.Context, newsID, userID string) (*models.News, error)
	UnlikeNews(ctx context.Context, newsID, userID string) (*models.News, error)
	CommentNews(ctx context.Context, newsID, authorID, body string) (*models.Post, error)
	ListComments(ctx context.Context, newsID string) ([]models.Post, error)
	SetNewsImage(ctx context.Context, newsID, actorID string, image models.Image) (string, error)
	GetNewsImage(ctx context.Context, newsID string) (*models.Image, error)
}

type newsService struct {
	userRepo   repository.UserRepository
	newsRepo   repository.NewsRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	tx         repository.Transactor
	feedCache  FeedCache
	storage    storage.Storage
	cfg        *config.Config
}

func NewNewsService(
	userRepo repository.UserRepository,
	newsRepo repository.NewsRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	tx repository.Transactor,
	feedCache FeedCache,
	storage storage.Storage,
	cfg *config.Config,
) NewsService {
	return &newsService{
		userRepo:   userRepo,
		newsRepo:   newsRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		tx:         tx,
		feedCache:  feedCache,
		storage:    storage,
		cfg:        cfg,
	}
}

// BuildNewsFeed returns news by the users userID follows and by the users
// following userID, newest first. Results are served from the feed cache
// when present.
func (s *newsService) BuildNewsFeed(ctx context.Context, userID string, limit int) ([]models.News, error) {
	if limit <= 0 {
		limit = s.cfg.FeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	cached, found, err := s.feedCache.Get(ctx, userID, limit)
	switch {
	case err != nil:
		observability.FeedCacheLookups.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "ошибка чтения кэша ленты", "user", userID, "error", err)
	case found:
		observability.FeedCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		observability.FeedCacheLookups.WithLabelValues("miss").Inc()
	}

	items, err := s.newsRepo.Feed(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.feedCache.Set(ctx, userID, limit, items); err != nil {
		slog.WarnContext(ctx, "ошибка записи кэша ленты", "user", userID, "error", err)
	}

	return items, nil
}

// invalidateAudience drops the cached feeds that may contain news by authorID.
// Feeds carry like counts, so likes invalidate them as well.
func (s *newsService) invalidateAudience(ctx context.Context, authorID string) {
	ids, err := s.followRepo.Connections(ctx, authorID)
	if err != nil {
		slog.WarnContext(ctx, "не удалось получить связи автора для сброса кэша", "author", authorID, "error", err)
		return
	}

	s.feedCache.Invalidate(ctx, ids...)
}

func (s *newsService) CreateNews(ctx context.Context, authorID, body string, image *models.Image) (*models.News, error) {
	body, err := validateBody(body, models.MaxNewsLength)
	if err != nil {
		return nil, err
	}

	if image != nil {
		if err := checkImage(image); err != nil {
			return nil, err
		}
	}

	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	news := &models.News{
		ID:             uuid.New().String(),
		Body:           body,
		UserID:         author.ID,
		AuthorUsername: author.Username,
	}
	if image != nil {
		news.ImageURL = mirrorImage(ctx, s.storage, storage.PrefixNews, news.ID, *image)
	}

	err = s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.News.Create(ctx, news); err != nil {
			return err
		}
		if image == nil {
			return nil
		}
		return tx.News.SetImage(ctx, news.ID, image.Data, news.ImageURL)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAudience(ctx, author.ID)
	return news, nil
}

func (s *newsService) GetNews(ctx context.Context, newsID string) (*models.News, error) {
	return s.newsRepo.GetByID(ctx, newsID)
}

func (s *newsService) LikeNews(ctx context.Context, newsID, userID string) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return nil, err
	}

	if err := s.newsRepo.Like(ctx, newsID, userID); err != nil {
		return nil, err
	}

	s.invalidateAudience(ctx, news.UserID)
	return s.newsRepo.GetByID(ctx, newsID)
}

func (s *newsService) UnlikeNews(ctx context.Context, newsID, userID string) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return nil, err
	}

	if err := s.newsRepo.Unlike(ctx, newsID, userID); err != nil {
		return nil, err
	}

	s.invalidateAudience(ctx, news.UserID)
	return s.newsRepo.GetByID(ctx, newsID)
}

func (s *newsService) CommentNews(ctx context.Context, newsID, authorID, body string) (*models.Post, error) {
	body, err := validateBody(body, models.MaxPostLength)
	if err != nil {
		return nil, err
	}

	if _, err := s.newsRepo.GetByID(ctx, newsID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Body:           body,
		UserID:         author.ID,
		AuthorUsername: author.Username,
		NewsID:         &newsID,
		Kind:           models.PostKindMessage,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.MessagesPosted.WithLabelValues("comment").Inc()
	return post, nil
}

func (s *newsService) ListComments(ctx context.Context, newsID string) ([]models.Post, error) {
	if _, err := s.newsRepo.GetByID(ctx, newsID); err != nil {
		return nil, err
	}

	return s.postRepo.ListByNews(ctx, newsID)
}

// SetNewsImage replaces the picture attached to a news item. Only the
// author may change it.
func (s *newsService) SetNewsImage(ctx context.Context, newsID, actorID string, image models.Image) (string, error) {
	if err := checkImage(&image); err != nil {
		return "", err
	}

	news, err := s.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return "", err
	}

	if news.UserID != actorID {
		return "", fmt.Errorf("изменять изображение может только автор новости: %w", models.ErrForbidden)
	}

	url := mirrorImage(ctx, s.storage, storage.PrefixNews, newsID, image)

	if err := s.newsRepo.SetImage(ctx, newsID, image.Data, url); err != nil {
		return "", err
	}

	s.invalidateAudience(ctx, news.UserID)
	return url, nil
}

func (s *newsService) GetNewsImage(ctx context.Context, newsID string) (*models.Image, error) {
	data, err := s.newsRepo.GetImage(ctx, newsID)
	if err != nil {
		return nil, err
	}

	return loadedImage(data), nil
}
