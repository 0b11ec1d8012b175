package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"microchat/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastSeen(ctx context.Context, userID string, seen time.Time) error
	SetAvatar(ctx context.Context, userID string, data []byte, url string) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID string) error
	DeleteEdge(ctx context.Context, followerID, followedID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
	Connections(ctx context.Context, userID string) ([]string, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	CreateDirect(ctx context.Context, chat *models.Chat) (bool, error)
	GetByID(ctx context.Context, chatID string) (*models.Chat, error)
	GetGroupByName(ctx context.Context, name string) (*models.Chat, error)
	GetDirect(ctx context.Context, lowID, highID string) (*models.Chat, error)
	AddMember(ctx context.Context, chatID, userID string) (bool, error)
	RemoveMember(ctx context.Context, chatID, userID string) error
	IsMember(ctx context.Context, chatID, userID string) (bool, error)
	Members(ctx context.Context, chatID string) ([]models.User, error)
	ListForUser(ctx context.Context, userID string) ([]models.Chat, error)
	SetImage(ctx context.Context, chatID string, data []byte, url string) error
	GetImage(ctx context.Context, chatID string) ([]byte, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	CountByChat(ctx context.Context, chatID string) (int, error)
	ListByChat(ctx context.Context, chatID string, limit, offset int) ([]models.Post, error)
	ListByNews(ctx context.Context, newsID string) ([]models.Post, error)
}

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, newsID string) (*models.News, error)
	Feed(ctx context.Context, userID string, limit int) ([]models.News, error)
	Like(ctx context.Context, newsID, userID string) error
	Unlike(ctx context.Context, newsID, userID string) error
	SetImage(ctx context.Context, newsID string, data []byte, url string) error
	GetImage(ctx context.Context, newsID string) ([]byte, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, invitationID string) (*models.Invitation, error)
	GetByIDForUpdate(ctx context.Context, invitationID string) (*models.Invitation, error)
	Delete(ctx context.Context, invitationID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Invitation, error)
}

type TablesRepository interface {
	CountTablesDB() (int, error)
	RowCounts(ctx context.Context) (map[string]int, error)
}

// Transactor runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *Repository) error) error
	// WithSnapshot runs fn in a read-only transaction where every query
	// sees the same snapshot.
	WithSnapshot(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	User       UserRepository
	Follow     FollowRepository
	Chat       ChatRepository
	Post       PostRepository
	News       NewsRepository
	Invitation InvitationRepository
	Tables     TablesRepository

	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	repo := bind(db)
	repo.Tables = NewTablesRepository(db)
	repo.db = db
	return repo
}

func bind(ext sqlx.ExtContext) *Repository {
	return &Repository{
		User:       NewUserRepository(ext),
		Follow:     NewFollowRepository(ext),
		Chat:       NewChatRepository(ext),
		Post:       NewPostRepository(ext),
		News:       NewNewsRepository(ext),
		Invitation: NewInvitationRepository(ext),
	}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.run(ctx, nil, fn)
}

func (r *Repository) WithSnapshot(ctx context.Context, fn func(tx *Repository) error) error {
	return r.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (r *Repository) run(ctx context.Context, opts *sql.TxOptions, fn func(tx *Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}

	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (ошибка отката: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}
