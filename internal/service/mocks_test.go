package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"microchat/internal/models"
	"microchat/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	return m.user(m.Called(ctx, username, password))
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastSeen(ctx context.Context, userID string, seen time.Time) error {
	args := m.Called(ctx, userID, seen)
	return args.Error(0)
}

func (m *MockUserRepository) SetAvatar(ctx context.Context, userID string, data []byte, url string) error {
	args := m.Called(ctx, userID, data, url)
	return args.Error(0)
}

func (m *MockUserRepository) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshToken, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	return m.user(m.Called(ctx, refreshToken))
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(ctx context.Context, followerID, followedID string) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockFollowRepository) DeleteEdge(ctx context.Context, followerID, followedID string) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Followers(ctx context.Context, userID string) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) Following(ctx context.Context, userID string) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) Connections(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) chat(args mock.Arguments) (*models.Chat, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) CreateDirect(ctx context.Context, chat *models.Chat) (bool, error) {
	args := m.Called(ctx, chat)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) GetByID(ctx context.Context, chatID string) (*models.Chat, error) {
	return m.chat(m.Called(ctx, chatID))
}

func (m *MockChatRepository) GetGroupByName(ctx context.Context, name string) (*models.Chat, error) {
	return m.chat(m.Called(ctx, name))
}

func (m *MockChatRepository) GetDirect(ctx context.Context, lowID, highID string) (*models.Chat, error) {
	return m.chat(m.Called(ctx, lowID, highID))
}

func (m *MockChatRepository) AddMember(ctx context.Context, chatID, userID string) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) RemoveMember(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockChatRepository) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) Members(ctx context.Context, chatID string) ([]models.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockChatRepository) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatRepository) SetImage(ctx context.Context, chatID string, data []byte, url string) error {
	args := m.Called(ctx, chatID, data, url)
	return args.Error(0)
}

func (m *MockChatRepository) GetImage(ctx context.Context, chatID string) ([]byte, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) CountByChat(ctx context.Context, chatID string) (int, error) {
	args := m.Called(ctx, chatID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, chatID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByNews(ctx context.Context, newsID string) ([]models.Post, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Create(ctx context.Context, news *models.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

func (m *MockNewsRepository) GetByID(ctx context.Context, newsID string) (*models.News, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsRepository) Feed(ctx context.Context, userID string, limit int) ([]models.News, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.News), args.Error(1)
}

func (m *MockNewsRepository) Like(ctx context.Context, newsID, userID string) error {
	args := m.Called(ctx, newsID, userID)
	return args.Error(0)
}

func (m *MockNewsRepository) Unlike(ctx context.Context, newsID, userID string) error {
	args := m.Called(ctx, newsID, userID)
	return args.Error(0)
}

func (m *MockNewsRepository) SetImage(ctx context.Context, newsID string, data []byte, url string) error {
	args := m.Called(ctx, newsID, data, url)
	return args.Error(0)
}

func (m *MockNewsRepository) GetImage(ctx context.Context, newsID string) ([]byte, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) invitation(args mock.Arguments) (*models.Invitation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByID(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return m.invitation(m.Called(ctx, invitationID))
}

func (m *MockInvitationRepository) GetByIDForUpdate(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return m.invitation(m.Called(ctx, invitationID))
}

func (m *MockInvitationRepository) Delete(ctx context.Context, invitationID string) error {
	args := m.Called(ctx, invitationID)
	return args.Error(0)
}

func (m *MockInvitationRepository) ListForUser(ctx context.Context, userID string) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, prefix, ownerID string, image models.Image) (string, string, error) {
	args := m.Called(ctx, prefix, ownerID, image)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockFeedCache struct {
	mock.Mock
}

func (m *MockFeedCache) Get(ctx context.Context, userID string, limit int) ([]models.News, bool, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.News), args.Bool(1), args.Error(2)
}

func (m *MockFeedCache) Set(ctx context.Context, userID string, limit int, items []models.News) error {
	args := m.Called(ctx, userID, limit, items)
	return args.Error(0)
}

func (m *MockFeedCache) Invalidate(ctx context.Context, userIDs ...string) {
	m.Called(ctx, userIDs)
}

// fakeTransactor runs fn against the mocked repositories. It records how
// many transactions were opened and whether the last one failed.
type fakeTransactor struct {
	repo       *repository.Repository
	calls      int
	snapshots  int
	rolledBack bool
}

func (f *fakeTransactor) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	f.calls++
	err := fn(f.repo)
	f.rolledBack = err != nil
	return err
}

func (f *fakeTransactor) WithSnapshot(ctx context.Context, fn func(tx *repository.Repository) error) error {
	f.snapshots++
	err := fn(f.repo)
	f.rolledBack = err != nil
	return err
}

type mocks struct {
	user       *MockUserRepository
	follow     *MockFollowRepository
	chat       *MockChatRepository
	post       *MockPostRepository
	news       *MockNewsRepository
	invitation *MockInvitationRepository
	tx         *fakeTransactor
}

func newMocks() *mocks {
	m := &mocks{
		user:       new(MockUserRepository),
		follow:     new(MockFollowRepository),
		chat:       new(MockChatRepository),
		post:       new(MockPostRepository),
		news:       new(MockNewsRepository),
		invitation: new(MockInvitationRepository),
	}
	m.tx = &fakeTransactor{repo: &repository.Repository{
		User:       m.user,
		Follow:     m.follow,
		Chat:       m.chat,
		Post:       m.post,
		News:       m.news,
		Invitation: m.invitation,
	}}
	return m
}

func (m *mocks) assertExpectations(t mock.TestingT) {
	m.user.AssertExpectations(t)
	m.follow.AssertExpectations(t)
	m.chat.AssertExpectations(t)
	m.post.AssertExpectations(t)
	m.news.AssertExpectations(t)
	m.invitation.AssertExpectations(t)
}
