package test

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"microchat/internal/models"
	"microchat/internal/repository"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) GetUserFromToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetAvatar(ctx context.Context, userID string, image models.Image) (string, error) {
	args := m.Called(ctx, userID, image)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetAvatar(ctx context.Context, username string) (*models.Image, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockUserService) TouchLastSeen(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, followerID, targetUsername string) error {
	return m.Called(ctx, followerID, targetUsername).Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, followerID, targetUsername string) error {
	return m.Called(ctx, followerID, targetUsername).Error(0)
}

func (m *MockFollowService) IsFollowing(ctx context.Context, followerID, targetUsername string) (bool, error) {
	args := m.Called(ctx, followerID, targetUsername)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowService) Friends(ctx context.Context, userID string) (*models.Friends, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friends), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) GetOrCreateDirectChat(ctx context.Context, actorID, otherUsername string) (*models.Chat, error) {
	args := m.Called(ctx, actorID, otherUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatService) CreateNamedChat(ctx context.Context, name, creatorID string) (*models.Chat, error) {
	args := m.Called(ctx, name, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatService) JoinChat(ctx context.Context, name, userID string) (*models.Chat, error) {
	args := m.Called(ctx, name, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatService) GetChat(ctx context.Context, chatID string) (*models.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatService) LeaveChat(ctx context.Context, chatID, userID string) error {
	return m.Called(ctx, chatID, userID).Error(0)
}

func (m *MockChatService) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatService) SetChatImage(ctx context.Context, chatID, actorID string, image models.Image) (string, error) {
	args := m.Called(ctx, chatID, actorID, image)
	return args.String(0), args.Error(1)
}

func (m *MockChatService) GetChatImage(ctx context.Context, chatID string) (*models.Image, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) Invite(ctx context.Context, chatID, inviterID, targetUsername string) (*models.Invitation, error) {
	args := m.Called(ctx, chatID, inviterID, targetUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationService) Accept(ctx context.Context, invitationID, actorID string) (*models.Chat, error) {
	args := m.Called(ctx, invitationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockInvitationService) Decline(ctx context.Context, invitationID, actorID string) error {
	return m.Called(ctx, invitationID, actorID).Error(0)
}

func (m *MockInvitationService) Pending(ctx context.Context, userID string) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) PostMessage(ctx context.Context, chatID, authorID, body string) (*models.Post, error) {
	args := m.Called(ctx, chatID, authorID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockMessageService) PaginateMessages(ctx context.Context, chatID string, page, perPage int) (*models.MessagePage, error) {
	args := m.Called(ctx, chatID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessagePage), args.Error(1)
}

type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) BuildNewsFeed(ctx context.Context, userID string, limit int) ([]models.News, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.News), args.Error(1)
}

func (m *MockNewsService) CreateNews(ctx context.Context, authorID, body string, image *models.Image) (*models.News, error) {
	args := m.Called(ctx, authorID, body, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) GetNews(ctx context.Context, newsID string) (*models.News, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) LikeNews(ctx context.Context, newsID, userID string) (*models.News, error) {
	args := m.Called(ctx, newsID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) UnlikeNews(ctx context.Context, newsID, userID string) (*models.News, error) {
	args := m.Called(ctx, newsID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

func (m *MockNewsService) CommentNews(ctx context.Context, newsID, authorID, body string) (*models.Post, error) {
	args := m.Called(ctx, newsID, authorID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockNewsService) ListComments(ctx context.Context, newsID string) ([]models.Post, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockNewsService) SetNewsImage(ctx context.Context, newsID, actorID string, image models.Image) (string, error) {
	args := m.Called(ctx, newsID, actorID, image)
	return args.String(0), args.Error(1)
}

func (m *MockNewsService) GetNewsImage(ctx context.Context, newsID string) (*models.Image, error) {
	args := m.Called(ctx, newsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockTablesService) GetRowCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
