package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microchat/internal/models"
	"microchat/internal/repository"
	"microchat/internal/service"
)

// The fakes embed the service interfaces and override only what the seeder
// calls; anything else would panic on the nil embedded value.

type fakeAuth struct {
	service.AuthService
	users map[string]bool
}

func (f *fakeAuth) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	if f.users[req.Username] {
		return nil, models.ErrDuplicateUsername
	}
	f.users[req.Username] = true
	return &models.User{ID: fmt.Sprintf("U%d", len(f.users)), Username: req.Username, Email: req.Email}, nil
}

type fakeFollow struct {
	service.FollowService
	edges map[string]bool
}

func (f *fakeFollow) Follow(ctx context.Context, followerID, targetUsername string) error {
	f.edges[followerID+">"+targetUsername] = true
	return nil
}

type fakeChat struct {
	service.ChatService
	joins map[string]int
}

func (f *fakeChat) CreateNamedChat(ctx context.Context, name, creatorID string) (*models.Chat, error) {
	if strings.HasPrefix(name, models.DirectChatPrefix) || utf8.RuneCountInString(name) > models.MaxChatNameLength {
		return nil, models.ErrValidation
	}
	return &models.Chat{ID: "C-" + name, Name: name, Kind: models.ChatKindGroup}, nil
}

func (f *fakeChat) JoinChat(ctx context.Context, name, userID string) (*models.Chat, error) {
	f.joins[name]++
	return &models.Chat{ID: "C-" + name, Name: name}, nil
}

type fakeMessage struct {
	service.MessageService
	tooLong int
}

func (f *fakeMessage) PostMessage(ctx context.Context, chatID, authorID, body string) (*models.Post, error) {
	if body == "" || utf8.RuneCountInString(body) > models.MaxPostLength {
		f.tooLong++
		return nil, models.ErrValidation
	}
	return &models.Post{ChatID: &chatID, UserID: authorID, Body: body}, nil
}

type fakeNews struct {
	service.NewsService
	created int
}

func (f *fakeNews) CreateNews(ctx context.Context, authorID, body string, image *models.Image) (*models.News, error) {
	if body == "" || utf8.RuneCountInString(body) > models.MaxNewsLength {
		return nil, models.ErrValidation
	}
	f.created++
	return &models.News{ID: fmt.Sprintf("N%d", f.created), UserID: authorID, Body: body}, nil
}

func (f *fakeNews) LikeNews(ctx context.Context, newsID, userID string) (*models.News, error) {
	return &models.News{ID: newsID}, nil
}

func newFakeServices() (*service.Service, *fakeFollow, *fakeChat) {
	follow := &fakeFollow{edges: map[string]bool{}}
	chat := &fakeChat{joins: map[string]int{}}

	return &service.Service{
		Auth:    &fakeAuth{users: map[string]bool{}},
		Follow:  follow,
		Chat:    chat,
		Message: &fakeMessage{},
		News:    &fakeNews{},
	}, follow, chat
}

func TestSeeder_Run(t *testing.T) {
	services, follow, chat := newFakeServices()
	opts := DefaultOptions()

	result, err := New(services, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Users, opts.Users)
	assert.Len(t, result.Chats, opts.Chats)
	assert.Equal(t, opts.Chats*opts.MessagesPerChat, result.Messages)
	assert.Equal(t, opts.Users*opts.NewsPerUser, result.News)
	assert.Equal(t, opts.Users*opts.FollowsPerUser, result.Follows)
	assert.Len(t, follow.edges, result.Follows, "подписки не повторяются")
	assert.NotEmpty(t, chat.joins)

	for _, user := range result.Users {
		assert.NotContains(t, user.Username, ":")
		assert.NotContains(t, user.Username, " ")
	}
}

func TestSeeder_Deterministic(t *testing.T) {
	first, _, _ := newFakeServices()
	second, _, _ := newFakeServices()

	a, err := New(first, DefaultOptions()).Run(context.Background())
	require.NoError(t, err)
	b, err := New(second, DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Users, b.Users)
	assert.Equal(t, a.Chats, b.Chats)
}

func TestSeeder_SingleUser(t *testing.T) {
	services, follow, _ := newFakeServices()
	opts := DefaultOptions()
	opts.Users = 1

	result, err := New(services, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Follows)
	assert.Empty(t, follow.edges)
	assert.Len(t, result.Chats, opts.Chats)
}

func TestPick(t *testing.T) {
	s := New(&service.Service{}, DefaultOptions())

	got := s.pick(5, 10, 2)
	assert.Len(t, got, 4)
	assert.NotContains(t, got, 2)

	seen := map[int]bool{}
	for _, i := range got {
		assert.False(t, seen[i])
		seen[i] = true
	}

	assert.Empty(t, s.pick(3, -1, -1))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "при", clip("привет", 3))
	assert.Equal(t, "ab", clip("ab cd", 3))
}
