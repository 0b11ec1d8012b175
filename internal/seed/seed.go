// Package seed fills a fresh database with fake users, chats and news by
// driving the regular services.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"microchat/internal/models"
	"microchat/internal/repository"
	"microchat/internal/service"
)

const seedPassword = "password123"

type Options struct {
	Users           int
	Chats           int
	MessagesPerChat int
	NewsPerUser     int
	FollowsPerUser  int
	Seed            int64
}

func DefaultOptions() Options {
	return Options{
		Users:           10,
		Chats:           3,
		MessagesPerChat: 15,
		NewsPerUser:     2,
		FollowsPerUser:  3,
		Seed:            42,
	}
}

type Result struct {
	Users    []models.User
	Chats    []models.Chat
	Messages int
	News     int
	Follows  int
	Likes    int
}

type Seeder struct {
	services *service.Service
	faker    *gofakeit.Faker
	opts     Options
}

func New(services *service.Service, opts Options) *Seeder {
	return &Seeder{
		services: services,
		faker:    gofakeit.New(opts.Seed),
		opts:     opts,
	}
}

// Run creates everything in order: users, follows, chats with messages,
// then news with likes. Every user gets the same password.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := s.seedUsers(ctx, result); err != nil {
		return nil, err
	}
	if err := s.seedFollows(ctx, result); err != nil {
		return nil, err
	}
	if err := s.seedChats(ctx, result); err != nil {
		return nil, err
	}
	if err := s.seedNews(ctx, result); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "тестовые данные созданы",
		"users", len(result.Users),
		"chats", len(result.Chats),
		"messages", result.Messages,
		"news", result.News,
		"follows", result.Follows,
		"likes", result.Likes)

	return result, nil
}

func (s *Seeder) seedUsers(ctx context.Context, result *Result) error {
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.services.Auth.Register(ctx, repository.CreateUserRequest{
			Username: clip(fmt.Sprintf("%s%d", s.faker.Username(), i), models.MaxUsernameLength),
			Email:    fmt.Sprintf("%d.%s", i, strings.ToLower(s.faker.Email())),
			Password: seedPassword,
		})
		if err != nil {
			return fmt.Errorf("создание пользователя %d: %w", i, err)
		}
		result.Users = append(result.Users, *user)
	}
	return nil
}

func (s *Seeder) seedFollows(ctx context.Context, result *Result) error {
	users := result.Users
	if len(users) < 2 {
		return nil
	}

	for i, follower := range users {
		for _, j := range s.pick(len(users), s.opts.FollowsPerUser, i) {
			if err := s.services.Follow.Follow(ctx, follower.ID, users[j].Username); err != nil {
				return fmt.Errorf("подписка %s на %s: %w", follower.Username, users[j].Username, err)
			}
			result.Follows++
		}
	}
	return nil
}

func (s *Seeder) seedChats(ctx context.Context, result *Result) error {
	users := result.Users
	if len(users) == 0 {
		return nil
	}

	for i := 0; i < s.opts.Chats; i++ {
		creator := users[s.faker.Number(0, len(users)-1)]
		name := clip(fmt.Sprintf("%s-%s-%d", s.faker.Adjective(), s.faker.Noun(), i), models.MaxChatNameLength)

		chat, err := s.services.Chat.CreateNamedChat(ctx, name, creator.ID)
		if err != nil {
			return fmt.Errorf("создание беседы %q: %w", name, err)
		}

		members := []models.User{creator}
		for _, j := range s.pick(len(users), len(users)/2, -1) {
			if users[j].ID == creator.ID {
				continue
			}
			if _, err := s.services.Chat.JoinChat(ctx, chat.Name, users[j].ID); err != nil {
				return fmt.Errorf("вступление в беседу %q: %w", name, err)
			}
			members = append(members, users[j])
		}

		for k := 0; k < s.opts.MessagesPerChat; k++ {
			author := members[s.faker.Number(0, len(members)-1)]
			if _, err := s.services.Message.PostMessage(ctx, chat.ID, author.ID,
				clip(s.faker.Sentence(s.faker.Number(3, 12)), models.MaxPostLength)); err != nil {
				return fmt.Errorf("сообщение в беседу %q: %w", name, err)
			}
			result.Messages++
		}

		result.Chats = append(result.Chats, *chat)
	}
	return nil
}

func (s *Seeder) seedNews(ctx context.Context, result *Result) error {
	users := result.Users

	for _, author := range users {
		for k := 0; k < s.opts.NewsPerUser; k++ {
			body := clip(s.faker.Paragraph(1, s.faker.Number(1, 4), 12, " "), models.MaxNewsLength)

			news, err := s.services.News.CreateNews(ctx, author.ID, body, nil)
			if err != nil {
				return fmt.Errorf("новость пользователя %s: %w", author.Username, err)
			}
			result.News++

			for _, j := range s.pick(len(users), s.faker.Number(0, len(users)/2), -1) {
				if _, err := s.services.News.LikeNews(ctx, news.ID, users[j].ID); err != nil {
					return fmt.Errorf("лайк новости %s: %w", news.ID, err)
				}
				result.Likes++
			}
		}
	}
	return nil
}

// pick returns up to n distinct indexes below total, never exclude.
func (s *Seeder) pick(total, n, exclude int) []int {
	indexes := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if i != exclude {
			indexes = append(indexes, i)
		}
	}
	s.faker.ShuffleInts(indexes)

	if n > len(indexes) {
		n = len(indexes)
	}
	if n < 0 {
		n = 0
	}
	return indexes[:n]
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
