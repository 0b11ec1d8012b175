package service

import (
	"context"
	"fmt"

	"microchat/internal/models"
	"microchat/internal/repository"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, targetUsername string) error
	Unfollow(ctx context.Context, followerID, targetUsername string) error
	IsFollowing(ctx context.Context, followerID, targetUsername string) (bool, error)
	Friends(ctx context.Context, userID string) (*models.Friends, error)
}

type followService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	feedCache  FeedCache
}

func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository, feedCache FeedCache) FollowService {
	return &followService{
		userRepo:   userRepo,
		followRepo: followRepo,
		feedCache:  feedCache,
	}
}

func (s *followService) target(ctx context.Context, followerID, username string) (*models.User, error) {
	target, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, fmt.Errorf("нельзя подписаться на самого себя: %w", models.ErrValidation)
	}

	return target, nil
}

func (s *followService) Follow(ctx context.Context, followerID, targetUsername string) error {
	target, err := s.target(ctx, followerID, targetUsername)
	if err != nil {
		return err
	}

	if err := s.followRepo.Follow(ctx, followerID, target.ID); err != nil {
		return err
	}

	s.feedCache.Invalidate(ctx, followerID, target.ID)
	return nil
}

// Unfollow removes the follower -> target edge. When that edge does not
// exist the reverse edge is removed instead.
func (s *followService) Unfollow(ctx context.Context, followerID, targetUsername string) error {
	target, err := s.target(ctx, followerID, targetUsername)
	if err != nil {
		return err
	}

	deleted, err := s.followRepo.DeleteEdge(ctx, followerID, target.ID)
	if err != nil {
		return err
	}

	if !deleted {
		if _, err := s.followRepo.DeleteEdge(ctx, target.ID, followerID); err != nil {
			return err
		}
	}

	s.feedCache.Invalidate(ctx, followerID, target.ID)
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, targetUsername string) (bool, error) {
	target, err := s.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return false, err
	}

	return s.followRepo.IsFollowing(ctx, followerID, target.ID)
}

// Friends splits the user's connections into followers and the users they
// follow. Mutual connections are listed only under Followers.
func (s *followService) Friends(ctx context.Context, userID string) (*models.Friends, error) {
	followers, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(followers))
	for _, u := range followers {
		seen[u.ID] = struct{}{}
	}

	onlyFollowing := make([]models.User, 0, len(following))
	for _, u := range following {
		if _, ok := seen[u.ID]; !ok {
			onlyFollowing = append(onlyFollowing, u)
		}
	}

	if followers == nil {
		followers = []models.User{}
	}

	return &models.Friends{Followers: followers, Following: onlyFollowing}, nil
}
