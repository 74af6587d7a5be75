package service

import (
	"context"
	"errors"
	"fmt"

	"tgm_calc/internal/models"
	"tgm_calc/internal/repository"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type SocialService struct {
	users   repository.Users
	follows repository.FollowRepo
	rec     *recorder
}

func NewSocialService(users repository.Users, follows repository.FollowRepo, rec *recorder) *SocialService {
	return &SocialService{users: users, follows: follows, rec: rec}
}

// Follow adds me -> username. It reports false when the edge already existed.
func (s *SocialService) Follow(ctx context.Context, me int, username string) (bool, error) {
	target, err := s.target(ctx, me, username)
	if err != nil {
		return false, err
	}

	already, err := s.follows.IsFollowing(ctx, me, target.ID)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	created, err := s.follows.Follow(ctx, me, target.ID)
	if err != nil {
		return false, err
	}
	if created {
		s.rec.record(ctx, me, models.ActivityFollow, "Followed "+target.Username,
			map[string]any{"user_id": target.ID, "username": target.Username})
	}
	return created, nil
}

// Unfollow removes me -> username. It reports false when there was no edge.
func (s *SocialService) Unfollow(ctx context.Context, me int, username string) (bool, error) {
	target, err := s.target(ctx, me, username)
	if err != nil {
		return false, err
	}

	removed, err := s.follows.Unfollow(ctx, me, target.ID)
	if err != nil {
		return false, err
	}
	if removed {
		s.rec.record(ctx, me, models.ActivityUnfollow, "Unfollowed "+target.Username,
			map[string]any{"user_id": target.ID, "username": target.Username})
	}
	return removed, nil
}

func (s *SocialService) target(ctx context.Context, me int, username string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}
	if u.ID == me {
		return nil, ErrSelfFollow
	}
	return u, nil
}
