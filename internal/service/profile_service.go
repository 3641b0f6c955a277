package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ProfileService implements profile reads and the follow graph.
type ProfileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) own(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID, 0)
}

// Get returns the named profile with counts and the caller's follow status.
func (s *ProfileService) Get(ctx context.Context, username string, userID uint) (*models.Profile, error) {
	viewer, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByUsername(ctx, username, viewer.ID)
}

// Follow adds the named profile to the caller's following set and returns the
// caller's refreshed profile. Following an already-followed profile is a
// no-op.
func (s *ProfileService) Follow(ctx context.Context, userID uint, username string) (*models.Profile, error) {
	return s.setFollow(ctx, userID, username, s.profiles.Follow)
}

// Unfollow mirrors Follow.
func (s *ProfileService) Unfollow(ctx context.Context, userID uint, username string) (*models.Profile, error) {
	return s.setFollow(ctx, userID, username, s.profiles.Unfollow)
}

func (s *ProfileService) setFollow(ctx context.Context, userID uint, username string, apply func(context.Context, uint, uint) error) (*models.Profile, error) {
	follower, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUsername(ctx, username, follower.ID)
	if err != nil {
		return nil, err
	}
	if target.ID == follower.ID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if err := apply(ctx, follower.ID, target.ID); err != nil {
		return nil, err
	}
	return s.profiles.GetByUserID(ctx, userID, follower.ID)
}

// FollowStatus returns the named profile with the caller's follow flag read
// straight from the follow edge.
func (s *ProfileService) FollowStatus(ctx context.Context, userID uint, username string) (*models.Profile, error) {
	viewer, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUsername(ctx, username, viewer.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.profiles.IsFollowing(ctx, viewer.ID, target.ID)
	if err != nil {
		return nil, err
	}
	target.Following = following
	return target, nil
}

// Followers lists profiles following the named one.
func (s *ProfileService) Followers(ctx context.Context, userID uint, username string) ([]*models.Profile, error) {
	viewer, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUsername(ctx, username, viewer.ID)
	if err != nil {
		return nil, err
	}
	return s.profiles.Followers(ctx, target.ID, viewer.ID)
}

// Following lists profiles the named one follows.
func (s *ProfileService) Following(ctx context.Context, userID uint, username string) ([]*models.Profile, error) {
	viewer, err := s.own(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetByUsername(ctx, username, viewer.ID)
	if err != nil {
		return nil, err
	}
	return s.profiles.Following(ctx, target.ID, viewer.ID)
}
