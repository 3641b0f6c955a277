package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username/
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.Get(c.UserContext(), c.Params("username"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// FollowProfile handles POST /api/profiles/:username/follow/
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UnfollowProfile handles DELETE /api/profiles/:username/follow/
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// FollowStatus handles GET /api/profiles/:username/follow/
func (s *Server) FollowStatus(c *fiber.Ctx) error {
	profile, err := s.profileService.FollowStatus(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// ListFollowers handles GET /api/profiles/:username/followers/
func (s *Server) ListFollowers(c *fiber.Ctx) error {
	profiles, err := s.profileService.Followers(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"profiles":      profiles,
		"profilesCount": len(profiles),
	})
}

// ListFollowing handles GET /api/profiles/:username/following/
func (s *Server) ListFollowing(c *fiber.Ctx) error {
	profiles, err := s.profileService.Following(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"profiles":      profiles,
		"profilesCount": len(profiles),
	})
}
