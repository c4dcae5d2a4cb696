package community

import (
	"context"
	"fmt"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/mutation"
)

// ProfileService owns the view state for another user's profile page.
type ProfileService struct {
	client    *api.Client
	mutations *mutation.Controller

	mu      sync.Mutex
	profile models.Profile
}

// NewProfileService creates a service seeded with the fetched profile.
func NewProfileService(client *api.Client, mutations *mutation.Controller, profile models.Profile) *ProfileService {
	return &ProfileService{client: client, mutations: mutations, profile: profile}
}

// Profile returns a snapshot of the profile view state.
func (s *ProfileService) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// ToggleFollow follows or unfollows the profile's user, moving the follower
// count by an explicit delta.
func (s *ProfileService) ToggleFollow(ctx context.Context) error {
	prior := s.Profile()

	optimistic := prior
	optimistic.IsFollowing = !prior.IsFollowing
	if optimistic.IsFollowing {
		optimistic.Stats.FollowersCount = prior.Stats.FollowersCount + 1
	} else {
		optimistic.Stats.FollowersCount = prior.Stats.FollowersCount - 1
	}

	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Profile]{
		EntityID:   fmt.Sprintf("user:%d:follow", prior.UserID),
		Prior:      prior,
		Optimistic: optimistic,
		Apply: func(snapshot models.Profile) {
			s.mu.Lock()
			s.profile = snapshot
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Profile, bool, error) {
			if optimistic.IsFollowing {
				return models.Profile{}, false, s.client.FollowUser(ctx, prior.UserID)
			}
			return models.Profile{}, false, s.client.UnfollowUser(ctx, prior.UserID)
		},
	})
}
