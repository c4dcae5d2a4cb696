package community

import (
	"context"
	"fmt"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/mutation"
)

// ForumService owns the view state for one discussion page: the discussion
// and its replies.
type ForumService struct {
	client    *api.Client
	mutations *mutation.Controller

	mu         sync.Mutex
	discussion models.Discussion
	replies    []models.Reply
}

// NewForumService creates a service seeded with the fetched discussion.
func NewForumService(client *api.Client, mutations *mutation.Controller, discussion models.Discussion, replies []models.Reply) *ForumService {
	return &ForumService{
		client:     client,
		mutations:  mutations,
		discussion: discussion,
		replies:    replies,
	}
}

// Discussion returns a snapshot of the discussion view state.
func (s *ForumService) Discussion() models.Discussion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discussion
}

// Replies returns a snapshot of the reply list.
func (s *ForumService) Replies() []models.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reply, len(s.replies))
	copy(out, s.replies)
	return out
}

// ToggleLike flips the discussion's like state optimistically.
func (s *ForumService) ToggleLike(ctx context.Context) error {
	prior := s.Discussion()

	optimistic := prior
	optimistic.IsLiked = !prior.IsLiked
	if optimistic.IsLiked {
		optimistic.LikesCount = prior.LikesCount + 1
	} else {
		optimistic.LikesCount = prior.LikesCount - 1
	}

	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Discussion]{
		EntityID:   fmt.Sprintf("discussion:%d:like", prior.ID),
		Prior:      prior,
		Optimistic: optimistic,
		Apply: func(snapshot models.Discussion) {
			s.mu.Lock()
			s.discussion = snapshot
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Discussion, bool, error) {
			return models.Discussion{}, false, s.client.LikeDiscussion(ctx, prior.ID)
		},
	})
}

// LikeReply likes a reply. Replies cannot be unliked; a second like for the
// same reply is a no-op rather than a duplicate network call.
func (s *ForumService) LikeReply(ctx context.Context, replyID int64) error {
	s.mu.Lock()
	prior, found := findReply(s.replies, replyID)
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("reply %d not in view", replyID)
	}

	optimistic := prior
	optimistic.IsLiked = true
	optimistic.LikesCount = prior.LikesCount + 1

	discussionID := s.Discussion().ID
	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Reply]{
		EntityID:   fmt.Sprintf("reply:%d:like", replyID),
		Prior:      prior,
		Optimistic: optimistic,
		Once:       true,
		Apply: func(snapshot models.Reply) {
			s.mu.Lock()
			replaceReply(s.replies, snapshot)
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Reply, bool, error) {
			return models.Reply{}, false, s.client.LikeReply(ctx, discussionID, replyID)
		},
	})
}

// MarkSolution marks one reply as the accepted solution after the server
// confirms. Exactly one reply holds the flag: marking clears it from every
// other reply and sets has_solution on the discussion.
func (s *ForumService) MarkSolution(ctx context.Context, replyID int64) error {
	discussionID := s.Discussion().ID
	return mutation.SubmitAppend(ctx, s.mutations, mutation.Append[int64]{
		EntityID: fmt.Sprintf("discussion:%d:solution", discussionID),
		Confirm: func(ctx context.Context) (int64, error) {
			if err := s.client.MarkSolution(ctx, discussionID, replyID); err != nil {
				return 0, err
			}
			return replyID, nil
		},
		Commit: func(solutionID int64) {
			s.mu.Lock()
			for i := range s.replies {
				s.replies[i].IsSolution = s.replies[i].ID == solutionID
			}
			s.discussion.HasSolution = true
			s.mu.Unlock()
		},
	})
}

func findReply(replies []models.Reply, id int64) (models.Reply, bool) {
	for _, r := range replies {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reply{}, false
}

func replaceReply(replies []models.Reply, snapshot models.Reply) {
	for i := range replies {
		if replies[i].ID == snapshot.ID {
			replies[i] = snapshot
			return
		}
	}
}
