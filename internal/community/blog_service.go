package community

import (
	"context"
	"fmt"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/mutation"
)

// BlogService owns the view state for one blog post page: the post and its
// comment thread. All writes go through the mutation controller; nothing else
// may touch the state objects.
type BlogService struct {
	client    *api.Client
	mutations *mutation.Controller

	mu       sync.Mutex
	post     models.Post
	comments []models.Comment
}

// NewBlogService creates a service seeded with the fetched post.
func NewBlogService(client *api.Client, mutations *mutation.Controller, post models.Post) *BlogService {
	return &BlogService{client: client, mutations: mutations, post: post}
}

// SetComments replaces the comment thread after a page-level fetch.
func (s *BlogService) SetComments(comments []models.Comment) {
	s.mu.Lock()
	s.comments = comments
	s.mu.Unlock()
}

// Post returns a snapshot of the post view state.
func (s *BlogService) Post() models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post
}

// Comments returns a snapshot of the comment thread.
func (s *BlogService) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// ToggleLike flips the post's like state optimistically, with the counter
// moved by an explicit delta, and rolls both back if the server refuses.
func (s *BlogService) ToggleLike(ctx context.Context) error {
	prior := s.Post()

	optimistic := prior
	optimistic.IsLiked = !prior.IsLiked
	if optimistic.IsLiked {
		optimistic.LikesCount = prior.LikesCount + 1
	} else {
		optimistic.LikesCount = prior.LikesCount - 1
	}

	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Post]{
		EntityID:   fmt.Sprintf("post:%d:like", prior.ID),
		Prior:      prior,
		Optimistic: optimistic,
		Apply: func(snapshot models.Post) {
			s.mu.Lock()
			s.post = snapshot
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Post, bool, error) {
			var err error
			if optimistic.IsLiked {
				err = s.client.LikePost(ctx, prior.ID)
			} else {
				err = s.client.UnlikePost(ctx, prior.ID)
			}
			return models.Post{}, false, err
		},
	})
}

// ToggleCommentLike flips one comment's like state the same way.
func (s *BlogService) ToggleCommentLike(ctx context.Context, commentID int64) error {
	s.mu.Lock()
	prior, found := findComment(s.comments, commentID)
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("comment %d not in view", commentID)
	}

	optimistic := prior
	optimistic.IsLiked = !prior.IsLiked
	if optimistic.IsLiked {
		optimistic.LikesCount = prior.LikesCount + 1
	} else {
		optimistic.LikesCount = prior.LikesCount - 1
	}

	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Comment]{
		EntityID:   fmt.Sprintf("comment:%d:like", commentID),
		Prior:      prior,
		Optimistic: optimistic,
		Apply: func(snapshot models.Comment) {
			s.mu.Lock()
			replaceComment(s.comments, snapshot)
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Comment, bool, error) {
			var err error
			if optimistic.IsLiked {
				err = s.client.LikeComment(ctx, commentID)
			} else {
				err = s.client.UnlikeComment(ctx, commentID)
			}
			return models.Comment{}, false, err
		},
	})
}

// AddComment posts a comment and appends the stored record on success. There
// is no optimistic placeholder: the thread only changes once the server
// confirms.
func (s *BlogService) AddComment(ctx context.Context, content string) error {
	postID := s.Post().ID
	return mutation.SubmitAppend(ctx, s.mutations, mutation.Append[models.Comment]{
		EntityID: fmt.Sprintf("post:%d:comment", postID),
		Confirm: func(ctx context.Context) (models.Comment, error) {
			created, err := s.client.AddComment(ctx, postID, content)
			if err != nil {
				return models.Comment{}, err
			}
			return *created, nil
		},
		Commit: func(created models.Comment) {
			s.mu.Lock()
			s.comments = append(s.comments, created)
			s.post.CommentsCount++
			s.mu.Unlock()
		},
	})
}

func findComment(comments []models.Comment, id int64) (models.Comment, bool) {
	for _, c := range comments {
		if c.ID == id {
			return c, true
		}
	}
	return models.Comment{}, false
}

func replaceComment(comments []models.Comment, snapshot models.Comment) {
	for i := range comments {
		if comments[i].ID == snapshot.ID {
			comments[i] = snapshot
			return
		}
	}
}
