package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
)

// successEnvelope wraps toggle endpoints that confirm without a payload.
type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// toggle posts to /api/{resource}/{id}/{action} and checks the envelope.
func (c *Client) toggle(ctx context.Context, resource string, id int64, action string) error {
	path := fmt.Sprintf("/api/%s/%d/%s", resource, id, action)
	var envelope successEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError(firstNonEmpty(envelope.Message, envelope.Error), "failed to "+action)
	}
	return nil
}

// LikePost marks a blog post liked by the current user.
func (c *Client) LikePost(ctx context.Context, postID int64) error {
	return c.toggle(ctx, "blog", postID, "like")
}

// UnlikePost removes the current user's like from a blog post.
func (c *Client) UnlikePost(ctx context.Context, postID int64) error {
	return c.toggle(ctx, "blog", postID, "unlike")
}

// LikeComment marks a blog comment liked.
func (c *Client) LikeComment(ctx context.Context, commentID int64) error {
	return c.toggle(ctx, "blog/comments", commentID, "like")
}

// UnlikeComment removes a like from a blog comment.
func (c *Client) UnlikeComment(ctx context.Context, commentID int64) error {
	return c.toggle(ctx, "blog/comments", commentID, "unlike")
}

// LikeDiscussion marks a forum discussion liked.
func (c *Client) LikeDiscussion(ctx context.Context, discussionID int64) error {
	return c.toggle(ctx, "forum/discussions", discussionID, "like")
}

// LikeReply likes a forum reply. Replies have no unlike endpoint.
func (c *Client) LikeReply(ctx context.Context, discussionID, replyID int64) error {
	path := fmt.Sprintf("/api/forum/discussions/%d/replies/%d/like", discussionID, replyID)
	var envelope successEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError(firstNonEmpty(envelope.Message, envelope.Error), "failed to like reply")
	}
	return nil
}

// MarkSolution marks a reply as the discussion's accepted solution.
func (c *Client) MarkSolution(ctx context.Context, discussionID, replyID int64) error {
	path := fmt.Sprintf("/api/forum/discussions/%d/solution/%d", discussionID, replyID)
	var envelope successEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError(firstNonEmpty(envelope.Message, envelope.Error), "failed to mark solution")
	}
	return nil
}

// eventEnvelope wraps event registration responses. The server may include
// the recomputed event, which is authoritative over the optimistic counts.
type eventEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Error   string        `json:"error"`
	Event   *models.Event `json:"event"`
}

// RegisterEvent registers the current user for an event. The returned event
// is nil when the server confirmed without a payload.
func (c *Client) RegisterEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	return c.eventAction(ctx, eventID, "register")
}

// UnregisterEvent cancels the current user's registration.
func (c *Client) UnregisterEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	return c.eventAction(ctx, eventID, "unregister")
}

func (c *Client) eventAction(ctx context.Context, eventID int64, action string) (*models.Event, error) {
	path := fmt.Sprintf("/api/events/%d/%s", eventID, action)
	var envelope eventEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, envelopeError(firstNonEmpty(envelope.Message, envelope.Error), "failed to "+action+" for event")
	}
	return envelope.Event, nil
}

// FollowUser follows another user.
func (c *Client) FollowUser(ctx context.Context, userID int64) error {
	return c.followAction(ctx, userID, http.MethodPost)
}

// UnfollowUser removes a follow.
func (c *Client) UnfollowUser(ctx context.Context, userID int64) error {
	return c.followAction(ctx, userID, http.MethodDelete)
}

func (c *Client) followAction(ctx context.Context, userID int64, method string) error {
	path := fmt.Sprintf("/api/users/%d/follow", userID)
	var envelope successEnvelope
	if err := c.do(ctx, method, path, nil, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return envelopeError(firstNonEmpty(envelope.Message, envelope.Error), "failed to update follow status")
	}
	return nil
}

// AddComment posts a comment and returns the stored record.
func (c *Client) AddComment(ctx context.Context, postID int64, content string) (*models.Comment, error) {
	path := fmt.Sprintf("/api/blog/%d/comments", postID)
	body := map[string]string{"content": content}

	var created models.Comment
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
