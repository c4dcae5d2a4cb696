package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
)

// ChatHistory fetches a channel's message history. The server returns
// newest-first pages; callers reverse for chronological display.
func (c *Client) ChatHistory(ctx context.Context, groupID int64) ([]models.ChannelMessage, error) {
	path := fmt.Sprintf("/api/groups/%d/chat/messages", groupID)
	var messages []models.ChannelMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendChatMessage posts a message to a group channel. Delivery back to the
// sender happens through the realtime stream, not this response.
func (c *Client) SendChatMessage(ctx context.Context, groupID int64, content string) error {
	path := fmt.Sprintf("/api/groups/%d/chat/messages", groupID)
	body := map[string]string{"content": content}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// JoinGroup adds the current user to a group.
func (c *Client) JoinGroup(ctx context.Context, groupID int64) error {
	return c.toggle(ctx, "groups", groupID, "join")
}

// LeaveGroup removes the current user from a group.
func (c *Client) LeaveGroup(ctx context.Context, groupID int64) error {
	return c.toggle(ctx, "groups", groupID, "leave")
}

// Memberships lists the groups the current user belongs to.
func (c *Client) Memberships(ctx context.Context) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	if err := c.do(ctx, http.MethodGet, "/api/groups/memberships", nil, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}
