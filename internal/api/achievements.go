package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
)

// catalogEnvelope wraps GET /api/achievements.
type catalogEnvelope struct {
	Success      bool                 `json:"success"`
	Achievements []models.Achievement `json:"achievements"`
	Error        string               `json:"error"`
}

// userAchievementsEnvelope wraps GET /api/users/{id}/achievements.
type userAchievementsEnvelope struct {
	Success            bool                       `json:"success"`
	EarnedAchievements []models.EarnedAchievement `json:"earned_achievements"`
	Progress           []models.Progress          `json:"progress"`
	Error              string                     `json:"error"`
}

// AchievementCatalog fetches every achievement definition.
func (c *Client) AchievementCatalog(ctx context.Context) ([]models.Achievement, error) {
	var envelope catalogEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/achievements", nil, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, envelopeError(envelope.Error, "failed to fetch achievements")
	}
	return envelope.Achievements, nil
}

// UserAchievements fetches a user's earned records and progress counters.
func (c *Client) UserAchievements(ctx context.Context, userID int64) ([]models.EarnedAchievement, []models.Progress, error) {
	path := fmt.Sprintf("/api/users/%d/achievements", userID)
	var envelope userAchievementsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, nil, err
	}
	if !envelope.Success {
		return nil, nil, envelopeError(envelope.Error, "failed to fetch user achievements")
	}
	return envelope.EarnedAchievements, envelope.Progress, nil
}

// RefreshStats asks the server to recompute the progress counters.
func (c *Client) RefreshStats(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/achievements/refresh-stats", nil, nil)
}

// envelopeError surfaces a success=false body delivered with a 2xx status.
func envelopeError(message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return &Error{StatusCode: http.StatusOK, Message: message}
}
