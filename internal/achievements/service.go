package achievements

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
)

// ErrNoSources is returned when every achievement source failed to load.
var ErrNoSources = errors.New("no achievement data available")

// Tab selects the completion filter on the achievements view.
type Tab string

const (
	TabAll        Tab = "all"
	TabCompleted  Tab = "completed"
	TabInProgress Tab = "in-progress"
)

// View is the derived page state for the achievements screen.
type View struct {
	All []models.MergedAchievement

	// Earned is the valid earned records, newest first as served, used for
	// the "recently earned" rail and the header totals.
	Earned []models.EarnedAchievement

	TotalAchievements int
	TotalEarned       int
	TotalPoints       int
}

// CompletionRate is the earned percentage for the header, 0 when nothing is
// loaded.
func (v *View) CompletionRate() int {
	if v.TotalAchievements == 0 {
		return 0
	}
	return int(math.Round(float64(v.TotalEarned) / float64(v.TotalAchievements) * 100))
}

// CategoryCounts tallies the merged view per display category.
func (v *View) CategoryCounts() map[Category]int {
	counts := make(map[Category]int)
	for _, a := range v.All {
		counts[CategoryOf(a.Category, a.Criteria)]++
	}
	return counts
}

// Filter narrows the merged view by search text, category and completion tab.
func (v *View) Filter(query string, category Category, tab Tab) []models.MergedAchievement {
	query = strings.ToLower(query)
	var out []models.MergedAchievement
	for _, a := range v.All {
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		if category != "" && CategoryOf(a.Category, a.Criteria) != category {
			continue
		}
		switch tab {
		case TabCompleted:
			if !a.EffectivelyEarned() {
				continue
			}
		case TabInProgress:
			if a.EffectivelyEarned() {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Service loads and reconciles the achievement sources for one user.
type Service struct {
	client *api.Client
}

// NewService creates a new Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Load fetches the catalog and the user's earned/progress records and merges
// them. Each source is independent: a failed fetch is logged and the merge
// proceeds with whatever succeeded. Only when every source failed does Load
// return an error.
func (s *Service) Load(ctx context.Context, userID int64) (*View, error) {
	catalog, catalogErr := s.client.AchievementCatalog(ctx)
	if catalogErr != nil {
		if errors.Is(catalogErr, api.ErrUnauthorized) {
			return nil, catalogErr
		}
		logger.Log.WithError(catalogErr).Error("Failed to fetch achievement catalog")
	}

	earned, progress, userErr := s.client.UserAchievements(ctx, userID)
	if userErr != nil {
		if errors.Is(userErr, api.ErrUnauthorized) {
			return nil, userErr
		}
		logger.Log.WithField("user_id", userID).WithError(userErr).Error("Failed to fetch user achievements")
	}

	if catalogErr != nil && userErr != nil {
		return nil, ErrNoSources
	}

	view := &View{All: Merge(catalog, earned, progress)}
	for _, record := range earned {
		if !record.Valid() {
			continue
		}
		view.Earned = append(view.Earned, record)
		view.TotalPoints += record.ExpReward
	}
	view.TotalAchievements = len(view.All)
	view.TotalEarned = len(view.Earned)

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
		"merged":  view.TotalAchievements,
		"earned":  view.TotalEarned,
	}).Info("Achievements reconciled")
	return view, nil
}

// Refresh asks the server to recompute the progress counters, then reloads.
// A failed recompute is logged and the reload still happens, matching the
// page behavior of rendering stale counters over nothing.
func (s *Service) Refresh(ctx context.Context, userID int64) (*View, error) {
	if err := s.client.RefreshStats(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, err
		}
		logger.Log.WithError(err).Error("Failed to refresh user stats")
	}
	return s.Load(ctx, userID)
}
