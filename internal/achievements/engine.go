package achievements

import (
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
)

// Merge reconciles the three independently fetched achievement sources into
// one deduplicated view: exactly one entry per canonical achievement id, with
// earned records always winning over catalog+progress data for the same id.
//
// Earned records lacking any id and progress records lacking an achievement
// reference are dropped. If the merged result would be empty (e.g. the
// catalog fetch failed) the earned and progress records are concatenated as a
// degraded view so partial data still renders.
func Merge(catalog []models.Achievement, earned []models.EarnedAchievement, progress []models.Progress) []models.MergedAchievement {
	validEarned := make([]models.EarnedAchievement, 0, len(earned))
	for _, record := range earned {
		if record.Valid() {
			validEarned = append(validEarned, record)
		}
	}

	progressByID := make(map[models.AchievementID]*models.Progress, len(progress))
	validProgress := make([]models.Progress, 0, len(progress))
	for i := range progress {
		if !progress[i].Valid() {
			continue
		}
		validProgress = append(validProgress, progress[i])
		progressByID[models.NumericID(progress[i].AchievementID)] = &progress[i]
	}

	processed := make(map[models.AchievementID]bool)
	merged := make([]models.MergedAchievement, 0, len(validEarned)+len(catalog))

	// Earned entries first; they own their canonical id.
	for i, record := range validEarned {
		id := record.CanonicalID(i)
		if processed[id] {
			continue
		}
		processed[id] = true
		merged = append(merged, earnedView(id, record))
	}

	// Catalog entries fill in the rest, enriched with progress counters when
	// the user has any.
	for _, definition := range catalog {
		id := models.NumericID(definition.ID)
		if processed[id] {
			continue
		}
		processed[id] = true
		merged = append(merged, catalogView(id, definition, progressByID[id]))
	}

	if len(merged) > 0 {
		return merged
	}

	// Degraded fallback: never show a totally empty state when partial data
	// exists.
	fallback := make([]models.MergedAchievement, 0, len(validEarned)+len(validProgress))
	for i, record := range validEarned {
		fallback = append(fallback, earnedView(record.CanonicalID(i), record))
	}
	for i := range validProgress {
		record := &validProgress[i]
		fallback = append(fallback, models.MergedAchievement{
			ID: models.NumericID(record.AchievementID),
		})
	}
	return fallback
}

func earnedView(id models.AchievementID, record models.EarnedAchievement) models.MergedAchievement {
	return models.MergedAchievement{
		ID:                id,
		Name:              record.Name,
		Description:       record.Description,
		ExpReward:         record.ExpReward,
		Category:          record.Category,
		IconName:          record.IconName,
		Criteria:          record.Criteria,
		Earned:            true,
		EarnedAt:          record.EarnedAt,
		UserAchievementID: record.ID,
		Progress:          100,
	}
}

func catalogView(id models.AchievementID, definition models.Achievement, progress *models.Progress) models.MergedAchievement {
	return models.MergedAchievement{
		ID:          id,
		Name:        definition.Name,
		Description: definition.Description,
		ExpReward:   definition.ExpReward,
		Category:    definition.Category,
		IconName:    definition.IconName,
		Criteria:    definition.Criteria,
		Earned:      false,
		Progress:    ProgressOf(definition.Name, definition.Criteria, progress),
	}
}
