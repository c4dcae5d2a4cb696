package achievements

import (
	"testing"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeHugger() models.Achievement {
	return models.Achievement{
		ID:        5,
		Name:      "Tree Hugger",
		ExpReward: 50,
		Criteria:  &models.Criteria{Type: models.CriterionTreesPlanted, Count: 10},
	}
}

func treeProgress(planted float64) models.Progress {
	return models.Progress{
		AchievementID: 5,
		Counters:      map[string]float64{"trees_planted": planted},
	}
}

func TestMergeCatalogWithProgress(t *testing.T) {
	merged := Merge(
		[]models.Achievement{treeHugger()},
		nil,
		[]models.Progress{treeProgress(4)},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, models.NumericID(5), merged[0].ID)
	assert.False(t, merged[0].Earned)
	assert.Equal(t, 40, merged[0].Progress)
}

func TestMergeEarnedWins(t *testing.T) {
	// Once the earned record appears, the catalog+progress entry for id 5
	// must not also appear.
	merged := Merge(
		[]models.Achievement{treeHugger()},
		[]models.EarnedAchievement{{ID: 9, AchievementID: 5, Name: "Tree Hugger", ExpReward: 50, EarnedAt: "2026-08-01T00:00:00Z"}},
		[]models.Progress{treeProgress(10)},
	)

	require.Len(t, merged, 1)
	assert.True(t, merged[0].Earned)
	assert.Equal(t, models.NumericID(5), merged[0].ID)
	assert.Equal(t, int64(9), merged[0].UserAchievementID)
	assert.Equal(t, 100, merged[0].Progress)
}

func TestMergeOneEntryPerID(t *testing.T) {
	catalog := []models.Achievement{
		{ID: 1, Name: "First Steps"},
		{ID: 2, Name: "Green Thumb"},
		treeHugger(),
	}
	earned := []models.EarnedAchievement{
		{ID: 10, AchievementID: 2, Name: "Green Thumb"},
		{ID: 11, AchievementID: 2, Name: "Green Thumb"}, // duplicate earned record
	}

	merged := Merge(catalog, earned, nil)

	seen := make(map[models.AchievementID]int)
	for _, m := range merged {
		seen[m.ID]++
	}
	assert.Len(t, merged, 3)
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s appears %d times", id, count)
	}
}

func TestMergeDeterministic(t *testing.T) {
	catalog := []models.Achievement{treeHugger(), {ID: 2, Name: "Green Thumb"}}
	earned := []models.EarnedAchievement{{ID: 10, AchievementID: 2}}
	progress := []models.Progress{treeProgress(4)}

	first := Merge(catalog, earned, progress)
	second := Merge(catalog, earned, progress)
	assert.Equal(t, first, second)
}

func TestMergeEarnedWithoutAchievementID(t *testing.T) {
	earned := []models.EarnedAchievement{
		{ID: 7, Name: "Early Adopter"}, // falls back to its own id
	}

	merged := Merge(nil, earned, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, models.NumericID(7), merged[0].ID)
	assert.True(t, merged[0].Earned)
}

func TestMergeDropsInvalidRecords(t *testing.T) {
	earned := []models.EarnedAchievement{
		{}, // no ids at all
		{ID: 7, Name: "Early Adopter"},
	}
	progress := []models.Progress{
		{}, // no achievement reference
	}

	merged := Merge(nil, earned, progress)
	require.Len(t, merged, 1)
	assert.Equal(t, models.NumericID(7), merged[0].ID)
}

func TestMergeFallbackWhenCatalogMissing(t *testing.T) {
	// An empty catalog (failed fetch) must not blank the page when earned or
	// progress data exists.
	earned := []models.EarnedAchievement{{ID: 9, AchievementID: 5, Name: "Tree Hugger"}}

	merged := Merge(nil, earned, []models.Progress{treeProgress(4)})
	require.NotEmpty(t, merged)
	assert.True(t, merged[0].Earned)
}

func TestMergeAllEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, nil))
}
