package achievements

import "github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"

// Category buckets achievements for display filtering.
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategoryCommunity     Category = "community"
	CategoryLearning      Category = "learning"
	CategoryEngagement    Category = "engagement"
)

// serverCategories maps the backend's category column to display categories.
var serverCategories = map[string]Category{
	"environmental_action": CategoryEnvironmental,
	"community_engagement": CategoryCommunity,
	"knowledge_learning":   CategoryLearning,
	"platform_engagement":  CategoryEngagement,
}

// criterionCategories classifies by criterion type when the backend category
// is absent or unmapped.
var criterionCategories = map[models.CriterionType]Category{
	models.CriterionLoginCount:  CategoryEngagement,
	models.CriterionLoginStreak: CategoryEngagement,
	models.CriterionAccountAge:  CategoryEngagement,

	models.CriterionBlogComments:      CategoryLearning,
	models.CriterionBlogPosts:         CategoryLearning,
	models.CriterionLearningCompleted: CategoryLearning,
	models.CriterionMaterialsRead:     CategoryLearning,

	models.CriterionForumDiscussions:    CategoryCommunity,
	models.CriterionForumReplies:        CategoryCommunity,
	models.CriterionForumPosts:          CategoryCommunity,
	models.CriterionEventsCreated:       CategoryCommunity,
	models.CriterionEventsJoined:        CategoryCommunity,
	models.CriterionGroupsCreated:       CategoryCommunity,
	models.CriterionGroupMembers:        CategoryCommunity,
	models.CriterionChallengesCompleted: CategoryCommunity,

	models.CriterionTreesPlanted:   CategoryEnvironmental,
	models.CriterionVolunteerHours: CategoryEnvironmental,
	models.CriterionCO2Offset:      CategoryEnvironmental,
}

// CategoryOf classifies an achievement from its own fields only, so the
// result is stable across renders and testable in isolation. Unclassifiable
// achievements land in the environmental bucket.
func CategoryOf(category string, criteria *models.Criteria) Category {
	if mapped, ok := serverCategories[category]; ok {
		return mapped
	}
	if criteria != nil {
		if mapped, ok := criterionCategories[criteria.Type]; ok {
			return mapped
		}
	}
	return CategoryEnvironmental
}
