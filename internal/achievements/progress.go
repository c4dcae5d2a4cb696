package achievements

import (
	"math"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
)

// communityStarterName is a known irregularity: this achievement shipped
// without a criteria definition, so its completion is read straight off the
// groups_created counter. Kept verbatim; do not generalize.
const communityStarterName = "Community Starter"

// ProgressOf computes the completion percentage for an unearned achievement
// from its criteria and the user's counter bag. It never fails: missing or
// malformed inputs degrade to 0.
func ProgressOf(name string, criteria *models.Criteria, progress *models.Progress) int {
	if progress == nil {
		return 0
	}

	if criteria == nil || !criteria.Known() {
		if name == communityStarterName {
			if created, ok := progress.Counter(models.CriterionGroupsCreated); ok {
				if created > 0 {
					return 100
				}
				return 0
			}
		}
		logger.Log.WithField("achievement", name).Debug("Achievement criteria has no usable type")
		return 0
	}

	required := criteria.Count
	switch criteria.Type {
	case models.CriterionAccountAge:
		if criteria.Months != 0 {
			required = criteria.Months
		}
	case models.CriterionLoginStreak:
		if criteria.Days != 0 {
			required = criteria.Days
		}
	}

	current, ok := progress.Counter(criteria.Type)
	if !ok {
		logger.Log.WithFields(map[string]interface{}{
			"achievement": name,
			"counter":     criteria.Type,
		}).Debug("Progress counter missing for achievement")
		return 0
	}

	// A zero or negative required count would divide by zero or produce
	// nonsense; treat as not started.
	if required <= 0 {
		return 0
	}

	pct := int(math.Round(current / required * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
