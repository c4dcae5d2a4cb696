package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// AchievementID is the canonical identifier used to deduplicate an
// achievement across the catalog, earned and progress sources. Server ids are
// numeric; earned records missing an achievement reference fall back to a
// synthetic placeholder so a partial record never crashes or silently drops.
type AchievementID string

// NumericID converts a server-side numeric id to its canonical form.
func NumericID(n int64) AchievementID {
	return AchievementID(strconv.FormatInt(n, 10))
}

// SyntheticEarnedID is the placeholder id for an earned record the server
// returned without an achievement_id.
func SyntheticEarnedID(index int) AchievementID {
	return AchievementID(fmt.Sprintf("earned-%d", index))
}

// CriterionType identifies which server-side counter gates an achievement.
type CriterionType string

const (
	// Platform engagement
	CriterionLoginCount  CriterionType = "login_count"
	CriterionLoginStreak CriterionType = "login_streak"
	CriterionAccountAge  CriterionType = "account_age"

	// Knowledge and learning
	CriterionBlogComments      CriterionType = "blog_comments"
	CriterionBlogPosts         CriterionType = "blog_posts"
	CriterionLearningCompleted CriterionType = "learning_completed"
	CriterionMaterialsRead     CriterionType = "materials_read"

	// Community engagement
	CriterionForumDiscussions    CriterionType = "forum_discussions"
	CriterionForumReplies        CriterionType = "forum_replies"
	CriterionForumPosts          CriterionType = "forum_posts"
	CriterionEventsCreated       CriterionType = "events_created"
	CriterionEventsJoined        CriterionType = "events_joined"
	CriterionGroupsCreated       CriterionType = "groups_created"
	CriterionGroupMembers        CriterionType = "group_members"
	CriterionChallengesCompleted CriterionType = "challenges_completed"

	// Environmental action
	CriterionTreesPlanted   CriterionType = "trees_planted"
	CriterionVolunteerHours CriterionType = "volunteer_hours"
	CriterionCO2Offset      CriterionType = "co2_offset"

	// CriterionUnknown marks a type the client does not recognize. It is
	// flagged when decoded instead of being silently treated as a known one.
	CriterionUnknown CriterionType = ""
)

var knownCriterionTypes = map[CriterionType]bool{
	CriterionLoginCount:          true,
	CriterionLoginStreak:         true,
	CriterionAccountAge:          true,
	CriterionBlogComments:        true,
	CriterionBlogPosts:           true,
	CriterionLearningCompleted:   true,
	CriterionMaterialsRead:       true,
	CriterionForumDiscussions:    true,
	CriterionForumReplies:        true,
	CriterionForumPosts:          true,
	CriterionEventsCreated:       true,
	CriterionEventsJoined:        true,
	CriterionGroupsCreated:       true,
	CriterionGroupMembers:        true,
	CriterionChallengesCompleted: true,
	CriterionTreesPlanted:        true,
	CriterionVolunteerHours:      true,
	CriterionCO2Offset:           true,
}

// Criteria describes what completes an achievement. The backend stores it as
// JSON text inside a JSON column, so the wire value is either an object or a
// string containing an object; both decode here. A decode failure leaves the
// zero value (no type), which downstream code treats as 0% progress rather
// than an error.
type Criteria struct {
	Type CriterionType `json:"type"`
	// RawType preserves the wire value when Type is not a recognized
	// CriterionType.
	RawType string  `json:"-"`
	Count   float64 `json:"count,omitempty"`
	Months  float64 `json:"months,omitempty"`
	Days    float64 `json:"days,omitempty"`
}

// Known reports whether the criterion type is one the client understands.
func (c Criteria) Known() bool {
	return knownCriterionTypes[c.Type]
}

// UnmarshalJSON accepts both `{"type":...}` and `"{\"type\":...}"`.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	// Unwrap a string-encoded payload first.
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if encoded == "" {
			return nil
		}
		data = []byte(encoded)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		// One broken criteria row must not abort decoding the whole catalog
		// envelope; the zero value reads as 0% progress downstream.
		logrus.WithError(err).Warn("Unparsable achievement criteria, treating as empty")
		return nil
	}

	if t, ok := raw["type"].(string); ok {
		candidate := CriterionType(t)
		if knownCriterionTypes[candidate] {
			c.Type = candidate
		} else {
			c.Type = CriterionUnknown
			c.RawType = t
			logrus.WithField("criteria_type", t).Warn("Unrecognized achievement criteria type")
		}
	}
	c.Count = numericField(raw, "count")
	c.Months = numericField(raw, "months")
	c.Days = numericField(raw, "days")
	return nil
}

// numericField tolerates absent or non-numeric values, returning 0. The
// backend has shipped criteria with string-encoded counts before.
func numericField(raw map[string]interface{}, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// Achievement is an immutable catalog entry owned by the server.
type Achievement struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ExpReward   int       `json:"exp_reward"`
	Category    string    `json:"category,omitempty"`
	IconName    string    `json:"icon_name,omitempty"`
	Criteria    *Criteria `json:"criteria,omitempty"`
}

// EarnedAchievement records that a user holds an achievement. It carries two
// ids: its own join-record id and the achievement definition id. CanonicalID
// normalizes to the definition id.
type EarnedAchievement struct {
	ID            int64     `json:"id"`
	AchievementID int64     `json:"achievement_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ExpReward     int       `json:"exp_reward"`
	Category      string    `json:"category,omitempty"`
	IconName      string    `json:"icon_name,omitempty"`
	Criteria      *Criteria `json:"criteria,omitempty"`
	EarnedAt      string    `json:"earned_at"`
}

// Valid reports whether the record carries at least one usable id.
func (e EarnedAchievement) Valid() bool {
	return e.ID != 0 || e.AchievementID != 0
}

// CanonicalID resolves the definition id: achievement_id when present, the
// join-record id otherwise, and a synthetic placeholder as a last resort.
func (e EarnedAchievement) CanonicalID(index int) AchievementID {
	if e.AchievementID != 0 {
		return NumericID(e.AchievementID)
	}
	if e.ID != 0 {
		return NumericID(e.ID)
	}
	return SyntheticEarnedID(index)
}

// Progress is the per-user counter bag for one in-progress achievement. The
// server keys counters by criterion type name, so unknown keys are kept.
type Progress struct {
	AchievementID int64
	Counters      map[string]float64
}

// Valid reports whether the record references an achievement.
func (p Progress) Valid() bool {
	return p.AchievementID != 0
}

// Counter returns the value for a criterion type, and whether it was present.
func (p Progress) Counter(t CriterionType) (float64, bool) {
	if p.Counters == nil {
		return 0, false
	}
	v, ok := p.Counters[string(t)]
	return v, ok
}

// UnmarshalJSON splits the id fields from the loose counter bag.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if id := numericField(raw, "achievement_id"); id != 0 {
		p.AchievementID = int64(id)
	} else if id := numericField(raw, "id"); id != 0 {
		p.AchievementID = int64(id)
	}

	p.Counters = make(map[string]float64)
	for key, value := range raw {
		if key == "id" || key == "achievement_id" {
			continue
		}
		switch n := value.(type) {
		case float64:
			p.Counters[key] = n
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				p.Counters[key] = parsed
			}
		}
	}
	return nil
}

// MergedAchievement is the derived, deduplicated view entry: exactly one per
// canonical achievement id, earned entries winning over catalog+progress.
type MergedAchievement struct {
	ID          AchievementID
	Name        string
	Description string
	ExpReward   int
	Category    string
	IconName    string
	Criteria    *Criteria
	Earned      bool
	EarnedAt    string
	// UserAchievementID is the join-record id, kept for earned entries.
	UserAchievementID int64
	// Progress is the computed completion percentage, 0..100.
	Progress int
}

// EffectivelyEarned reports whether the entry is done for display purposes:
// explicitly earned or at exactly 100% computed progress.
func (m MergedAchievement) EffectivelyEarned() bool {
	return m.Earned || m.Progress == 100
}
