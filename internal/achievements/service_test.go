package achievements

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/config"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/credentials"
)

// achievementsBackend fakes the two source endpoints with per-endpoint status
// overrides so partial failures can be simulated.
type achievementsBackend struct {
	catalogStatus int
	catalogBody   string
	userStatus    int
	userBody      string
	refreshStatus int
	refreshCalls  int32
}

func (b *achievementsBackend) serve(t *testing.T) string {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/api/achievements", func(w http.ResponseWriter, r *http.Request) {
		if b.catalogStatus != 0 {
			w.WriteHeader(b.catalogStatus)
		}
		w.Write([]byte(b.catalogBody))
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}/achievements", func(w http.ResponseWriter, r *http.Request) {
		if b.userStatus != 0 {
			w.WriteHeader(b.userStatus)
		}
		w.Write([]byte(b.userBody))
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/achievements/refresh-stats", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.refreshCalls, 1)
		if b.refreshStatus != 0 {
			w.WriteHeader(b.refreshStatus)
		}
		w.Write([]byte(`{"success": true}`))
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newAchievementsService(t *testing.T, b *achievementsBackend) *Service {
	t.Helper()
	creds := credentials.NewStore("test-token")
	client := api.NewClient(&config.Config{APIBaseURL: b.serve(t)}, creds)
	return NewService(client)
}

const catalogFixture = `{
	"success": true,
	"achievements": [
		{"id": 5, "name": "Tree Hugger", "description": "Plant 10 trees", "exp_reward": 50,
		 "category": "environmental_action", "criteria": {"type": "trees_planted", "count": 10}},
		{"id": 6, "name": "Blogger", "description": "Write 3 posts", "exp_reward": 30,
		 "criteria": {"type": "blog_posts", "count": 3}}
	]
}`

const userFixture = `{
	"success": true,
	"earned_achievements": [
		{"id": 9, "achievement_id": 5, "name": "Tree Hugger", "exp_reward": 50, "earned_at": "2026-08-01T10:00:00Z"}
	],
	"progress": [
		{"achievement_id": 6, "blog_posts": 1}
	]
}`

func TestServiceLoadMergesSources(t *testing.T) {
	backend := &achievementsBackend{catalogBody: catalogFixture, userBody: userFixture}
	svc := newAchievementsService(t, backend)

	view, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, view.All, 2)
	assert.Equal(t, 2, view.TotalAchievements)
	assert.Equal(t, 1, view.TotalEarned)
	assert.Equal(t, 50, view.TotalPoints)
	assert.Equal(t, 50, view.CompletionRate())

	byID := make(map[models.AchievementID]models.MergedAchievement)
	for _, a := range view.All {
		byID[a.ID] = a
	}
	treeHugger := byID[models.NumericID(5)]
	assert.True(t, treeHugger.Earned)
	assert.Equal(t, 100, treeHugger.Progress)
	assert.Equal(t, int64(9), treeHugger.UserAchievementID)

	blogger := byID[models.NumericID(6)]
	assert.False(t, blogger.Earned)
	assert.Equal(t, 33, blogger.Progress)
}

func TestServiceLoadCatalogDown(t *testing.T) {
	backend := &achievementsBackend{
		catalogStatus: http.StatusInternalServerError,
		catalogBody:   `{"error": "boom"}`,
		userBody:      userFixture,
	}
	svc := newAchievementsService(t, backend)

	view, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)

	// Fallback view built from the earned records alone.
	require.Len(t, view.All, 1)
	assert.True(t, view.All[0].Earned)
	assert.Equal(t, 1, view.TotalEarned)
}

func TestServiceLoadUserSourceDown(t *testing.T) {
	backend := &achievementsBackend{
		catalogBody: catalogFixture,
		userStatus:  http.StatusInternalServerError,
		userBody:    `{"error": "boom"}`,
	}
	svc := newAchievementsService(t, backend)

	view, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, view.All, 2)
	for _, a := range view.All {
		assert.False(t, a.Earned)
		assert.Equal(t, 0, a.Progress)
	}
	assert.Equal(t, 0, view.TotalEarned)
}

func TestServiceLoadAllSourcesDown(t *testing.T) {
	backend := &achievementsBackend{
		catalogStatus: http.StatusInternalServerError,
		catalogBody:   `{"error": "boom"}`,
		userStatus:    http.StatusInternalServerError,
		userBody:      `{"error": "boom"}`,
	}
	svc := newAchievementsService(t, backend)

	_, err := svc.Load(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestServiceLoadUnauthorizedPassesThrough(t *testing.T) {
	backend := &achievementsBackend{
		catalogStatus: http.StatusUnauthorized,
		userBody:      userFixture,
	}
	svc := newAchievementsService(t, backend)

	_, err := svc.Load(context.Background(), 1)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestServiceLoadEnvelopeFailure(t *testing.T) {
	backend := &achievementsBackend{
		catalogBody: `{"success": false, "error": "catalog rebuilding"}`,
		userBody:    userFixture,
	}
	svc := newAchievementsService(t, backend)

	// success=false on a 200 counts as a failed source, not a hard error.
	view, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalEarned)
}

func TestServiceRefreshToleratesRecomputeFailure(t *testing.T) {
	backend := &achievementsBackend{
		catalogBody:   catalogFixture,
		userBody:      userFixture,
		refreshStatus: http.StatusInternalServerError,
	}
	svc := newAchievementsService(t, backend)

	view, err := svc.Refresh(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.refreshCalls))
	assert.Equal(t, 2, view.TotalAchievements)
}

func TestViewFilter(t *testing.T) {
	criteria := &models.Criteria{Type: models.CriterionTreesPlanted, Count: 10}
	view := &View{All: []models.MergedAchievement{
		{ID: "1", Name: "Tree Hugger", Description: "Plant trees", Category: "environmental_action", Criteria: criteria, Earned: true, Progress: 100},
		{ID: "2", Name: "Blogger", Description: "Write posts", Category: "knowledge_learning", Progress: 33},
		{ID: "3", Name: "Welcome", Description: "Sign up", Category: "platform_engagement", Progress: 100},
	}}

	assert.Len(t, view.Filter("", "", TabAll), 3)
	assert.Len(t, view.Filter("tree", "", TabAll), 1)
	assert.Len(t, view.Filter("WRITE", "", TabAll), 1, "search matches descriptions case-insensitively")
	assert.Len(t, view.Filter("", CategoryEnvironmental, TabAll), 1)

	// 100% progress counts as completed even without an earned record.
	completed := view.Filter("", "", TabCompleted)
	require.Len(t, completed, 2)
	inProgress := view.Filter("", "", TabInProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, "Blogger", inProgress[0].Name)
}

func TestViewCategoryCounts(t *testing.T) {
	view := &View{All: []models.MergedAchievement{
		{ID: "1", Category: "environmental_action"},
		{ID: "2", Criteria: &models.Criteria{Type: models.CriterionBlogPosts}},
		{ID: "3", Category: "platform_engagement"},
		{ID: "4"},
	}}
	counts := view.CategoryCounts()
	assert.Equal(t, 2, counts[CategoryEnvironmental])
	assert.Equal(t, 1, counts[CategoryLearning])
	assert.Equal(t, 1, counts[CategoryEngagement])
}

func TestViewCompletionRateEmpty(t *testing.T) {
	view := &View{}
	assert.Equal(t, 0, view.CompletionRate())
}

func TestViewCompletionRateRounds(t *testing.T) {
	view := &View{TotalAchievements: 3, TotalEarned: 2}
	assert.Equal(t, 67, view.CompletionRate())

	view = &View{TotalAchievements: 3, TotalEarned: 1}
	assert.Equal(t, 33, view.CompletionRate())
}
