package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowfeed-api/models"
)

func rankingFixture(now time.Time) []models.Post {
	return []models.Post{
		{
			ID:        "fresh-match",
			Tags:      models.StringSlice{"natural", "glow"},
			LikeCount: 10,
			CreatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID:        "old-popular",
			Tags:      models.StringSlice{"bold"},
			LikeCount: 100,
			CreatedAt: now.Add(-300 * time.Hour),
		},
		{
			ID:        "brand-match",
			Tags:      models.StringSlice{"glossier", "fragrance"},
			LikeCount: 50,
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}

func TestScorePosts_Deterministic(t *testing.T) {
	now := time.Now()
	posts := rankingFixture(now)
	profile := models.TasteProfile{BeautyVibe: "natural", FavoriteBrands: []string{"Glossier"}}

	first := scorePostsAt(posts, profile, now)
	second := scorePostsAt(posts, profile, now)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}

	// Input order untouched
	assert.Equal(t, "fresh-match", posts[0].ID)
	assert.Zero(t, posts[0].Score)
}

func TestScorePosts_EmptyInput(t *testing.T) {
	out := ScorePosts(nil, models.TasteProfile{})
	assert.Empty(t, out)
}

func TestScorePosts_RecencyClampsAtZero(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		{ID: "ancient", Tags: models.StringSlice{"x"}, LikeCount: 0, CreatedAt: now.Add(-400 * time.Hour)},
	}

	scored := scorePostsAt(posts, models.TasteProfile{}, now)
	require.Len(t, scored, 1)

	// relevance 0.3, recency 0 (clamped, not negative), popularity 0/1
	assert.InDelta(t, 0.5*0.3, scored[0].Score, 1e-9)
}

func TestScorePosts_RecencyBoundary(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name     string
		age      time.Duration
		expected float64
	}{
		{"brand_new", 0, 0.3},
		{"half_window", 84 * time.Hour, 0.15},
		{"exact_window", 168 * time.Hour, 0},
		{"past_window", 169 * time.Hour, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posts := []models.Post{{ID: "p", CreatedAt: now.Add(-tc.age)}}
			scored := scorePostsAt(posts, models.TasteProfile{}, now)
			// Strip relevance (0.5*0.3) and popularity (0.2*0) to isolate recency.
			recencyPart := scored[0].Score - 0.5*0.3
			assert.InDelta(t, tc.expected, recencyPart, 1e-9)
		})
	}
}

func TestScorePosts_PopularityNormalized(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		{ID: "a", LikeCount: 5, CreatedAt: now.Add(-200 * time.Hour)},
		{ID: "b", LikeCount: 20, CreatedAt: now.Add(-200 * time.Hour)},
		{ID: "c", LikeCount: 0, CreatedAt: now.Add(-200 * time.Hour)},
	}

	scored := scorePostsAt(posts, models.TasteProfile{}, now)

	byID := map[string]float64{}
	for _, p := range scored {
		// relevance 0.3 and recency 0 for all: score = 0.15 + 0.2*popularity
		popularity := (p.Score - 0.15) / 0.2
		byID[p.ID] = popularity
		assert.GreaterOrEqual(t, popularity, -1e-9)
		assert.LessOrEqual(t, popularity, 1+1e-9)
	}

	assert.InDelta(t, 1.0, byID["b"], 1e-9)
	assert.InDelta(t, 0.25, byID["a"], 1e-9)
	assert.InDelta(t, 0.0, byID["c"], 1e-9)
}

func TestScorePosts_ZeroLikesEverywhere(t *testing.T) {
	now := time.Now()
	posts := []models.Post{
		{ID: "a", LikeCount: 0, CreatedAt: now},
		{ID: "b", LikeCount: 0, CreatedAt: now},
	}

	// maxLikes floors at 1, so no division by zero and popularity is 0.
	scored := scorePostsAt(posts, models.TasteProfile{}, now)
	require.Len(t, scored, 2)
	for _, p := range scored {
		assert.InDelta(t, 0.5*0.3+0.3*1.0, p.Score, 1e-9)
	}
}

func TestScorePosts_RelevanceBoundary(t *testing.T) {
	now := time.Now().Add(-200 * time.Hour)
	profile := models.TasteProfile{
		BeautyVibe:     "natural",
		FavoriteBrands: []string{"Glossier", "The Ordinary"},
	}

	cases := []struct {
		name      string
		tags      models.StringSlice
		relevance float64
	}{
		{"no_overlap", models.StringSlice{"bold", "editorial"}, 0.3},
		{"vibe_match", models.StringSlice{"natural"}, 1.0},
		{"brand_match_lowercased", models.StringSlice{"glossier"}, 1.0},
		{"multi_overlap_same_as_single", models.StringSlice{"natural", "glossier"}, 1.0},
		{"case_sensitive_tags", models.StringSlice{"Glossier"}, 0.3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posts := []models.Post{{ID: "p", Tags: tc.tags, CreatedAt: now.Add(-200 * time.Hour)}}
			scored := scorePostsAt(posts, profile, now)
			relevancePart := scored[0].Score / 0.5
			assert.InDelta(t, tc.relevance, relevancePart, 1e-9)
		})
	}
}

func TestScorePosts_OrderedByScoreDescending(t *testing.T) {
	now := time.Now()
	posts := rankingFixture(now)
	profile := models.TasteProfile{BeautyVibe: "natural"}

	scored := scorePostsAt(posts, profile, now)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestSortByTrending(t *testing.T) {
	posts := []models.Post{
		{ID: "a", LikeCount: 3},
		{ID: "b", LikeCount: 100},
		{ID: "c", LikeCount: 40},
	}

	trending := SortByTrending(posts)

	require.Len(t, trending, 3)
	for i := 1; i < len(trending); i++ {
		assert.GreaterOrEqual(t, trending[i-1].LikeCount, trending[i].LikeCount)
	}

	// Input untouched
	assert.Equal(t, "a", posts[0].ID)
}

func TestFilterPredicates(t *testing.T) {
	posts := []models.Post{
		{ID: "routine-post", Tags: models.StringSlice{"routine", "glow"}},
		{ID: "scan-post", Tags: models.StringSlice{"scan"}},
		{ID: "other", Tags: models.StringSlice{"bold"}},
	}

	routine := RoutinePosts(posts)
	require.Len(t, routine, 1)
	assert.Equal(t, "routine-post", routine[0].ID)

	scans := ScanPosts(posts)
	require.Len(t, scans, 1)
	assert.Equal(t, "scan-post", scans[0].ID)
}
