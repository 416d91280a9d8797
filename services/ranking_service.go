package services

import (
	"sort"
	"strings"
	"time"

	"glowfeed-api/models"
)

// Feed filters exposed by the API, in display order.
var FeedFilters = []string{"For You", "Trending", "Your Routine", "Scans"}

const (
	relevanceWeight  = 0.5
	recencyWeight    = 0.3
	popularityWeight = 0.2

	// Recency decays linearly to zero over a 7-day window.
	recencyWindowHours = 168.0

	routineTag = "routine"
	scanTag    = "scan"
)

// ScorePosts ranks posts for a user's taste profile. Pure: the input slice
// is not modified, and repeated calls with the same inputs at the same
// instant produce the same order and scores.
//
// score = 0.5*relevance + 0.3*recency + 0.2*popularity, where relevance is
// 1.0 when the post's tags intersect the profile's vibe or lowercased
// favorite brands (0.3 otherwise), recency decays linearly over 168 hours,
// and popularity is like_count normalized against the batch maximum.
func ScorePosts(posts []models.Post, profile models.TasteProfile) []models.Post {
	return scorePostsAt(posts, profile, time.Now())
}

func scorePostsAt(posts []models.Post, profile models.TasteProfile, now time.Time) []models.Post {
	if len(posts) == 0 {
		return []models.Post{}
	}

	maxLikes := 1
	for _, p := range posts {
		if p.LikeCount > maxLikes {
			maxLikes = p.LikeCount
		}
	}

	scored := make([]models.Post, len(posts))
	copy(scored, posts)

	for i := range scored {
		relevance := 0.3
		if matchesTaste(&scored[i], profile) {
			relevance = 1.0
		}

		hoursOld := now.Sub(scored[i].CreatedAt).Hours()
		recency := 1 - hoursOld/recencyWindowHours
		if recency < 0 {
			recency = 0
		}

		popularity := float64(scored[i].LikeCount) / float64(maxLikes)

		scored[i].Score = relevanceWeight*relevance + recencyWeight*recency + popularityWeight*popularity
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	return scored
}

// matchesTaste reports whether the post's tag set intersects the profile's
// vibe or lowercased favorite brands. Any overlap counts the same.
func matchesTaste(post *models.Post, profile models.TasteProfile) bool {
	if profile.BeautyVibe != "" && post.HasTag(profile.BeautyVibe) {
		return true
	}
	for _, brand := range profile.FavoriteBrands {
		if post.HasTag(strings.ToLower(brand)) {
			return true
		}
	}
	return false
}

// SortByTrending orders posts by raw like count descending, no scoring.
func SortByTrending(posts []models.Post) []models.Post {
	trending := make([]models.Post, len(posts))
	copy(trending, posts)

	sort.SliceStable(trending, func(a, b int) bool {
		return trending[a].LikeCount > trending[b].LikeCount
	})

	return trending
}

// FilterByTag keeps posts carrying the given tag.
func FilterByTag(posts []models.Post, tag string) []models.Post {
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// RoutinePosts keeps posts tagged for daily-routine content.
func RoutinePosts(posts []models.Post) []models.Post {
	return FilterByTag(posts, routineTag)
}

// ScanPosts keeps ingredient-scan posts.
func ScanPosts(posts []models.Post) []models.Post {
	return FilterByTag(posts, scanTag)
}
