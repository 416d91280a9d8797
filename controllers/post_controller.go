package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"glowfeed-api/models"
	"glowfeed-api/repositories"
	"glowfeed-api/services"
	"glowfeed-api/utils"
)

type PostController struct {
	db          *gorm.DB
	postRepo    *repositories.PostRepository
	likeService *services.LikeService
}

func NewPostController(db *gorm.DB, postRepo *repositories.PostRepository, likeService *services.LikeService) *PostController {
	return &PostController{
		db:          db,
		postRepo:    postRepo,
		likeService: likeService,
	}
}

// GetFeed returns the post feed ordered for the requested filter. "For You"
// runs the taste-profile scoring; "Trending" sorts by raw like count;
// "Your Routine" and "Scans" are tag filters.
func (pc *PostController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	filter := c.DefaultQuery("filter", "For You")

	posts, err := pc.postRepo.FetchPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	switch filter {
	case "Trending":
		posts = services.SortByTrending(posts)
	case "Your Routine":
		posts = services.RoutinePosts(posts)
	case "Scans":
		posts = services.ScanPosts(posts)
	default:
		filter = "For You"
		posts = services.ScorePosts(posts, pc.tasteProfile(userID))
	}

	liked, err := pc.likeService.Likes(c.Request.Context(), userID)
	if err != nil {
		// The feed is still useful without like state.
		liked = []string{}
	}

	c.JSON(http.StatusOK, models.FeedResponse{
		Posts:  posts,
		Filter: filter,
		Liked:  liked,
	})
}

func (pc *PostController) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filters": services.FeedFilters})
}

func (pc *PostController) GetPost(c *gin.Context) {
	postID := c.Param("id")

	post, err := pc.postRepo.FetchPost(c.Request.Context(), postID)
	if err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetLikes returns the ids of the posts the current user has liked.
func (pc *PostController) GetLikes(c *gin.Context) {
	userID := c.GetString("user_id")

	liked, err := pc.likeService.Likes(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked_post_ids": liked})
}

func (pc *PostController) LikePost(c *gin.Context) {
	pc.toggleLike(c, false)
}

func (pc *PostController) UnlikePost(c *gin.Context) {
	pc.toggleLike(c, true)
}

func (pc *PostController) toggleLike(c *gin.Context, currentlyLiked bool) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	if _, err := pc.postRepo.FetchPost(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	liked, err := pc.likeService.Toggle(c.Request.Context(), userID, postID, currentlyLiked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": postID, "liked": liked})
}

// tasteProfile loads the scoring subset of the user's profile. A missing
// profile degrades to unpersonalized scoring rather than failing the feed.
func (pc *PostController) tasteProfile(userID string) models.TasteProfile {
	var user models.User
	if err := pc.db.First(&user, "id = ?", userID).Error; err != nil {
		return models.TasteProfile{}
	}
	return user.TasteProfile()
}
