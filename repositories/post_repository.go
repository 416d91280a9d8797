package repositories

import (
	"context"

	"gorm.io/gorm"

	"glowfeed-api/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// FetchPosts returns the full post feed, newest first.
func (r *PostRepository) FetchPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchPost returns a single post by id.
func (r *PostRepository) FetchPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", postID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FetchUserLikes returns the ids of all posts liked by a user.
func (r *PostRepository) FetchUserLikes(ctx context.Context, userID string) ([]string, error) {
	var likes []models.PostLike
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&likes).Error
	if err != nil {
		return nil, err
	}

	postIDs := make([]string, 0, len(likes))
	for _, like := range likes {
		postIDs = append(postIDs, like.PostID)
	}
	return postIDs, nil
}

// AddLike inserts a like row and bumps the post's like counter. The unique
// (post_id, user_id) constraint makes a double-insert fail rather than
// double-count.
func (r *PostRepository) AddLike(ctx context.Context, userID, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.PostLike{
			PostID: postID,
			UserID: userID,
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
}

// RemoveLike deletes the like row and decrements the post's like counter.
func (r *PostRepository) RemoveLike(ctx context.Context, userID, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error
	})
}
