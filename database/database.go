package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"glowfeed-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.ChatMessage{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Feed queries order by created_at, trending by like_count
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for posts created_at: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_like_count ON posts(like_count DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for posts like_count: %v\n", err)
	}

	// Post likes composite index
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_post_likes_post_user ON post_likes(post_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for post_likes: %v\n", err)
	}

	// Chat history is always read per-user oldest-first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created ON chat_messages(user_id, created_at)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for chat_messages: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Prevent duplicate likes. The toggler is optimistic client-of-the-DB
	// logic; uniqueness of (post, user) is enforced here, not there.
	if err := db.Exec("ALTER TABLE post_likes ADD CONSTRAINT uk_post_likes_post_user UNIQUE (post_id, user_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for post_likes: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var postCount int64
	db.Model(&models.Post{}).Count(&postCount)

	if postCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	price := func(v float64) *float64 { return &v }
	brand := func(s string) *string { return &s }

	testPosts := []models.Post{
		{
			ID:         "post-1",
			Title:      "5-minute dewy skin routine",
			AuthorName: "Mia Chen",
			Category:   "skincare",
			ImageURL:   "https://picsum.photos/400/600?random=1",
			Tags:       models.StringSlice{"natural", "routine", "glow"},
			LikeCount:  42,
			CreatedAt:  time.Now().Add(-6 * time.Hour),
		},
		{
			ID:         "post-2",
			Title:      "Glossier You layering guide",
			AuthorName: "Ava Park",
			Category:   "fragrance",
			ImageURL:   "https://picsum.photos/400/600?random=2",
			Tags:       models.StringSlice{"glossier", "fragrance"},
			LikeCount:  128,
			Price:      price(68),
			Brand:      brand("Glossier"),
			CreatedAt:  time.Now().Add(-30 * time.Hour),
		},
		{
			ID:         "post-3",
			Title:      "Ingredient scan: niacinamide serums compared",
			AuthorName: "Lena Novak",
			Category:   "skincare",
			ImageURL:   "https://picsum.photos/400/600?random=3",
			Tags:       models.StringSlice{"scan", "ingredients", "serum"},
			LikeCount:  87,
			CreatedAt:  time.Now().Add(-72 * time.Hour),
		},
		{
			ID:         "post-4",
			Title:      "Bold graphic liner, three ways",
			AuthorName: "Riko Tanaka",
			Category:   "makeup",
			ImageURL:   "https://picsum.photos/400/600?random=4",
			Tags:       models.StringSlice{"bold", "liner", "editorial"},
			LikeCount:  15,
			CreatedAt:  time.Now().Add(-200 * time.Hour),
		},
	}

	for _, post := range testPosts {
		if err := db.Create(&post).Error; err != nil {
			fmt.Printf("Warning: Could not create test post %s: %v\n", post.Title, err)
		}
	}

	fmt.Println("Database seeded with test posts")
	return nil
}
