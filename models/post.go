package models

import (
	"time"
)

type Post struct {
	ID         string      `json:"id" gorm:"primaryKey;size:191"`
	Title      string      `json:"title" gorm:"not null;size:255"`
	AuthorName string      `json:"author_name" gorm:"size:255"`
	Category   string      `json:"category" gorm:"size:100"`
	ImageURL   string      `json:"image_url" gorm:"size:500"`
	Tags       StringSlice `json:"tags" gorm:"type:json"`
	LikeCount  int         `json:"like_count" gorm:"default:0"`
	Price      *float64    `json:"price,omitempty"`
	Brand      *string     `json:"brand,omitempty" gorm:"size:100"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Score is attached by feed ranking only, never persisted.
	Score float64 `json:"score,omitempty" gorm:"-"`

	Likes []PostLike `json:"-" gorm:"foreignKey:PostID"`
}

// HasTag reports whether tag is in the post's tag set.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"post" gorm:"foreignKey:PostID"`
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// FeedResponse is the ranked feed payload.
type FeedResponse struct {
	Posts  []Post   `json:"posts"`
	Filter string   `json:"filter"`
	Liked  []string `json:"liked_post_ids"`
}
