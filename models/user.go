package models

import (
	"time"
)

type User struct {
	ID                 string      `json:"id" gorm:"primaryKey;size:191"`
	Name               string      `json:"name" gorm:"size:255"`
	Email              string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password           string      `json:"-" gorm:"not null;size:255"`
	EmailVerified      bool        `json:"email_verified" gorm:"default:false"`
	OnboardingComplete bool        `json:"onboarding_complete" gorm:"default:false"`
	BeautyVibe         string      `json:"beauty_vibe" gorm:"size:50"`
	FavoriteBrands     StringSlice `json:"favorite_brands" gorm:"type:json"`
	RoutineTime        string      `json:"routine_time" gorm:"size:20"`
	XPPoints           int         `json:"xp_points" gorm:"default:0"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	Messages []ChatMessage `json:"-" gorm:"foreignKey:UserID"`
	Likes    []PostLike    `json:"-" gorm:"foreignKey:UserID"`
}

// TasteProfile is the subset of a profile read by feed scoring and the chat
// system prompt. Zero values mean "not set".
type TasteProfile struct {
	BeautyVibe     string   `json:"beauty_vibe"`
	FavoriteBrands []string `json:"favorite_brands"`
	RoutineTime    string   `json:"routine_time"`
	XPPoints       int      `json:"xp_points"`
}

func (u *User) TasteProfile() TasteProfile {
	return TasteProfile{
		BeautyVibe:     u.BeautyVibe,
		FavoriteBrands: []string(u.FavoriteBrands),
		RoutineTime:    u.RoutineTime,
		XPPoints:       u.XPPoints,
	}
}
