package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"glowfeed-api/cache"
	"glowfeed-api/models"
	"glowfeed-api/utils"
)

type UserController struct {
	db           *gorm.DB
	sessionCache *cache.Cache
}

func NewUserController(db *gorm.DB, sessionCache *cache.Cache) *UserController {
	return &UserController{db: db, sessionCache: sessionCache}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name           *string   `json:"name"`
		BeautyVibe     *string   `json:"beauty_vibe"`
		FavoriteBrands *[]string `json:"favorite_brands"`
		RoutineTime    *string   `json:"routine_time"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BeautyVibe != nil {
		updates["beauty_vibe"] = *req.BeautyVibe
	}
	if req.FavoriteBrands != nil {
		updates["favorite_brands"] = models.StringSlice(*req.FavoriteBrands)
	}
	if req.RoutineTime != nil {
		if !utils.IsValidRoutineTime(*req.RoutineTime) {
			utils.SendValidationError(c, "Invalid routine time")
			return
		}
		updates["routine_time"] = *req.RoutineTime
	}

	if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	uc.refreshCachedProfile(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

type OnboardingRequest struct {
	FavoriteBrands []string `json:"favorite_brands" binding:"required"`
	RoutineTime    string   `json:"routine_time" binding:"required"`
	BeautyVibe     string   `json:"beauty_vibe" binding:"required"`
	XPPoints       int      `json:"xp_points"`
}

// CompleteOnboarding saves the onboarding selections to the profile and
// marks onboarding as complete.
func (uc *UserController) CompleteOnboarding(c *gin.Context) {
	userID := c.GetString("user_id")

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if !utils.IsValidRoutineTime(req.RoutineTime) {
		utils.SendValidationError(c, "Invalid routine time")
		return
	}

	updates := map[string]interface{}{
		"favorite_brands":     models.StringSlice(req.FavoriteBrands),
		"routine_time":        req.RoutineTime,
		"beauty_vibe":         req.BeautyVibe,
		"xp_points":           req.XPPoints,
		"onboarding_complete": true,
	}

	if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save onboarding"})
		return
	}

	if err := uc.sessionCache.Set(cache.KeyOnboardingComplete, "true"); err != nil {
		fmt.Printf("Failed to cache onboarding flag: %v\n", err)
	}
	uc.refreshCachedProfile(userID)

	utils.SendSuccess(c, "Onboarding completed", nil)
}

// refreshCachedProfile rewrites the cached profile JSON after a mutation.
func (uc *UserController) refreshCachedProfile(userID string) {
	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	user.Password = ""
	if err := uc.sessionCache.SetJSON(cache.KeyProfile, &user); err != nil {
		fmt.Printf("Failed to cache profile: %v\n", err)
	}
}
