package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"glowfeed-api/cache"
	"glowfeed-api/models"
	"glowfeed-api/services"
	"glowfeed-api/utils"
)

type AuthController struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *services.EmailService
	sessionCache *cache.Cache
}

func NewAuthController(db *gorm.DB, jwtSecret string, emailService *services.EmailService, sessionCache *cache.Cache) *AuthController {
	return &AuthController{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
		sessionCache: sessionCache,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if !utils.IsValidEmail(req.Email) {
		utils.SendValidationError(c, "Invalid email address")
		return
	}
	if !utils.IsValidPassword(req.Password) {
		utils.SendValidationError(c, "Password must be at least 6 characters and mix letter cases, numbers or symbols")
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := ac.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashedPassword),
		EmailVerified: false,
	}

	if err := ac.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if _, err := ac.emailService.SendVerificationEmail(user.Email, user.Name); err != nil {
		fmt.Printf("Failed to send verification email: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	user.Password = ""
	utils.SendCreated(c, "Registration successful! Please check your email and enter the verification code to complete your account setup.", user)
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (ac *AuthController) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already verified"})
		return
	}

	if !ac.emailService.VerifyCode(req.Email, req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification code"})
		return
	}

	if err := ac.db.Model(&user).Update("email_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	go func() {
		if err := ac.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			fmt.Printf("Failed to send welcome email: %v\n", err)
		}
	}()

	token, err := ac.generateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	user.Password = ""
	user.EmailVerified = true
	ac.writeSession(&user)

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"token":   token,
		"user":    user,
	})
}

type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (ac *AuthController) SendVerification(c *gin.Context) {
	var req SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already verified"})
		return
	}

	if _, err := ac.emailService.SendVerificationEmail(user.Email, user.Name); err != nil {
		fmt.Printf("Failed to send verification email: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to your email"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Email not verified",
			"message": "Please verify your email before logging in. Check your email for the verification code.",
		})
		return
	}

	token, err := ac.generateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	user.Password = ""
	ac.writeSession(&user)

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  user,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionCache.Clear(); err != nil {
		fmt.Printf("Failed to clear session cache: %v\n", err)
	}
	utils.SendSuccess(c, "Successfully logged out", nil)
}

// writeSession stores the session keys the app reads back at startup.
func (ac *AuthController) writeSession(user *models.User) {
	if err := ac.sessionCache.Set(cache.KeyUserID, user.ID); err != nil {
		fmt.Printf("Failed to cache user id: %v\n", err)
	}
	if err := ac.sessionCache.Set(cache.KeyOnboardingComplete, fmt.Sprintf("%t", user.OnboardingComplete)); err != nil {
		fmt.Printf("Failed to cache onboarding flag: %v\n", err)
	}
	if err := ac.sessionCache.SetJSON(cache.KeyProfile, user); err != nil {
		fmt.Printf("Failed to cache profile: %v\n", err)
	}
}

// Helper functions
func (ac *AuthController) generateJWT(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}
