package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"glowfeed-api/cache"
	"glowfeed-api/config"
	"glowfeed-api/controllers"
	"glowfeed-api/middleware"
	"glowfeed-api/repositories"
	"glowfeed-api/services"
)

func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, sessionCache *cache.Cache, emailService *services.EmailService, chatService *services.ChatService, likeService *services.LikeService) {
	postRepo := repositories.NewPostRepository(db)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService, sessionCache)
	userController := controllers.NewUserController(db, sessionCache)
	postController := controllers.NewPostController(db, postRepo, likeService)
	chatController := controllers.NewChatController(db, chatService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public, rate limited)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(20, 5))
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
		auth.POST("/send-verification", authController.SendVerification)
		auth.POST("/verify-code", authController.VerifyCode)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.POST("/onboarding", userController.CompleteOnboarding)
		}

		// Post routes
		posts := protected.Group("/posts")
		{
			posts.GET("/feed", postController.GetFeed)
			posts.GET("/filters", postController.GetFilters)
			posts.GET("/likes", postController.GetLikes)
			posts.GET("/:id", postController.GetPost)
			posts.POST("/:id/like", postController.LikePost)
			posts.DELETE("/:id/like", postController.UnlikePost)
		}

		// Chat routes
		chat := protected.Group("/chat")
		{
			chat.GET("/messages", chatController.GetMessages)
			chat.POST("/send", chatController.SendMessage)
		}
	}
}
