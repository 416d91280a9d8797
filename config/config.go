package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Completion provider (Groq, OpenAI-compatible)
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string
	GroqTimeout time.Duration

	// Local session cache file
	CachePath string

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	groqTimeout, _ := strconv.Atoi(getEnv("GROQ_TIMEOUT_SECONDS", "60"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/glowfeed?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqTimeout: time.Duration(groqTimeout) * time.Second,

		CachePath: getEnv("CACHE_PATH", "glowfeed-cache.json"),

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@glowfeed.app"),
		FromName:     getEnv("FROM_NAME", "GlowFeed"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
