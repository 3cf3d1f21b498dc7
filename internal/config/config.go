package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime settings loaded from the environment.
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	TokenExpiry  time.Duration
	UploadDir    string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string
}

// LoadConfig reads the .env file (if present) and builds the Config.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "friendgallery"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenExpiry: getDurationEnv("TOKEN_EXPIRY", 24*time.Hour),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		// Empty SMTP settings leave the welcome mail disabled.
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.WithField("key", key).Warn("Invalid duration in environment, using default")
	}
	return fallback
}
