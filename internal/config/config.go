package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	Env     string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	SessionTTL   time.Duration
	CookieDomain string

	BFFMountPath  string
	AllowedOrigin string

	SendGridAPIKey string
	SenderEmail    string
	RecipientEmail string

	GoogleClientEmail       string
	GooglePrivateKey        string
	GoogleDriveFolderID     string
	GoogleDriveGiftFolderID string
}

func Load() Config {

	// Local development convenience; in production everything comes
	// from real environment variables.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),
		Env:     getenv("APP_ENV", "development"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionTTL:   durationEnv("SESSION_TTL", 24*time.Hour),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		BFFMountPath:  getenv("BFF_MOUNT_PATH", "/api/bff"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		RecipientEmail: os.Getenv("RECIPIENT_EMAIL"),

		GoogleClientEmail:       os.Getenv("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:        os.Getenv("GOOGLE_PRIVATE_KEY"),
		GoogleDriveFolderID:     os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		GoogleDriveGiftFolderID: os.Getenv("GOOGLE_DRIVE_GIFT_FOLDER_ID"),
	}

	return cfg

}

// Production reports whether the app runs with its public domain, which
// controls the session cookie Domain attribute.
func (c Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
