package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	Database string // "mongo" or "memory"

	MongoURI      string
	MongoDatabase string

	JWTSecret string

	CloudinaryURL    string
	CloudinaryFolder string
	UploadDir        string

	CORSOrigins        []string
	RateLimitPerMinute int

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		GinMode:          getenv("GIN_MODE", "debug"),
		Database:         strings.ToLower(getenv("DATABASE", "mongo")),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getenv("MONGODB_DATABASE", "blog"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getenv("CLOUDINARY_FOLDER", "blog/posts"),
		UploadDir:        getenv("UPLOAD_DIR", "images"),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),
		VAPIDPublicKey:   os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey:  os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:     getenv("VAPID_SUBJECT", "mailto:admin@example.com"),
	}

	limit, err := strconv.Atoi(getenv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a non-negative integer")
	}
	cfg.RateLimitPerMinute = limit

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	switch cfg.Database {
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGODB_URI must be set (or DATABASE=memory)")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unsupported DATABASE %q (use mongo or memory)", cfg.Database)
	}
	return cfg, nil
}

// PushEnabled reports whether both VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
