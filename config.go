package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects every runtime knob, read once from the environment at
// startup. Tests mutate the package-level cfg directly.
type Config struct {
	Port  string
	Debug bool

	// Database
	DBDriver    string // "postgres" or "sqlite"
	DBDSN       string
	AutoMigrate bool

	// Auth
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	// Uploads
	UploadBase string

	// Optional user-lookup cache
	RedisAddr string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	ResetURLBase string

	CORSOrigins []string
}

func loadConfig() Config {
	return Config{
		Port:  getEnv("PORT", "8081"),
		Debug: getEnvBool("DEBUG", false),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBDSN:       getEnv("DB_DSN", ""),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute),

		UploadBase: getEnv("UPLOAD_BASE", "uploads"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@dally.local"),
		ResetURLBase: getEnv("RESET_URL_BASE", "http://localhost:3000/reset-password"),

		CORSOrigins: getEnvList("CORS_ORIGINS", nil),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
