package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret           string
	AppTimezone         string
	StoreDriver         string
	ArchiveGraceDays    int
	ArchiveCron         string
	ArchiveOnStart      bool
	AllowCustomDuration bool
	CorsOrigins         string
	RateLimitMax        int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system ENV")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppTimezone = GetEnv("APP_TIMEZONE", "Asia/Jakarta")
	StoreDriver = strings.ToLower(GetEnv("STORE_DRIVER", "postgres"))
	ArchiveGraceDays = GetEnvInt("ARCHIVE_GRACE_DAYS", 30)
	ArchiveCron = GetEnv("ARCHIVE_CRON", "10 0 * * *")
	ArchiveOnStart = GetEnvBool("ARCHIVE_ON_START", true)
	AllowCustomDuration = GetEnvBool("ALLOW_CUSTOM_DURATION", false)
	CorsOrigins = GetEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5500")
	RateLimitMax = GetEnvInt("RATE_LIMIT_MAX", 100)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	if ArchiveGraceDays < 0 {
		log.Printf("⚠️ ARCHIVE_GRACE_DAYS=%d is negative, using 0", ArchiveGraceDays)
		ArchiveGraceDays = 0
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// AppLocation resolves APP_TIMEZONE, falling back to UTC.
func AppLocation() *time.Location {
	if loc, err := time.LoadLocation(AppTimezone); err == nil {
		return loc
	}
	return time.UTC
}
