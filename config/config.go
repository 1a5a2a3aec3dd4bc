package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS         = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS        = "0.0.0.0:8080" // ignored when TLS_DOMAINS is set
	DEBUG_MODE          = false
	LOG_MODE            = "dev"       // "dev" or "prod"
	POSTGRES_DSN        = ""          // Postgres is used if this (or DATABASE_URL) is set
	MYSQL_DSN           = ""          // MySQL is used if POSTGRES_DSN is not configured and this is set
	SQLITE_FILE         = "survey.db" // Fallback when neither of the above is configured
	FILE_UPLOAD_DIR     = "./uploads" // Disk storage root, unless S3_BUCKET is set
	S3_BUCKET           = ""
	S3_REGION           = "us-east-1"
	S3_ENDPOINT         = "" // For S3 compatible services (MinIO, etc)
	S3_KEY              = ""
	S3_SECRET           = ""
	S3_PREFIX           = ""  // Key prefix inside the bucket
	S3_SSE              = ""  // Server side encryption, e.g. "AES256"
	ALLOWED_ORIGINS     = "*" // Comma separated
	RATE_LIMIT_RPS      = 20.0
	RATE_LIMIT_BURST    = 40
	FILE_SWEEP_SCHEDULE = "@every 1m" // robfig/cron spec for removing files of deleted records
	MAX_IMAGERY_SIZE_MB = 10
	MAX_OVERLAY_SIZE_MB = 30
	MAX_ICON_SIZE_MB    = 1
	THUMB_SIZE          = 512
	FILE_CACHE_SECONDS  = 3600 // Browser max-age for originals and icons, 0 disables caching
	THUMB_CACHE_SECONDS = 86400
	SEED_FILE           = "" // Optional YAML file with asset types to create on start
)

func init() {
	// A missing .env is fine, the environment is used as is
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("LOG_MODE", &LOG_MODE)
	readEnvString("DATABASE_URL", &POSTGRES_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("FILE_UPLOAD_DIR", &FILE_UPLOAD_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("S3_SSE", &S3_SSE)
	readEnvString("ALLOWED_ORIGINS", &ALLOWED_ORIGINS)
	readEnvFloat("RATE_LIMIT_RPS", &RATE_LIMIT_RPS)
	readEnvInt("RATE_LIMIT_BURST", &RATE_LIMIT_BURST)
	readEnvString("FILE_SWEEP_SCHEDULE", &FILE_SWEEP_SCHEDULE)
	readEnvInt("MAX_IMAGERY_SIZE_MB", &MAX_IMAGERY_SIZE_MB)
	readEnvInt("MAX_OVERLAY_SIZE_MB", &MAX_OVERLAY_SIZE_MB)
	readEnvInt("MAX_ICON_SIZE_MB", &MAX_ICON_SIZE_MB)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvInt("FILE_CACHE_SECONDS", &FILE_CACHE_SECONDS)
	readEnvInt("THUMB_CACHE_SECONDS", &THUMB_CACHE_SECONDS)
	readEnvString("SEED_FILE", &SEED_FILE)
}

// AllowedOrigins splits ALLOWED_ORIGINS, dropping empty entries
func AllowedOrigins() []string {
	return splitList(ALLOWED_ORIGINS)
}

// TLSDomains splits TLS_DOMAINS, dropping empty entries
func TLSDomains() []string {
	return splitList(TLS_DOMAINS)
}

func splitList(value string) []string {
	result := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
