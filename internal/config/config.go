package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	S3Bucket    string
	AWSRegion   string
	S3Endpoint  string
	RabbitMQURL string
	APIKey      string
	CORSOrigins []string

	CMSProjectID  string
	CMSDataset    string
	CMSAPIVersion string
	CMSToken      string
	CMSBaseURL    string
	DefaultAuthor string

	PageSize     int
	FeaturedTags []string

	FallbackImagePrefix string
	CDNBaseURL          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Default().Warn("loading .env failed", "error", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
		APIKey:      getEnv("API_KEY", ""),
		CORSOrigins: getList("CORS_ORIGINS", []string{"*"}),

		CMSProjectID:  getEnv("CMS_PROJECT_ID", ""),
		CMSDataset:    getEnv("CMS_DATASET", "production"),
		CMSAPIVersion: getEnv("CMS_API_VERSION", "2024-01-01"),
		CMSToken:      getEnv("CMS_TOKEN", ""),
		CMSBaseURL:    getEnv("CMS_BASE_URL", ""),
		DefaultAuthor: getEnv("DEFAULT_AUTHOR", ""),

		PageSize:     getInt("PAGE_SIZE", 9),
		FeaturedTags: getList("FEATURED_TAGS", nil),

		FallbackImagePrefix: getEnv("FALLBACK_IMAGE_PREFIX", "fallbacks/"),
		CDNBaseURL:          getEnv("CDN_BASE_URL", ""),
	}
}

// ContentBaseURL is the query API root. CMS_BASE_URL wins over the
// project-derived host so tests and proxies can point elsewhere.
func (c *Config) ContentBaseURL() string {
	if c.CMSBaseURL != "" {
		return strings.TrimRight(c.CMSBaseURL, "/")
	}
	if c.CMSProjectID == "" {
		return ""
	}
	return "https://" + c.CMSProjectID + ".api.sanity.io"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		slog.Default().Warn("invalid integer in env, using default", "key", key, "value", value)
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
