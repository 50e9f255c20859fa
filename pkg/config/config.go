package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort        string
	AdminConsolePort  string
	ArtistConsolePort string
	AllowedOrigins    []string

	// Upstream platform API
	APIBaseURL string
	APITimeout time.Duration

	// Session token storage ("redis" or "memory")
	TokenStore string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT (optional, enables signature verification of session tokens)
	JWTSecret string

	// Upload previews ("dir" or "s3")
	PreviewStore string
	PreviewDir   string

	// AWS S3 / MinIO
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// Views
	SearchDebounce time.Duration
	PageSize       int
	// Cached queries go stale after this long, 0 keeps them until invalidated
	QueryStaleTime time.Duration

	// Login attempts per minute, 0 disables the limiter
	LoginRateLimit int

	// Logging
	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", ""),
		AdminConsolePort:  getEnv("ADMIN_CONSOLE_PORT", "8090"),
		ArtistConsolePort: getEnv("ARTIST_CONSOLE_PORT", "8091"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		APITimeout: getEnvDuration("API_TIMEOUT", 0),

		TokenStore: getEnv("TOKEN_STORE", "memory"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),

		PreviewStore: getEnv("PREVIEW_STORE", "dir"),
		PreviewDir:   getEnv("PREVIEW_DIR", os.TempDir()),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "fanvault-previews"),

		SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 250*time.Millisecond),
		PageSize:       getEnvInt("PAGE_SIZE", 20),
		QueryStaleTime: getEnvDuration("QUERY_STALE_TIME", 0),

		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if config.PageSize <= 0 {
		config.PageSize = 20
	}

	return config, nil
}

// PortFor returns SERVER_PORT when set, otherwise the per-console default.
func (c *Config) PortFor(console string) string {
	if c.ServerPort != "" {
		return c.ServerPort
	}
	if console == "artist" {
		return c.ArtistConsolePort
	}
	return c.AdminConsolePort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
