package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Env         string
	LogLevel    string
	RoutePrefix string
	CORSOrigin  string

	// Limits
	AIRateLimitPerMin int
	MaxBodyBytes      int64

	// Redis (exchange log + notification pub/sub)
	RedisURL string

	// Platform auth
	PlatformJWTSecret string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	UpstreamTimeout      time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		RoutePrefix: getEnvOrDefault("ROUTE_PREFIX", ""),
		CORSOrigin:  getEnvOrDefault("CORS_ORIGIN", "*"),

		AIRateLimitPerMin: getEnvAsIntOrDefault("AI_RATE_LIMIT_PER_MIN", 30),
		MaxBodyBytes:      int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 10<<20)),

		RedisURL: getEnvOrDefault("REDIS_URL", ""),

		PlatformJWTSecret: getEnvOrDefault("PLATFORM_JWT_SECRET", ""),

		// Missing key is reported per request as SERVICE_UNCONFIGURED, not at startup.
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_AI_API_KEY")),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		UpstreamTimeout:      getEnvAsDurationOrDefault("UPSTREAM_TIMEOUT", 60*time.Second),
	}

	return cfg
}

// GeminiConfigured reports whether an upstream API key is present.
func (c *Config) GeminiConfigured() bool {
	return c.GeminiAPIKey != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
