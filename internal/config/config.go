package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI         string
	PostgresURI      string
	RedisURI         string
	Port             string
	FrontendURL      string
	AllowedOrigins   []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	ClassifierURL    string   // mood classifier endpoint (OpenAI-compatible chat completions)
	ClassifierKey    string
	ClassifierModel  string
	Environment      string // ENV: production, development, etc.
	MonthIndexTTLMin int    // cached month index lifetime in minutes
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		frontend := strings.TrimSpace(getEnv("FRONTEND_URL", "http://localhost:3000"))
		if frontend != "" {
			allowedOrigins = append(allowedOrigins, frontend)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:         getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/moodjar")),
		PostgresURI:      getEnv("POSTGRES_URI", "postgres://localhost:5432/moodjar?sslmode=disable"),
		RedisURI:         getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:             getEnv("PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:   allowedOrigins,
		ClassifierURL:    getEnv("CLASSIFIER_URL", "https://api.openai.com/v1/chat/completions"),
		ClassifierKey:    getEnv("CLASSIFIER_API_KEY", ""),
		ClassifierModel:  getEnv("CLASSIFIER_MODEL", "gpt-4o-mini"),
		Environment:      env,
		MonthIndexTTLMin: 10,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
