package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AgentConfigPath  string
	CORSOrigins      []string
}

func LoadConfig() Config {
	// Optional .env; real environment variables win when both are set.
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8000"),
		DatabaseURL:      NormalizeDatabaseURL(getEnv("DATABASE_URL", "./scout.db")),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AgentConfigPath:  getEnv("AGENT_CONFIG", ""),
		CORSOrigins:      parseList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
	}
}

// NormalizeDatabaseURL rewrites the postgres:// scheme to postgresql://.
// Both are accepted in DATABASE_URL; the driver always sees the latter.
func NormalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}

// IsPostgres reports whether DATABASE_URL points at a Postgres server
// rather than a sqlite file path.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func parseList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
