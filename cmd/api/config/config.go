package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the API process reads from the environment,
// with defaults for the tunables and hard requirements for credentials.
type Config struct {
	GoogleAIAPIKey string
	SearchAPIKey   string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	Port           string
	AllowedOrigins []string

	GCSBucketName string
	ArxivBaseURL  string
	SearchBaseURL string

	ResearchModel string
	WriterModel   string

	CacheTTL          time.Duration
	CacheExtendPeriod time.Duration

	MinWordCount  int
	MaxSources    int
	WriterRetries int
}

func NewConfig() *Config {
	return &Config{
		GoogleAIAPIKey: os.Getenv("GOOGLE_AI_STUDIO_API_KEY"),
		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),

		GCSBucketName: os.Getenv("GCS_BUCKET_NAME"),
		ArxivBaseURL:  getEnv("ARXIV_BASE_URL", "https://arxiv.org/pdf/"),
		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://api.tavily.com"),

		ResearchModel: getEnv("RESEARCH_MODEL", "gemini-1.5-flash-001"),
		WriterModel:   getEnv("WRITER_MODEL", "gemini-1.5-pro-001"),

		CacheTTL:          getDuration("RESEARCH_CACHE_TTL", 7*24*time.Hour),
		CacheExtendPeriod: getDuration("RESEARCH_CACHE_EXTEND", 24*time.Hour),

		MinWordCount:  getInt("MIN_WORD_COUNT", 1000),
		MaxSources:    getInt("MAX_SOURCES", 10),
		WriterRetries: getInt("WRITER_RETRIES", 1),
	}
}

// Validate reports every missing required variable at once, so a broken
// environment is fixable in one pass rather than one crash at a time.
func (c *Config) Validate() error {
	required := map[string]string{
		"GOOGLE_AI_STUDIO_API_KEY": c.GoogleAIAPIKey,
		"SEARCH_API_KEY":           c.SearchAPIKey,
		"DB_HOST":                  c.DBHost,
		"DB_USER":                  c.DBUser,
		"DB_PASSWORD":              c.DBPassword,
		"DB_NAME":                  c.DBName,
		"DB_PORT":                  c.DBPort,
		"GCS_BUCKET_NAME":          c.GCSBucketName,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
