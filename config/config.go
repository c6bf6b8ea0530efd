package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Annany2002/recipe-backend/internal/logger"
	"github.com/joho/godotenv"
)

var (
	customLog = logger.NewLogger()
)

// Config holds application configuration values
type Config struct {
	ServerPort    string
	JWTSecret     string
	JWTExpiration time.Duration
	DatabaseDir   string
	DatabaseFile  string

	EnrichmentAPIKey  string
	EnrichmentBaseURL string
	EnrichmentTimeout time.Duration

	RateLimit      float64 // requests per second per client, 0 disables
	RateLimitBurst int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	port := strings.TrimPrefix(getEnv("SERVER_PORT", "8080"), ":")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}

	jwtExpHours := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	enrichmentTimeout := getEnvInt("ENRICHMENT_TIMEOUT_SECONDS", 3)

	rateLimit, err := strconv.ParseFloat(getEnv("RATE_LIMIT", "20"), 64)
	if err != nil || rateLimit < 0 {
		customLog.Warnf("Invalid RATE_LIMIT, using default 20 req/s. Error: %v", err)
		rateLimit = 20
	}

	cfg := &Config{
		ServerPort:         port,
		JWTSecret:          jwtSecret,
		JWTExpiration:      time.Hour * time.Duration(jwtExpHours),
		DatabaseDir:        getEnv("DATABASE_DIRECTORY", "data"),
		DatabaseFile:       getEnv("DATABASE_FILE", "recipes.db"),
		EnrichmentAPIKey:   getEnv("ENRICHMENT_API_KEY", ""),
		EnrichmentBaseURL:  getEnv("ENRICHMENT_BASE_URL", "https://person.clearbit.com"),
		EnrichmentTimeout:  time.Second * time.Duration(enrichmentTimeout),
		RateLimit:          rateLimit,
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.EnrichmentAPIKey == "" {
		customLog.Warnln("ENRICHMENT_API_KEY not set, signup title lookup is disabled")
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, JWT Exp: %v", cfg.ServerPort, cfg.JWTExpiration)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt reads a positive integer, falling back on parse errors.
func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		customLog.Warnf("Invalid %s '%s'. Using default %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
