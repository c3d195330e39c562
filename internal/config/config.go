package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	Embedding EmbeddingConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers           int
	MaxPlayers           int
	PoolSize             int
	EliminationThreshold float64
	SessionTTL           time.Duration
	GuardMaxRetries      int
	CodeLength           int
	AIPacing             bool
	ThemesDir            string
}

// EmbeddingConfig holds embedding-provider configuration
type EmbeddingConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults. A .env
// file is honored in development when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MinPlayers:           getEnvInt("MIN_PLAYERS", 3),
			MaxPlayers:           getEnvInt("MAX_PLAYERS", 8),
			PoolSize:             getEnvInt("WORD_POOL_SIZE", 20),
			EliminationThreshold: getEnvFloat("ELIMINATION_THRESHOLD", 0.80),
			SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MINUTES", 24*60)) * time.Minute,
			GuardMaxRetries:      getEnvInt("GUARD_MAX_RETRIES", 3),
			CodeLength:           getEnvInt("SESSION_CODE_LENGTH", 6),
			AIPacing:             getEnvBool("AI_PACING", true),
			ThemesDir:            getEnv("THEMES_DIR", ""),
		},
		Embedding: EmbeddingConfig{
			BaseURL:   getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:    getEnv("EMBEDDING_API_KEY", ""),
			Model:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 1536),
			Timeout:   time.Duration(getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 15)) * time.Second,
			CacheTTL:  time.Duration(getEnvInt("EMBEDDING_CACHE_TTL_MINUTES", 24*60)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as a bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
