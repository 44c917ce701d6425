package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// UseMemoryStore keeps profiles in process memory instead of Postgres
	UseMemoryStore bool

	// Token catalog YAML, empty for the built-in catalog
	CatalogFile string

	// Feed configuration
	FeedStartupDelay      time.Duration
	FeedTickInterval      time.Duration
	FeedUpdateProbability float64
	FeedSeed              uint64

	// Wallet configuration
	WalletSeedUSD float64
	WalletSeed    uint64

	// Notification configuration
	TelegramBotToken string
	TelegramChatID   string

	// SMTP configuration, email notifications are off while SMTPHost is empty
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	// Currency configuration
	INRRate float64
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "tokenpulse"),
		UseMemoryStore:   getEnvAsBool("USE_MEMORY_STORE", false),

		CatalogFile: getEnv("CATALOG_FILE", ""),

		FeedStartupDelay:      getEnvAsDuration("FEED_STARTUP_DELAY", 1500*time.Millisecond),
		FeedTickInterval:      getEnvAsDuration("FEED_TICK_INTERVAL", 2*time.Second),
		FeedUpdateProbability: getEnvAsFloat("FEED_UPDATE_PROBABILITY", 0.3),
		FeedSeed:              getEnvAsUint("FEED_SEED", 0),

		WalletSeedUSD: getEnvAsFloat("WALLET_SEED_USD", 10_000),
		WalletSeed:    getEnvAsUint("WALLET_SEED", 0),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),

		INRRate: getEnvAsFloat("INR_RATE", 83.5),

		APIPort: getEnvAsInt("API_PORT", 6532),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be a valid port, got %d", c.APIPort)
	}

	if !c.UseMemoryStore {
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
	}

	if c.FeedStartupDelay < 0 {
		return fmt.Errorf("FEED_STARTUP_DELAY must not be negative")
	}

	if c.FeedTickInterval <= 0 {
		return fmt.Errorf("FEED_TICK_INTERVAL must be positive")
	}

	if c.FeedUpdateProbability < 0 || c.FeedUpdateProbability > 1 {
		return fmt.Errorf("FEED_UPDATE_PROBABILITY must be within [0, 1], got %v", c.FeedUpdateProbability)
	}

	if c.WalletSeedUSD <= 0 {
		return fmt.Errorf("WALLET_SEED_USD must be positive")
	}

	if c.INRRate <= 0 {
		return fmt.Errorf("INR_RATE must be positive")
	}

	if c.TelegramChatID != "" && c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_CHAT_ID is set")
	}

	if c.SMTPHost != "" {
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.SMTPPort)
		}
		if c.SMTPSender == "" {
			return fmt.Errorf("SMTP_SENDER is required when SMTP_HOST is set")
		}
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsUint(name string, defaultValue uint64) uint64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
