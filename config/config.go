package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"wordler/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr    string
	FrontendURL string // CORS origin, post-login redirect and share link

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Game configuration
	ReferenceTimezone   string // IANA zone that defines the calendar day
	RecencyWindowDays   int    // Days a word is kept out of rotation
	WordListPath        string // Optional primary word source
	PuzzleSalt          string
	LeaderboardMinGames int
	ShareTitle          string

	// Notification configuration
	NotificationTTL        time.Duration
	DestinationGuardWindow time.Duration
	DeliveryPollInterval   time.Duration

	// Discord OAuth configuration
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string
	GroupSyncMaxAge     time.Duration

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration

	// Delivery agent configuration
	BotAPIToken  string // Bearer token presented by external delivery agents
	DiscordToken string // Enables the built-in delivery bot when set

	// Redis configuration
	RedisAddr string // Shared destination guard when set

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), optional

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location resolves the reference timezone. Falls back to UTC only when the
// zone name is invalid, which load already rejects outside tests.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":3000"),
		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:5173"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		ReferenceTimezone:   getEnvWithDefault("REFERENCE_TIMEZONE", "Europe/Paris"),
		RecencyWindowDays:   getIntWithDefault("RECENCY_WINDOW_DAYS", 5),
		WordListPath:        os.Getenv("WORD_LIST_PATH"),
		PuzzleSalt:          getEnvWithDefault("PUZZLE_SALT", "wordler"),
		LeaderboardMinGames: getIntWithDefault("LEADERBOARD_MIN_GAMES", 5),
		ShareTitle:          getEnvWithDefault("SHARE_TITLE", "Wordle FR"),

		NotificationTTL:        getDurationWithDefault("NOTIFICATION_TTL", 24*time.Hour),
		DestinationGuardWindow: getDurationWithDefault("DESTINATION_GUARD_WINDOW", 60*time.Second),
		DeliveryPollInterval:   getDurationWithDefault("DELIVERY_POLL_INTERVAL", 30*time.Second),

		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURL:  getEnvWithDefault("DISCORD_REDIRECT_URL", "http://localhost:3000/auth/discord/callback"),
		GroupSyncMaxAge:     getDurationWithDefault("GROUP_SYNC_MAX_AGE", 6*time.Hour),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getDurationWithDefault("SESSION_TTL", 7*24*time.Hour),

		BotAPIToken:  os.Getenv("BOT_API_TOKEN"),
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "wordler"),
		OTelExportIntervalMillis: getIntWithDefault("OTEL_EXPORT_INTERVAL_MS", 10000),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if err := config.validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// validate checks the settings the service cannot start without
func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if _, err := time.LoadLocation(c.ReferenceTimezone); err != nil {
		return fmt.Errorf("invalid REFERENCE_TIMEZONE %q: %w", c.ReferenceTimezone, err)
	}
	if c.RecencyWindowDays < 0 {
		return fmt.Errorf("RECENCY_WINDOW_DAYS must not be negative")
	}
	if c.DiscordClientID == "" || c.DiscordClientSecret == "" {
		return fmt.Errorf("DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET are required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.BotAPIToken == "" {
		return fmt.Errorf("BOT_API_TOKEN is required")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:               ":0",
		FrontendURL:            "http://localhost:5173",
		ReferenceTimezone:      "Europe/Paris",
		RecencyWindowDays:      5,
		PuzzleSalt:             "test",
		LeaderboardMinGames:    5,
		ShareTitle:             "Wordle FR",
		NotificationTTL:        24 * time.Hour,
		DestinationGuardWindow: 60 * time.Second,
		DeliveryPollInterval:   30 * time.Second,
		GroupSyncMaxAge:        6 * time.Hour,
		SessionSecret:          "test-secret",
		SessionTTL:             time.Hour,
		BotAPIToken:            "test-bot-token",
		OTelExporterType:       "none",
		OTelServiceName:        "wordler",
		Environment:            "test",
	}
}
