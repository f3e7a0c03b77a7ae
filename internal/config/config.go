package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/fixfirst/msx-parts-scraper/internal/catalog"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Browser  BrowserConfig
	Crawler  CrawlerConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

type DatabaseConfig struct {
	// URL is the full Postgres connection string.
	URL string
	// ServiceKey is the credential injected as the connection password.
	ServiceKey  string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

type RedisConfig struct {
	// URL is optional; empty disables the change-event relay.
	URL string
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ProxyServer    string
}

type CrawlerConfig struct {
	PolitenessDelay time.Duration
	CardWaitTimeout time.Duration
	MaxAttempts     int
	BatchSize       int
}

type MetricsConfig struct {
	// Addr is optional; empty disables the metrics listener.
	Addr string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. Local overrides in
// .env.local win over .env; both files are optional.
func Load() (*Config, error) {
	godotenv.Load(".env.local")
	godotenv.Load(".env")

	cfg := &Config{
		Database: DatabaseConfig{
			URL:         os.Getenv("CATALOG_DB_URL"),
			ServiceKey:  os.Getenv("CATALOG_DB_SERVICE_KEY"),
			MaxConns:    int32(getIntOrDefault("DB_MAX_CONNS", 10)),
			MinConns:    int32(getIntOrDefault("DB_MIN_CONNS", 2)),
			MaxConnLife: getDurationOrDefault("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdle: getDurationOrDefault("DB_MAX_CONN_IDLE", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "en-CA,en;q=0.9"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "America/Toronto"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "en-CA"),
			ProxyServer:    os.Getenv("BROWSER_PROXY"),
		},
		Crawler: CrawlerConfig{
			PolitenessDelay: getDurationOrDefault("CRAWLER_POLITENESS_DELAY", catalog.DefaultPolitenessDelay),
			CardWaitTimeout: getDurationOrDefault("CRAWLER_CARD_WAIT_TIMEOUT", catalog.DefaultCardWaitTimeout),
			MaxAttempts:     getIntOrDefault("CRAWLER_MAX_ATTEMPTS", catalog.DefaultMaxAttempts),
			BatchSize:       getIntOrDefault("CRAWLER_BATCH_SIZE", 100),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate rejects configuration the pipeline cannot run with. Database
// credentials are checked up front even for dry runs so a misconfigured
// deployment fails before a long crawl, not after it.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("CATALOG_DB_URL is required")
	}
	if c.Database.ServiceKey == "" {
		return fmt.Errorf("CATALOG_DB_SERVICE_KEY is required")
	}
	if c.Crawler.MaxAttempts < 1 {
		return fmt.Errorf("CRAWLER_MAX_ATTEMPTS must be at least 1")
	}
	if c.Crawler.BatchSize < 1 {
		return fmt.Errorf("CRAWLER_BATCH_SIZE must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
