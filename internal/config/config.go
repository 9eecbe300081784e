package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// DefaultOSMAPIURL is the node endpoint of the OSM editing API. Node IDs are
// appended verbatim.
const DefaultOSMAPIURL = "https://www.openstreetmap.org/api/0.6/node/"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenStreetMap API client.
	OSMAPIURL    string
	OSMUserAgent string
	OSMTimeout   time.Duration
	OSMRateLimit float64

	// Storage.
	StoreDriver     string
	SQLitePath      string
	PostgresDSN     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Import event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	osmTimeout, err := parseDuration("OSM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseRateLimit()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OSMAPIURL:    sharedcfg.EnvOrDefault("OSM_API_URL", DefaultOSMAPIURL),
		OSMUserAgent: sharedcfg.EnvOrDefault("OSM_USER_AGENT", "pos-import-service/1.0"),
		OSMTimeout:   osmTimeout,
		OSMRateLimit: rateLimit,

		StoreDriver:     strings.ToLower(sharedcfg.EnvOrDefault("STORE_DRIVER", StoreMemory)),
		SQLitePath:      sharedcfg.EnvOrDefault("SQLITE_PATH", "pos.db"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   sharedcfg.EnvOrDefault("MONGO_DATABASE", "pos"),
		MongoCollection: sharedcfg.EnvOrDefault("MONGO_COLLECTION", "points_of_sale"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "pos-imported"),
	}

	if cfg.OSMAPIURL == "" {
		return nil, errors.New("OSM_API_URL is required")
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required for the mongo store")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// LoadDotEnv copies variables from the given .env files (default ".env") into
// the process environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseRateLimit() (float64, error) {
	s := sharedcfg.EnvOrDefault("OSM_RATE_LIMIT", "1")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid OSM_RATE_LIMIT")
	}
	return v, nil
}
