/*
# Module: config/config.go
Environment configuration with .env support and fail-fast validation.

## Linked Modules
- [types/schema](../types/schema.go) - Directory response schema names

## Tags
config, environment, validation

## Exports
Config, Load, NewConfig

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "config/config.go" ;
    code:description "Environment configuration with .env support and fail-fast validation" ;
    code:linksTo [
        code:name "types/schema" ;
        code:path "../types/schema.go" ;
        code:relationship "Directory response schema names"
    ] ;
    code:exports :Config, :Load, :NewConfig ;
    code:tags "config", "environment", "validation" .
<!-- End LinkedDoc RDF -->
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// Config holds the configuration for the front end.
type Config struct {
	// Port is the HTTP listen port
	Port string
	// Environment switches console logging on in "development"
	Environment string
	// LogLevel is parsed by zerolog (debug, info, warn, error)
	LogLevel string

	// DirectoryURL is the directory endpoint called on each fetch
	DirectoryURL string
	// SchemaVersion selects the response envelope served by DirectoryURL
	SchemaVersion types.Schema
	// RequestTimeout bounds one directory call
	RequestTimeout time.Duration
	// GoogleCredentialsJSON authenticates calls to a private Cloud Function
	GoogleCredentialsJSON string

	// SurfaceFetchErrors shows an error block instead of leaving the list untouched
	SurfaceFetchErrors bool
	// TriggerRatePerSecond and TriggerBurst limit fetch clicks per client IP
	TriggerRatePerSecond float64
	TriggerBurst         int
	// AllowedOrigin is sent as Access-Control-Allow-Origin on /api routes
	AllowedOrigin string

	// AWSRegion is used for DynamoDB and S3
	AWSRegion string
	// FetchLogTable enables DynamoDB fetch history when set
	FetchLogTable string
	// SnapshotBucket enables publishing rendered pages to S3 when set
	SnapshotBucket string
	// HistoryLimit caps the in-memory history and the /api/history response
	HistoryLimit int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfig creates a new Config from environment variables with defaults.
func NewConfig() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENV", "production"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DirectoryURL:          getEnv("DIRECTORY_URL", ""),
		SchemaVersion:         types.Schema(strings.ToLower(getEnv("DIRECTORY_SCHEMA", string(types.SchemaLatest)))),
		RequestTimeout:        getDurationEnv("DIRECTORY_TIMEOUT", 10*time.Second),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		SurfaceFetchErrors:    getBoolEnv("SURFACE_FETCH_ERRORS", false),
		TriggerRatePerSecond:  getFloatEnv("TRIGGER_RATE_PER_SECOND", 2),
		TriggerBurst:          getIntEnv("TRIGGER_BURST", 5),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "*"),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		FetchLogTable:         getEnv("FETCH_LOG_TABLE", ""),
		SnapshotBucket:        getEnv("S3_SNAPSHOT_BUCKET", ""),
		HistoryLimit:          getIntEnv("HISTORY_LIMIT", 50),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DirectoryURL == "" {
		return errors.New("DIRECTORY_URL is required")
	}
	u, err := url.Parse(c.DirectoryURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("DIRECTORY_URL must be an absolute http(s) URL, got %q", c.DirectoryURL)
	}
	schema, err := types.ParseSchema(string(c.SchemaVersion))
	if err != nil {
		return fmt.Errorf("DIRECTORY_SCHEMA: %w", err)
	}
	c.SchemaVersion = schema
	if c.RequestTimeout <= 0 {
		return errors.New("DIRECTORY_TIMEOUT must be positive")
	}
	if c.TriggerRatePerSecond <= 0 || c.TriggerBurst <= 0 {
		return errors.New("TRIGGER_RATE_PER_SECOND and TRIGGER_BURST must be positive")
	}
	if c.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be positive")
	}
	return nil
}

// UseDynamoDB reports whether fetch history goes to DynamoDB
func (c *Config) UseDynamoDB() bool {
	return c.FetchLogTable != ""
}

// UseS3 reports whether rendered pages are published to S3
func (c *Config) UseS3() bool {
	return c.SnapshotBucket != ""
}

// NeedsAWS reports whether any AWS-backed component is enabled
func (c *Config) NeedsAWS() bool {
	return c.UseDynamoDB() || c.UseS3()
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv returns the value of an environment variable as a duration or a default value.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
