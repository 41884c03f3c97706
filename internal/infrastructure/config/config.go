// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultHTTPPort          = "8080"
	DefaultGRPCPort          = "9090"
	DefaultEnvironment       = "development"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultLoadingDelay      = 1500 * time.Millisecond
	DefaultDecisionDelay     = 2000 * time.Millisecond
	DefaultAnimationSteps    = 30
	DefaultAnimationInterval = 50 * time.Millisecond
	DefaultSessionTTL        = 30 * time.Minute
	DefaultEventTopic        = "paysphere.demo.events"
)

// Config holds all configuration for the demo server.
type Config struct {
	HTTPPort    string
	GRPCPort    string
	Environment string
	LogLevel    string
	LogFormat   string

	// RiskTableFile is an optional YAML jurisdiction table.
	RiskTableFile string

	LoadingDelay      time.Duration
	DecisionDelay     time.Duration
	AnimationSteps    int
	AnimationInterval time.Duration

	SessionTTL time.Duration
	// RandomSeed seeds the synthetic latency and chat replies. Zero means
	// time based.
	RandomSeed uint64

	// KafkaBrokers enables the Kafka event sink when non-empty; otherwise
	// domain events are logged.
	KafkaBrokers []string
	EventTopic   string

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string

	GRPCReflection  bool
	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	r := &envReader{}
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", DefaultHTTPPort),
		GRPCPort:          getEnv("GRPC_PORT", DefaultGRPCPort),
		Environment:       getEnv("ENVIRONMENT", DefaultEnvironment),
		LogLevel:          getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:         getEnv("LOG_FORMAT", DefaultLogFormat),
		RiskTableFile:     os.Getenv("RISK_TABLE_FILE"),
		LoadingDelay:      r.duration("LOADING_DELAY", DefaultLoadingDelay),
		DecisionDelay:     r.duration("DECISION_DELAY", DefaultDecisionDelay),
		AnimationSteps:    r.int("ANIMATION_STEPS", DefaultAnimationSteps),
		AnimationInterval: r.duration("ANIMATION_INTERVAL", DefaultAnimationInterval),
		SessionTTL:        r.duration("SESSION_TTL", DefaultSessionTTL),
		RandomSeed:        r.uint64("RANDOM_SEED", 0),
		KafkaBrokers:      list("KAFKA_BROKERS"),
		EventTopic:        getEnv("EVENT_TOPIC", DefaultEventTopic),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		GRPCReflection:    r.bool("GRPC_REFLECTION", false),
		GRPCTLSCertFile:   os.Getenv("GRPC_TLS_CERT_FILE"),
		GRPCTLSKeyFile:    os.Getenv("GRPC_TLS_KEY_FILE"),
	}
	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that timings are usable and TLS settings are complete.
func (c *Config) Validate() error {
	var errs []error
	if c.LoadingDelay <= 0 {
		errs = append(errs, fmt.Errorf("LOADING_DELAY must be positive, got %s", c.LoadingDelay))
	}
	if c.DecisionDelay <= 0 {
		errs = append(errs, fmt.Errorf("DECISION_DELAY must be positive, got %s", c.DecisionDelay))
	}
	if c.AnimationSteps <= 0 {
		errs = append(errs, fmt.Errorf("ANIMATION_STEPS must be positive, got %d", c.AnimationSteps))
	}
	if c.AnimationInterval <= 0 {
		errs = append(errs, fmt.Errorf("ANIMATION_INTERVAL must be positive, got %s", c.AnimationInterval))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// TLSEnabled reports whether the gRPC server should serve TLS.
func (c *Config) TLSEnabled() bool {
	return c.GRPCTLSCertFile != "" && c.GRPCTLSKeyFile != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// list splits a comma separated variable, dropping blank entries.
func list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envReader parses typed variables and collects every malformed one.
type envReader struct {
	errs []error
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func (r *envReader) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return i
}

func (r *envReader) uint64(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return u
}

func (r *envReader) bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}
