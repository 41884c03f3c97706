package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/config"
)

var configKeys = []string{
	"HTTP_PORT", "GRPC_PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "RISK_TABLE_FILE",
	"LOADING_DELAY", "DECISION_DELAY", "ANIMATION_STEPS", "ANIMATION_INTERVAL",
	"SESSION_TTL", "RANDOM_SEED", "OTEL_EXPORTER_OTLP_ENDPOINT", "GRPC_REFLECTION",
	"GRPC_TLS_CERT_FILE", "GRPC_TLS_KEY_FILE", "KAFKA_BROKERS", "EVENT_TOPIC",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, ":9090", cfg.GRPCAddress())
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 1500*time.Millisecond, cfg.LoadingDelay)
	assert.Equal(t, 2000*time.Millisecond, cfg.DecisionDelay)
	assert.Equal(t, 30, cfg.AnimationSteps)
	assert.Equal(t, 50*time.Millisecond, cfg.AnimationInterval)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Zero(t, cfg.RandomSeed)
	assert.False(t, cfg.GRPCReflection)
	assert.False(t, cfg.TLSEnabled())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "paysphere.demo.events", cfg.EventTopic)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("LOADING_DELAY", "10ms")
	t.Setenv("ANIMATION_STEPS", "5")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("EVENT_TOPIC", "demo.events")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "demo.events", cfg.EventTopic)

	assert.Equal(t, "18080", cfg.HTTPPort)
	assert.Equal(t, 10*time.Millisecond, cfg.LoadingDelay)
	assert.Equal(t, 5, cfg.AnimationSteps)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
	assert.True(t, cfg.GRPCReflection)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOADING_DELAY", "soon")
	t.Setenv("ANIMATION_STEPS", "many")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOADING_DELAY")
	assert.Contains(t, err.Error(), "ANIMATION_STEPS")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			LoadingDelay:      time.Second,
			DecisionDelay:     time.Second,
			AnimationSteps:    30,
			AnimationInterval: time.Millisecond,
			SessionTTL:        time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"zero loading delay", func(c *config.Config) { c.LoadingDelay = 0 }, "LOADING_DELAY"},
		{"negative decision delay", func(c *config.Config) { c.DecisionDelay = -time.Second }, "DECISION_DELAY"},
		{"zero steps", func(c *config.Config) { c.AnimationSteps = 0 }, "ANIMATION_STEPS"},
		{"zero interval", func(c *config.Config) { c.AnimationInterval = 0 }, "ANIMATION_INTERVAL"},
		{"zero ttl", func(c *config.Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"cert without key", func(c *config.Config) { c.GRPCTLSCertFile = "cert.pem" }, "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRiskTable(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		table, err := config.LoadRiskTable("")
		require.NoError(t, err)
		assert.Equal(t, []string{"NG", "RU"}, table.High)
		assert.Equal(t, []string{"CN"}, table.Medium)
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "risk.yaml")
		require.NoError(t, os.WriteFile(path, []byte("jurisdictions:\n  high: [XA]\n  medium: [XB, XC]\n"), 0o600))

		table, err := config.LoadRiskTable(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"XA"}, table.High)
		assert.Equal(t, []string{"XB", "XC"}, table.Medium)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadRiskTable(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read risk table")
	})
}

func TestParseRiskTable_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty document", "", "empty"},
		{"no section", "other: true\n", "field other not found"},
		{"missing section", "{}\n", "no jurisdictions section"},
		{"unknown key", "jurisdictions:\n  high: [NG]\n  low: [US]\n", "field low not found"},
		{"overlap", "jurisdictions:\n  high: [NG]\n  medium: [NG]\n", "both high and medium"},
		{"bad yaml", "jurisdictions: [\n", "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseRiskTable([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
