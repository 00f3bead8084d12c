package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, 10, cfg.OpenTicketTurnLimit)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.False(t, cfg.MockMode())
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	yamlDoc := `
http_port: 9000
database_url: ":memory:"
judgment_timeout: 5s
kafka_brokers: ["kafka-1:9092"]
mode: mock
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("INTAKE_JUDGMENT_TIMEOUT_MS", "1500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.JudgmentTimeout)
	assert.True(t, cfg.MockMode())
}

func TestLoadRejectsBadHistoryLimit(t *testing.T) {
	t.Setenv("INTAKE_HISTORY_LIMIT", "1")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
