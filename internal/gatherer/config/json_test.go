package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http": "www.example:9000",
		"database_dsn":       "postgres://example/gatherer",
		"steam_api_key":      "apikey123",
		"amqp_uri":           "amqp://example:5672/",
		"amqp_queue":         "other-queue",
		"api_retry_attempts": 5,
		"api_retry_backoff":  "250ms",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://example/gatherer", cfg.DatabaseDSN)
		assert.Equal(t, "apikey123", cfg.SteamAPIKey)
		assert.Equal(t, "amqp://example:5672/", cfg.AMQPURI)
		assert.Equal(t, "other-queue", cfg.AMQPQueue)
		assert.Equal(t, uint64(5), cfg.APIRetryAttempts)
		assert.Equal(t, 250*time.Millisecond, cfg.APIRetryBackoff)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDSN:      "postgres://defaults/gatherer",
			SteamAPIKey:      "defaultkey",
			AMQPURI:          "amqp://defaults:5672/",
			AMQPQueue:        "default-queue",
			APIRetryAttempts: 2,
			APIRetryBackoff:  500 * time.Millisecond,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://defaults/gatherer", cfg.DatabaseDSN)
		assert.Equal(t, "defaultkey", cfg.SteamAPIKey)
		assert.Equal(t, "amqp://defaults:5672/", cfg.AMQPURI)
		assert.Equal(t, "default-queue", cfg.AMQPQueue)
		assert.Equal(t, uint64(2), cfg.APIRetryAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.APIRetryBackoff)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		assert.Panics(t, func() { parseJson(cfg) })
	})
}
