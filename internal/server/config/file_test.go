package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("json", func(t *testing.T) {
		path := writeTempFile(t, "chat.json", `{
			"endpoint_addr_http": "0.0.0.0:9000",
			"storage_driver": "memory",
			"database_dsn": "postgres://db",
			"secret_key": "k1",
			"session_token_validity_duration": "24h",
			"cookie_secure": true,
			"default_profile_pic": "/avatar.png",
			"max_request_body_bytes": 1024,
			"allowed_origins": ["chat.example.com"],
			"s3_bucket": "pics",
			"s3_public_url": "https://cdn.example.com"
		}`)
		os.Args = []string{"server", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "0.0.0.0:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "k1", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.SessionTokenValidityDuration)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, "/avatar.png", cfg.DefaultProfilePic)
		assert.Equal(t, int64(1024), cfg.MaxRequestBodyBytes)
		assert.Equal(t, []string{"chat.example.com"}, cfg.AllowedOrigins)
		assert.Equal(t, "pics", cfg.S3Bucket)
		assert.Equal(t, "us-east-1", cfg.S3Region, "unset keys keep their value")
		assert.Equal(t, "https://cdn.example.com", cfg.S3PublicURL)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeTempFile(t, "chat.yml", "secret_key: k2\nsession_token_validity_duration: 90m\ncookie_secure: false\n")
		os.Args = []string{"server", "-c", path}

		cfg := &Config{CookieSecure: true}
		parseFile(cfg)

		assert.Equal(t, "k2", cfg.SecretKey)
		assert.Equal(t, 90*time.Minute, cfg.SessionTokenValidityDuration)
		assert.False(t, cfg.CookieSecure)
	})

	t.Run("no file", func(t *testing.T) {
		os.Args = []string{"server"}

		cfg := &Config{SecretKey: "keep"}
		parseFile(cfg)
		assert.Equal(t, "keep", cfg.SecretKey)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{ not json`)
		os.Args = []string{"server", "-c", path}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"server", "-c", filepath.Join(t.TempDir(), "absent.yaml")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
