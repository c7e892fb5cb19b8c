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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"http_addr":               "www.example:9000",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "2h",
		"backend":                 "memory",
		"github_owner":            "me",
		"github_repo":             "site",
		"s3_bucket":               "bucket",
		"list_concurrency":        8,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, "memory", cfg.Backend)
		assert.Equal(t, "me", cfg.GitHubOwner)
		assert.Equal(t, "site", cfg.GitHubRepo)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 8, cfg.ListConcurrency)
		assert.Equal(t, "main", cfg.GitHubBranch, "absent keys keep defaults")
		assert.Equal(t, 10, cfg.BcryptCost)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234"}
		parseJson(cfg)
		assert.Equal(t, &Config{HTTPAddr: "defaults:1234"}, cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "absent.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
