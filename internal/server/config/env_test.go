package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	orig := lookupEnv
	lookupEnv = func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = orig })
}

func TestParseEnv(t *testing.T) {
	fakeEnv(t, map[string]string{
		"GITHUB_TOKEN":           "ghp_x",
		"GITHUB_OWNER":           "me",
		"GITHUB_REPO":            "site",
		"GITHUB_BRANCH":          "content",
		"JWT_SECRET":             "legacy",
		"FLATCMS_SECRET_KEY":     "preferred",
		"FLATCMS_TOKEN_VALIDITY": "30m",
		"FLATCMS_BCRYPT_COST":    "12",
		"FLATCMS_BACKEND":        "memory",
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "ghp_x", cfg.GitHubToken)
	assert.Equal(t, "me", cfg.GitHubOwner)
	assert.Equal(t, "site", cfg.GitHubRepo)
	assert.Equal(t, "content", cfg.GitHubBranch)
	assert.Equal(t, "preferred", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestParseEnv_InvalidNumberPanics(t *testing.T) {
	fakeEnv(t, map[string]string{"FLATCMS_BCRYPT_COST": "ten"})
	assert.Panics(t, func() { parseEnv(&Config{}) })
}
