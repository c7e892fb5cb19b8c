package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/flatcms/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(t *testing.T) {
	t.Helper()
	orig := lookupEnv
	lookupEnv = func(string) (string, bool) { return "", false }
	t.Cleanup(func() { lookupEnv = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, DefaultSecretKey, c.SecretKey)
	assert.True(t, c.UsesDefaultSecret())
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "*", c.CORSOrigin)
	assert.Equal(t, "github", c.Backend)
	assert.Equal(t, "main", c.GitHubBranch)
	assert.Equal(t, 4, c.ListConcurrency)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	noEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestStoreOptions(t *testing.T) {
	c := Config{
		Backend:       filestore.BackendGitHub,
		GitHubToken:   "t",
		GitHubOwner:   "o",
		GitHubRepo:    "r",
		GitHubBranch:  "b",
		GitHubBaseURL: "http://gh",
		S3Bucket:      "bk",
		S3Region:      "rg",
	}

	opts := c.StoreOptions()
	assert.Equal(t, "github", opts.Backend)
	assert.Equal(t, filestore.GitHubConfig{Token: "t", Owner: "o", Repo: "r", Branch: "b", BaseURL: "http://gh"}, opts.GitHub)
	assert.Equal(t, "bk", opts.S3.Bucket)
	assert.Equal(t, "rg", opts.S3.Region)
}

func TestUsesDefaultSecret(t *testing.T) {
	assert.True(t, (&Config{}).UsesDefaultSecret())
	assert.True(t, (&Config{SecretKey: DefaultSecretKey}).UsesDefaultSecret())
	assert.False(t, (&Config{SecretKey: "s3cr3t"}).UsesDefaultSecret())
}
