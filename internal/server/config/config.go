// Package config handles configuration for the flatcms server: defaults,
// then a JSON file overlay, then environment variables, then command-line
// flags, each layer overriding the previous one.
package config

import (
	"time"

	"github.com/dmitrijs2005/flatcms/internal/filestore"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing session JWTs (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - BcryptCost: work factor for password hashes.
//   - CORSOrigin: value for Access-Control-Allow-Origin.
//   - AuthRateLimit: requests per minute per client on /auth; 0 disables.
//   - LogLevel: debug, info, warn or error.
//   - Backend: github, s3 or memory.
//   - GitHub*: repository holding the markdown records.
//   - S3*: S3-compatible bucket holding the markdown records.
//   - ListConcurrency: parallel fetches when listing a record directory.
type Config struct {
	HTTPAddr              string
	SecretKey             string
	TokenValidityDuration time.Duration
	BcryptCost            int
	CORSOrigin            string
	AuthRateLimit         int
	LogLevel              string
	Backend               string
	GitHubToken           string
	GitHubOwner           string
	GitHubRepo            string
	GitHubBranch          string
	GitHubBaseURL         string
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	ListConcurrency       int
}

// DefaultSecretKey is the development JWT secret. Tokens signed with it can
// be forged by anyone who has read this source.
const DefaultSecretKey = "your-secret-key-change-in-production"

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.SecretKey = DefaultSecretKey
	c.TokenValidityDuration = 24 * time.Hour
	c.BcryptCost = 10
	c.CORSOrigin = "*"
	c.AuthRateLimit = 0
	c.LogLevel = "info"
	c.Backend = filestore.BackendGitHub
	c.GitHubBranch = "main"
	c.S3Bucket = "content"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ListConcurrency = 4
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// UsesDefaultSecret reports whether no secret key was configured.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == "" || c.SecretKey == DefaultSecretKey
}

// StoreOptions derives the file store settings from c.
func (c *Config) StoreOptions() filestore.Options {
	return filestore.Options{
		Backend: c.Backend,
		GitHub: filestore.GitHubConfig{
			Token:   c.GitHubToken,
			Owner:   c.GitHubOwner,
			Repo:    c.GitHubRepo,
			Branch:  c.GitHubBranch,
			BaseURL: c.GitHubBaseURL,
		},
		S3: filestore.S3Config{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		},
	}
}
