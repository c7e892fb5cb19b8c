package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/flatcms/internal/flagx"
	"github.com/dmitrijs2005/flatcms/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations accept "24h"-style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	CORSOrigin            string         `json:"cors_origin"`
	AuthRateLimit         int            `json:"auth_rate_limit"`
	LogLevel              string         `json:"log_level"`
	Backend               string         `json:"backend"`
	GitHubToken           string         `json:"github_token"`
	GitHubOwner           string         `json:"github_owner"`
	GitHubRepo            string         `json:"github_repo"`
	GitHubBranch          string         `json:"github_branch"`
	GitHubBaseURL         string         `json:"github_base_url"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	ListConcurrency       int            `json:"list_concurrency"`
}

// parseJson overlays values from the file named by -c / -config. Fields
// absent from the file keep their current value. An unreadable or invalid
// file panics, as a misconfigured server must not start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	applyJson(config, c)
}

func applyJson(config *Config, c *JsonConfig) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setInt(&config.AuthRateLimit, c.AuthRateLimit)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Backend, c.Backend)
	setString(&config.GitHubToken, c.GitHubToken)
	setString(&config.GitHubOwner, c.GitHubOwner)
	setString(&config.GitHubRepo, c.GitHubRepo)
	setString(&config.GitHubBranch, c.GitHubBranch)
	setString(&config.GitHubBaseURL, c.GitHubBaseURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setInt(&config.ListConcurrency, c.ListConcurrency)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
