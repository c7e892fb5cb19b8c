package config

import (
	"os"
	"strconv"
	"time"
)

// lookupEnv is a test seam for os.LookupEnv.
var lookupEnv = os.LookupEnv

// parseEnv overlays FLATCMS_* variables. The bare GITHUB_* and JWT_SECRET
// names are read as well; the FLATCMS_ form wins when both are set.
func parseEnv(config *Config) {
	envString(&config.HTTPAddr, "FLATCMS_HTTP_ADDR")
	envString(&config.SecretKey, "JWT_SECRET", "FLATCMS_SECRET_KEY")
	envDuration(&config.TokenValidityDuration, "FLATCMS_TOKEN_VALIDITY")
	envInt(&config.BcryptCost, "FLATCMS_BCRYPT_COST")
	envString(&config.CORSOrigin, "FLATCMS_CORS_ORIGIN")
	envInt(&config.AuthRateLimit, "FLATCMS_AUTH_RATE_LIMIT")
	envString(&config.LogLevel, "FLATCMS_LOG_LEVEL")
	envString(&config.Backend, "FLATCMS_BACKEND")
	envString(&config.GitHubToken, "GITHUB_TOKEN", "FLATCMS_GITHUB_TOKEN")
	envString(&config.GitHubOwner, "GITHUB_OWNER", "FLATCMS_GITHUB_OWNER")
	envString(&config.GitHubRepo, "GITHUB_REPO", "FLATCMS_GITHUB_REPO")
	envString(&config.GitHubBranch, "GITHUB_BRANCH", "FLATCMS_GITHUB_BRANCH")
	envString(&config.GitHubBaseURL, "FLATCMS_GITHUB_BASE_URL")
	envString(&config.S3AccessKey, "FLATCMS_S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "FLATCMS_S3_SECRET_KEY")
	envString(&config.S3Bucket, "FLATCMS_S3_BUCKET")
	envString(&config.S3Region, "FLATCMS_S3_REGION")
	envString(&config.S3BaseEndpoint, "FLATCMS_S3_BASE_ENDPOINT")
	envInt(&config.ListConcurrency, "FLATCMS_LIST_CONCURRENCY")
}

// envString applies the last non-empty variable among names.
func envString(dst *string, names ...string) {
	for _, name := range names {
		if v, ok := lookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}

func envInt(dst *int, name string) {
	v, ok := lookupEnv(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic("config: " + name + ": " + err.Error())
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := lookupEnv(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic("config: " + name + ": " + err.Error())
	}
	*dst = d
}
