package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/flatcms/internal/flagx"
)

var knownFlags = []string{
	"-a", "-s", "-t", "-backend", "-log-level", "-cors-origin", "-auth-rate-limit",
	"-github-owner", "-github-repo", "-github-branch", "-github-token", "-github-base-url",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key",
}

// KnownFlags lists the command-line flags the config loader consumes,
// including -c / -config.
func KnownFlags() []string {
	return append([]string{"-c", "-config", "--config"}, knownFlags...)
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                 HTTP bind address (e.g. ":8080")
//	-s string                 JWT HMAC secret key
//	-t int                    session token validity, minutes
//	-backend string           file store backend: github, s3 or memory
//	-log-level string         debug, info, warn or error
//	-cors-origin string       Access-Control-Allow-Origin value
//	-auth-rate-limit int      /auth requests per minute per client, 0 disables
//	-github-owner string      repository owner
//	-github-repo string       repository name
//	-github-branch string     branch holding the records
//	-github-token string      API token
//	-github-base-url string   API base URL (GitHub Enterprise)
//	-s3-bucket string         bucket name
//	-s3-region string         bucket region
//	-s3-endpoint string       S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-s3-access-key string     S3 access key
//	-s3-secret-key string     S3 secret key
//
// Arguments are first filtered with flagx.FilterArgs so that -c / -config
// and flags owned by other components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	fs.StringVar(&config.Backend, "backend", config.Backend, "file store backend")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.CORSOrigin, "cors-origin", config.CORSOrigin, "CORS allowed origin")
	fs.IntVar(&config.AuthRateLimit, "auth-rate-limit", config.AuthRateLimit, "auth requests per minute per client")

	fs.StringVar(&config.GitHubOwner, "github-owner", config.GitHubOwner, "GitHub repository owner")
	fs.StringVar(&config.GitHubRepo, "github-repo", config.GitHubRepo, "GitHub repository name")
	fs.StringVar(&config.GitHubBranch, "github-branch", config.GitHubBranch, "GitHub branch")
	fs.StringVar(&config.GitHubToken, "github-token", config.GitHubToken, "GitHub API token")
	fs.StringVar(&config.GitHubBaseURL, "github-base-url", config.GitHubBaseURL, "GitHub API base URL")

	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
