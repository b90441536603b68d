// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// Config holds runtime settings for the gophchat development backend.
//
// Fields:
//   - Addr: bind address of the HTTP endpoint.
//   - ReplyField: JSON field the chat reply is written to ("model_response" or "markdown").
//   - StorageDir: directory inline uploads are written to.
//   - PresignExpiry: lifetime of presigned POST grants.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - LogLevel / LogFormat: server diagnostics, written to stdout.
type Config struct {
	Addr           string
	ReplyField     string
	StorageDir     string
	PresignExpiry  time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.ReplyField = common.ReplyFieldModelResponse
	c.StorageDir = "uploads"
	c.PresignExpiry = 15 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "uploads"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
// It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
