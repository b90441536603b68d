package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// TransferMode selects how an attachment reaches the backend.
type TransferMode string

const (
	// TransferPresigned asks the backend for a presigned POST and uploads
	// straight to object storage.
	TransferPresigned TransferMode = "presigned"
	// TransferInline sends the file base64-encoded in one JSON request.
	TransferInline TransferMode = "inline"
	// TransferNone uploads nothing and only mentions the file in the prompt.
	TransferNone TransferMode = "none"
)

// ParseTransferMode accepts the canonical names and a few aliases.
func ParseTransferMode(s string) (TransferMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "presigned", "presign", "s3":
		return TransferPresigned, nil
	case "inline", "base64":
		return TransferInline, nil
	case "none", "off", "noupload":
		return TransferNone, nil
	default:
		return "", fmt.Errorf("unknown transfer mode %q", s)
	}
}

// UploadFailurePolicy decides what happens to a turn whose upload failed.
type UploadFailurePolicy string

const (
	// UploadFailureDegrade sends the turn as text only.
	UploadFailureDegrade UploadFailurePolicy = "degrade"
	// UploadFailureAbort ends the turn without a chat request.
	UploadFailureAbort UploadFailurePolicy = "abort"
)

func ParseUploadFailurePolicy(s string) (UploadFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrade", "":
		return UploadFailureDegrade, nil
	case "abort":
		return UploadFailureAbort, nil
	default:
		return "", fmt.Errorf("unknown upload failure policy %q", s)
	}
}

// Config holds runtime settings for the gophchat CLI.
//
// Units: RequestTimeout is a time.Duration; zero disables the transport
// timeout, leaving a hung request in flight indefinitely.
type Config struct {
	APIBase        string
	ChatPath       string
	TransferMode   TransferMode
	OnUploadError  UploadFailurePolicy
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
	MarkdownStyle  string
	WordWrap       int
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.APIBase = common.DefaultAPIBase
	c.ChatPath = common.ChatPath
	c.TransferMode = TransferPresigned
	c.OnUploadError = UploadFailureDegrade
	c.RequestTimeout = 0
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = ""
	c.MarkdownStyle = "auto"
	c.WordWrap = 80
}

// URL joins the API base and an endpoint path.
func (c *Config) URL(path string) string {
	base := strings.TrimRight(c.APIBase, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// LoadConfig constructs a Config from defaults, the JSON file, the API base
// environment override and command-line flags, in that order. Later sources
// take precedence. It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:], os.Getenv)
}

func load(args []string, getenv func(string) string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, getenv)
	parseFlags(cfg, args)
	return cfg
}

// parseEnv applies the only environment override the client honours.
// An empty value is ignored.
func parseEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(common.APIBaseEnvVar)); v != "" {
		cfg.APIBase = v
	}
}
