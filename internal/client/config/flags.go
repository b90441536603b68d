package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

var ownFlags = []string{"a", "p", "m", "e", "t", "l", "f", "s", "w"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API base URL (e.g. "http://127.0.0.1:8000")
//	-p string   chat endpoint path ("/chat" or "/")
//	-m string   transfer mode: presigned | inline | none
//	-e string   on upload error: degrade | abort
//	-t int      request timeout in seconds, 0 = none
//	-l string   log level: debug | info | warn | error
//	-f string   log format: text | json | zap
//	-s string   markdown style: auto | dark | light | notty
//	-w int      markdown word wrap width
//
// Only the flags above are parsed; anything else on the command line is left
// to other components. An empty -a is ignored. It panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	apiBase := fs.String("a", cfg.APIBase, "API base URL")
	fs.StringVar(&cfg.ChatPath, "p", cfg.ChatPath, "chat endpoint path")
	mode := fs.String("m", string(cfg.TransferMode), "transfer mode (presigned, inline, none)")
	policy := fs.String("e", string(cfg.OnUploadError), "on upload error (degrade, abort)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 = none)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json, zap)")
	fs.StringVar(&cfg.MarkdownStyle, "s", cfg.MarkdownStyle, "markdown style")
	fs.IntVar(&cfg.WordWrap, "w", cfg.WordWrap, "markdown word wrap")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags...)); err != nil {
		panic(err)
	}

	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}

	m, err := ParseTransferMode(*mode)
	if err != nil {
		panic(err)
	}
	cfg.TransferMode = m

	p, err := ParseUploadFailurePolicy(*policy)
	if err != nil {
		panic(err)
	}
	cfg.OnUploadError = p

	// Seconds only; keep a finer JSON value unless -t was given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
