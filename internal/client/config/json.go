package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero" so a partial file only overrides
// what it names.
type JsonConfig struct {
	APIBase        *string         `json:"api_base"`
	ChatPath       *string         `json:"chat_path"`
	TransferMode   *string         `json:"transfer_mode"`
	OnUploadError  *string         `json:"on_upload_error"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	LogFile        *string         `json:"log_file"`
	MarkdownStyle  *string         `json:"markdown_style"`
	WordWrap       *int            `json:"word_wrap"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// It panics on read, unmarshal or validation errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBase != nil && *jc.APIBase != "" {
		cfg.APIBase = *jc.APIBase
	}
	if jc.ChatPath != nil {
		cfg.ChatPath = *jc.ChatPath
	}
	if jc.TransferMode != nil {
		mode, err := ParseTransferMode(*jc.TransferMode)
		if err != nil {
			panic(err)
		}
		cfg.TransferMode = mode
	}
	if jc.OnUploadError != nil {
		policy, err := ParseUploadFailurePolicy(*jc.OnUploadError)
		if err != nil {
			panic(err)
		}
		cfg.OnUploadError = policy
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.MarkdownStyle != nil {
		cfg.MarkdownStyle = *jc.MarkdownStyle
	}
	if jc.WordWrap != nil {
		cfg.WordWrap = *jc.WordWrap
	}
}
