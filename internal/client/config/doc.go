// Package config loads runtime configuration for the gophchat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. The GOPHCHAT_API_BASE environment variable (API base URL only).
//  4. Command-line flags, which override everything above.
//
// The API base URL is the only value with an environment override. Empty
// overrides (empty env var, -a "") are ignored, so the URL is never blank:
// without any override the client talks to the local development backend at
// http://127.0.0.1:8000.
//
// # JSON schema
//
// request_timeout accepts a duration string ("30s") or integer nanoseconds:
//
//	{
//	  "api_base": "https://chat.example.com",
//	  "chat_path": "/chat",
//	  "transfer_mode": "presigned",
//	  "on_upload_error": "degrade",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_file": "gophchat.log",
//	  "markdown_style": "auto",
//	  "word_wrap": 80
//	}
package config
