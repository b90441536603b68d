// Package common contains constants shared by the gophchat client and the
// development backend: endpoint paths, wire field names and defaults.
package common

// Endpoint paths relative to the API base URL.
const (
	ChatPath    = "/chat"
	RootPath    = "/"
	PresignPath = "/presign"
	UploadPath  = "/upload"
)

// DefaultAPIBase is the local development backend address used when no
// override is configured.
const DefaultAPIBase = "http://127.0.0.1:8000"

// APIBaseEnvVar is the only environment variable the client reads. It
// overrides the JSON config but not the -a flag.
const APIBaseEnvVar = "GOPHCHAT_API_BASE"

// FilePartName is the multipart field carrying the file bytes in a presigned
// POST. Storage backends expect it after every policy field.
const FilePartName = "file"

// Reply field names recognised in chat responses, in lookup order.
const (
	ReplyFieldModelResponse = "model_response"
	ReplyFieldMarkdown      = "markdown"
)
