package client

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

// InlineUpload is the backend's answer to an inline (base64) upload.
type InlineUpload struct {
	Path     string `json:"path"`
	Markdown string `json:"markdown"`
}

type Client interface {
	Chat(ctx context.Context, prompt string) (*models.ChatReply, error)
	Presign(ctx context.Context, filename, contentType string) (*models.PresignGrant, error)
	Transfer(ctx context.Context, grant *models.PresignGrant, file *models.Attachment) error
	UploadInline(ctx context.Context, filename string, data []byte) (*InlineUpload, error)
}
