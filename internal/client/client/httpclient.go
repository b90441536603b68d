package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/netx"
)

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type presignResponse struct {
	Presigned *models.PresignGrant `json:"presigned"`
}

type inlineUploadRequest struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"contentBase64"`
}

type HTTPClient struct {
	cfg       *config.Config
	transport *netx.Client
}

func NewHTTPClient(cfg *config.Config, transport *netx.Client) *HTTPClient {
	if transport == nil {
		transport = netx.NewClient(cfg.RequestTimeout)
	}
	return &HTTPClient{cfg: cfg, transport: transport}
}

func (c *HTTPClient) Chat(ctx context.Context, prompt string) (*models.ChatReply, error) {
	raw, err := c.transport.PostJSONRaw(ctx, c.cfg.URL(c.cfg.ChatPath), chatRequest{Prompt: prompt})
	if err != nil {
		return nil, c.mapError(err)
	}
	return parseReply(raw), nil
}

func (c *HTTPClient) Presign(ctx context.Context, filename, contentType string) (*models.PresignGrant, error) {
	var resp presignResponse

	err := c.transport.PostJSON(ctx, c.cfg.URL(common.PresignPath),
		presignRequest{Filename: filename, ContentType: contentType}, &resp)
	if err != nil {
		if errors.Is(err, netx.ErrResponse) && !isStatusError(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoGrant, err)
		}
		return nil, c.mapError(err)
	}

	if !resp.Presigned.Valid() {
		return nil, ErrNoGrant
	}
	if resp.Presigned.Fields == nil {
		resp.Presigned.Fields = map[string]string{}
	}
	return resp.Presigned, nil
}

// Transfer posts file to the grant's URL. The file is opened once and closed
// whatever the outcome.
func (c *HTTPClient) Transfer(ctx context.Context, grant *models.PresignGrant, file *models.Attachment) error {
	r, err := file.Reader()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer r.Close()

	err = c.transport.PostMultipart(ctx, grant.URL, grant.Fields, netx.Part{
		FieldName:   common.FilePartName,
		FileName:    file.Name,
		ContentType: file.MIMEType,
		Reader:      r,
	})
	return c.mapError(err)
}

func (c *HTTPClient) UploadInline(ctx context.Context, filename string, data []byte) (*InlineUpload, error) {
	var resp InlineUpload

	err := c.transport.PostJSON(ctx, c.cfg.URL(common.UploadPath), inlineUploadRequest{
		Filename:      filename,
		ContentBase64: base64.StdEncoding.EncodeToString(data),
	}, &resp)
	if err != nil {
		return nil, c.mapError(err)
	}

	if resp.Path == "" && resp.Markdown == "" {
		return nil, ErrNoReference
	}
	return &resp, nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	switch {
	case errors.Is(err, netx.ErrNetwork):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.As(err, &se):
		return fmt.Errorf("%w: %v", ErrBadStatus, se)
	default:
		return err
	}
}

func isStatusError(err error) bool {
	var se *netx.StatusError
	return errors.As(err, &se)
}
