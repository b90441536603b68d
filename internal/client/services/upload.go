package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

var (
	// ErrPresign means the backend did not hand out a usable grant.
	ErrPresign = errors.New("presign failed")
	// ErrTransfer means the file bytes did not reach storage.
	ErrTransfer = errors.New("transfer failed")

	ErrUnknownMode = errors.New("unknown transfer mode")
)

// Uploader turns a selected file into a reference usable inside a prompt.
// Implementations keep no state between calls.
type Uploader interface {
	Upload(ctx context.Context, file *models.Attachment) (*models.UploadResult, error)
	Mode() config.TransferMode
}

// NewUploader returns the strategy configured by mode.
func NewUploader(mode config.TransferMode, c client.Client) (Uploader, error) {
	switch mode {
	case config.TransferPresigned:
		return &PresignedUploader{client: c}, nil
	case config.TransferInline:
		return &InlineUploader{client: c}, nil
	case config.TransferNone:
		return LocalNoteUploader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// PresignedUploader asks the backend for a presigned POST and sends the file
// straight to storage. The object key comes from the grant, never from the
// storage response.
type PresignedUploader struct {
	client client.Client
}

func (u *PresignedUploader) Mode() config.TransferMode { return config.TransferPresigned }

func (u *PresignedUploader) Upload(ctx context.Context, file *models.Attachment) (*models.UploadResult, error) {
	grant, err := u.client.Presign(ctx, file.Name, file.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPresign, err)
	}
	if !grant.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrPresign, client.ErrNoGrant)
	}

	if err := u.client.Transfer(ctx, grant, file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	return &models.UploadResult{
		Kind:      models.ReferenceObjectKey,
		Reference: grant.Key,
		Name:      file.Name,
		Size:      file.Size,
	}, nil
}

// InlineUploader reads the whole file, base64-encodes it and posts it to the
// backend in a single JSON request.
type InlineUploader struct {
	client client.Client
}

func (u *InlineUploader) Mode() config.TransferMode { return config.TransferInline }

func (u *InlineUploader) Upload(ctx context.Context, file *models.Attachment) (*models.UploadResult, error) {
	data, err := readAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	resp, err := u.client.UploadInline(ctx, file.Name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	return &models.UploadResult{
		Kind:      models.ReferenceServerPath,
		Reference: resp.Path,
		Name:      file.Name,
		Size:      file.Size,
		Markdown:  resp.Markdown,
	}, nil
}

func readAll(file *models.Attachment) ([]byte, error) {
	r, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// LocalNoteUploader uploads nothing; the prompt only mentions the file.
type LocalNoteUploader struct{}

func (LocalNoteUploader) Mode() config.TransferMode { return config.TransferNone }

func (LocalNoteUploader) Upload(_ context.Context, file *models.Attachment) (*models.UploadResult, error) {
	return &models.UploadResult{
		Kind: models.ReferenceLocalNote,
		Name: file.Name,
		Size: file.Size,
	}, nil
}
