// Package models defines the client-side data model of a conversation turn.
package models

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/filex"
)

var ErrNoFileHandle = errors.New("attachment has no file handle")

// Turn is one user-initiated request cycle. It is immutable once submitted.
type Turn struct {
	Prompt     string
	Attachment *Attachment
}

// Text returns the prompt with surrounding whitespace removed.
func (t Turn) Text() string {
	return strings.TrimSpace(t.Prompt)
}

// Empty reports whether the turn carries neither text nor a file.
func (t Turn) Empty() bool {
	return t.Text() == "" && t.Attachment == nil
}

// Attachment is a file selected for the next turn. Open returns a fresh
// reader; callers close it after a single read.
type Attachment struct {
	Name     string
	Size     int64
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// Reader opens the underlying file.
func (a *Attachment) Reader() (io.ReadCloser, error) {
	if a == nil || a.Open == nil {
		return nil, ErrNoFileHandle
	}
	return a.Open()
}

// NewFileAttachment describes the file at path. The file is not opened until
// an upload reads it.
func NewFileAttachment(path string) (*Attachment, error) {
	info, err := filex.Inspect(path)
	if err != nil {
		return nil, err
	}

	return &Attachment{
		Name:     info.Name,
		Size:     info.Size,
		MIMEType: info.MIMEType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(info.Path)
		},
	}, nil
}
