package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

// ErrEmptyTurn rejects a turn with no text and no file. It is dropped
// silently: no log entry, no request.
var ErrEmptyTurn = errors.New("empty turn")

// ValidateTurn reports ErrEmptyTurn for a turn that has nothing to send.
func ValidateTurn(turn models.Turn) error {
	if turn.Empty() {
		return ErrEmptyTurn
	}
	return nil
}

// Annotation is the bracketed note that references an uploaded file.
func Annotation(res *models.UploadResult) string {
	switch res.Kind {
	case models.ReferenceObjectKey:
		return fmt.Sprintf("[Attached file: %s (object key: %s)]", res.Name, res.Reference)
	case models.ReferenceServerPath:
		if res.Reference == "" {
			return fmt.Sprintf("[Attached file: %s]", res.Name)
		}
		return fmt.Sprintf("[Attached file: %s (server path: %s)]", res.Name, res.Reference)
	default:
		return fmt.Sprintf("[Attached file: %s - size %d bytes]", res.Name, res.Size)
	}
}

// ComposePrompt builds the prompt that is sent to the chat endpoint. Without
// an upload result it is the trimmed text; otherwise the annotation is
// appended, or stands alone when there is no text.
func ComposePrompt(text string, res *models.UploadResult) string {
	text = strings.TrimSpace(text)
	if res == nil {
		return text
	}

	note := Annotation(res)
	if text == "" {
		return note
	}
	return text + "\n\n" + note
}

// EchoText is what the log shows for the user's side of a turn. It is the
// composed prompt, or a short marker when a failed upload left it empty.
func EchoText(prompt string, file *models.Attachment) string {
	if prompt == "" && file != nil {
		return fmt.Sprintf("[Upload failed: %s]", file.Name)
	}
	return prompt
}
