package client

import (
	"bytes"
	"encoding/json"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/common"
)

// replyFields is the lookup order for the reply text.
var replyFields = []string{common.ReplyFieldModelResponse, common.ReplyFieldMarkdown}

// parseReply never fails: unrecognised bodies are returned as text.
func parseReply(raw []byte) *models.ChatReply {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		if json.Valid(raw) {
			return &models.ChatReply{Text: compact(raw)}
		}
		return &models.ChatReply{Text: string(raw)}
	}

	for _, field := range replyFields {
		v, ok := obj[field]
		if !ok || string(v) == "null" {
			continue
		}
		text := fieldText(v)
		if text == "" {
			continue
		}
		return &models.ChatReply{
			Text:       text,
			IsMarkdown: field == common.ReplyFieldMarkdown || markdownFlagged(obj),
		}
	}

	return &models.ChatReply{Text: compact(raw)}
}

func fieldText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return compact(v)
}

func markdownFlagged(obj map[string]json.RawMessage) bool {
	var format string
	if v, ok := obj["format"]; ok && json.Unmarshal(v, &format) == nil && format == "markdown" {
		return true
	}
	var flag bool
	if v, ok := obj["is_markdown"]; ok && json.Unmarshal(v, &flag) == nil {
		return flag
	}
	return false
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
