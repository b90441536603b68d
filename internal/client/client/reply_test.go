package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		markdown bool
	}{
		{name: "model_response", raw: `{"model_response":"hi"}`, want: "hi"},
		{name: "markdown field", raw: `{"markdown":"# Title"}`, want: "# Title", markdown: true},
		{name: "model_response preferred", raw: `{"markdown":"md","model_response":"plain"}`, want: "plain"},
		{name: "null model_response falls through", raw: `{"model_response":null,"markdown":"*x*"}`, want: "*x*", markdown: true},
		{name: "empty model_response falls through", raw: `{"model_response":"","markdown":"**x**"}`, want: "**x**", markdown: true},
		{name: "empty model_response alone stringified", raw: `{"model_response":""}`, want: `{"model_response":""}`},
		{name: "format flag", raw: `{"model_response":"**b**","format":"markdown"}`, want: "**b**", markdown: true},
		{name: "is_markdown flag", raw: `{"model_response":"**b**","is_markdown":true}`, want: "**b**", markdown: true},
		{name: "non-string field encoded", raw: `{"model_response": {"a": 1}}`, want: `{"a":1}`},
		{name: "unknown shape stringified", raw: `{"ok": false, "error": "x"}`, want: `{"ok":false,"error":"x"}`},
		{name: "json array stringified", raw: `[1, 2]`, want: `[1,2]`},
		{name: "non-json verbatim", raw: `upstream exploded`, want: `upstream exploded`},
		{name: "empty body", raw: ``, want: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseReply([]byte(tt.raw))
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.markdown, got.IsMarkdown)
		})
	}
}
