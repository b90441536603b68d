package netx

import (
	"fmt"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(p Part) textproto.MIMEHeader {
	name := p.FieldName
	if name == "" {
		name = "file"
	}
	ct := p.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(p.FileName)))
	h.Set("Content-Type", ct)
	return h
}
