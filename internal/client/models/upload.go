package models

// ReferenceKind says how an uploaded file is referred to inside a prompt.
type ReferenceKind int

const (
	// ReferenceObjectKey is a storage object key issued with a presign grant.
	ReferenceObjectKey ReferenceKind = iota
	// ReferenceServerPath is a path returned by the backend upload endpoint.
	ReferenceServerPath
	// ReferenceLocalNote means nothing was uploaded; only file metadata is known.
	ReferenceLocalNote
)

func (k ReferenceKind) String() string {
	switch k {
	case ReferenceObjectKey:
		return "object_key"
	case ReferenceServerPath:
		return "server_path"
	case ReferenceLocalNote:
		return "local_note"
	default:
		return "unknown"
	}
}

// UploadResult is the stable reference produced by an upload. It is consumed
// exactly once when the final prompt is composed.
type UploadResult struct {
	Kind      ReferenceKind
	Reference string
	Name      string
	Size      int64
	// Markdown is an optional backend reply returned together with an inline upload.
	Markdown string
}

// PresignGrant authorises one direct upload to storage. Fields must be sent
// verbatim ahead of the file part.
type PresignGrant struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Key    string            `json:"key"`
}

// Valid reports whether the grant can be used for a transfer.
func (g *PresignGrant) Valid() bool {
	return g != nil && g.URL != "" && g.Key != ""
}
