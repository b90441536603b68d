package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// LogEntry is one line of the conversation log.
type LogEntry struct {
	Role       Role
	Content    string
	IsMarkdown bool
	// Notice marks status lines produced by the client itself
	// (upload progress, failures) rather than by the backend.
	Notice bool
}

// ChatReply is the backend's answer to one prompt.
type ChatReply struct {
	Text       string
	IsMarkdown bool
}
