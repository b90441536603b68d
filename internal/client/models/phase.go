package models

// Phase is the coarse state of the session as shown to the view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseAwaitingReply
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Busy is true while a turn is in flight. Uploading and awaiting a reply are
// treated identically for gating.
func (p Phase) Busy() bool {
	return p != PhaseIdle
}

// SendEnabled reports whether the send affordance accepts input.
func (p Phase) SendEnabled() bool {
	return !p.Busy()
}

// Label is the text of the send affordance in this phase.
func (p Phase) Label() string {
	switch p {
	case PhaseUploading:
		return "Uploading..."
	case PhaseAwaitingReply:
		return "Sending..."
	default:
		return "Send"
	}
}
