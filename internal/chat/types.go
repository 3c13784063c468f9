package chat

import "strings"

// Roles a Message can carry. The caller owns transcript history; within a
// request the transcript is append-only.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LatestUserContent returns the trimmed content of the last user turn in the
// transcript, or "" if there is none. Contact detection runs over this text.
func LatestUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
