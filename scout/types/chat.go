// scout/types/chat.go
package types

// Source is one citation extracted from the assistant's Markdown links.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HistoryEntry is one prior conversation turn fed back to the model.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Agent event types streamed to clients.
const (
	EventText     = "text"
	EventThinking = "thinking"
	EventDone     = "done"
	EventError    = "error"
	EventComplete = "complete"
)

// AgentEvent is a normalized streaming event. Type decides which payload
// fields are set: text/thinking/error carry Content, done carries Sources
// and Thinking, complete carries nothing.
type AgentEvent struct {
	Type     string   `json:"type"`
	Content  string   `json:"content,omitempty"`
	Sources  []Source `json:"sources,omitempty"`
	Thinking string   `json:"thinking,omitempty"`
}

type CreateChatRequest struct {
	Title string `json:"title,omitempty"`
}

type UpdateChatRequest struct {
	Title string `json:"title"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}
