// scout/services/llm/llm.go
package llm

// Message is one turn in the outbound conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool declares a server-side tool the model may invoke. Web search is
// enabled by type "web_search_20250305" with name "web_search".
type Tool struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// MessagesRequest is the body of a streaming messages call.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	Tools     []Tool    `json:"tools,omitempty"`
	Stream    bool      `json:"stream"`
}

// Upstream stream event kinds the consumer cares about. Anything else
// (message_start, ping, content_block_stop, ...) is forwarded untouched
// and ignored downstream.
const (
	EventContentBlockStart = "content_block_start"
	EventContentBlockDelta = "content_block_delta"
	EventMessageStop       = "message_stop"

	BlockToolUse         = "tool_use"
	BlockServerToolUse   = "server_tool_use"
	BlockWebSearchResult = "web_search_tool_result"
	DeltaText            = "text_delta"
)

type ContentBlock struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type Delta struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StreamEvent is one upstream server-sent event. Only the fields matching
// Type are populated; unknown types carry nothing but the Type itself.
type StreamEvent struct {
	Type         string        `json:"type"`
	ContentBlock *ContentBlock `json:"content_block,omitempty"`
	Delta        *Delta        `json:"delta,omitempty"`
	Error        *APIError     `json:"error,omitempty"`
}
