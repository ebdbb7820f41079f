package web

// esDone terminates an SSE stream.
const esDone = "[DONE]"

const welcomeText = "Explore the Stan! Ultra-fast, human-like conversations with long-term memory. Ask me anything!"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream,omitempty"`
}

// ChatMessage is one streamed chunk, or the final full answer.
type ChatMessage struct {
	Delta        string `json:"delta,omitempty"`
	Text         string `json:"text,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Error        string `json:"error,omitempty"`
}
