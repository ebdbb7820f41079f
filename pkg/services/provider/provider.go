package provider

import (
	"context"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

// ChatRequest is one streaming completion call to the inference provider.
type ChatRequest struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Stop        []string
	Messages    chat.Messages
}

// Stream yields UTF-8 text fragments in arrival order. Recv returns io.EOF
// after the final fragment, or a terminal *Error. A Stream is finite,
// non-restartable and consumed exactly once.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Completer drives the external streaming completion endpoint.
type Completer interface {
	StreamChat(ctx context.Context, req ChatRequest) (Stream, error)
}

// AllowedModels is the model identifier allow-list.
var AllowedModels = []string{
	"llama-3.3-70b-versatile",
	"openai/gpt-oss-20b",
}

// ValidModel reports whether name is on the allow-list.
func ValidModel(name string) bool {
	for _, m := range AllowedModels {
		if m == name {
			return true
		}
	}
	return false
}
