package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

const groqTimeout = time.Second * 120

// NewGroq returns a Completer over the Groq OpenAI-compatible endpoint.
// An empty apiKey yields ErrNotConfigured.
func NewGroq(apiKey, baseURL string) (Completer, error) {
	if len(apiKey) == 0 {
		return nil, ErrNotConfigured
	}
	occ := openai.DefaultConfig(apiKey)
	if len(baseURL) > 0 {
		occ.BaseURL = baseURL
	}
	occ.HTTPClient = &http.Client{
		Timeout:   groqTimeout,
		Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
	}
	return &groqCompleter{oc: openai.NewClientWithConfig(occ)}, nil
}

// NewWithClient wraps an existing go-openai client, for tests.
func NewWithClient(oc *openai.Client) Completer {
	return &groqCompleter{oc: oc}
}

type groqCompleter struct {
	oc *openai.Client
}

func (p *groqCompleter) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	ccr := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
		Stream:      true,
		Messages:    toChatMessages(req.Messages),
	}
	ccs, err := p.oc.CreateChatCompletionStream(ctx, ccr)
	if err != nil {
		logger().Infow("call chat stream fail", "err", err)
		return nil, Classify(err)
	}
	return &groqStream{ccs: ccs}, nil
}

type groqStream struct {
	ccs *openai.ChatCompletionStream
}

func (s *groqStream) Recv() (string, error) {
	ccsr, err := s.ccs.Recv()
	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	if err != nil {
		return "", Classify(err)
	}
	if len(ccsr.Choices) == 0 {
		return "", nil
	}
	return ccsr.Choices[0].Delta.Content, nil
}

func (s *groqStream) Close() error { return s.ccs.Close() }

func toChatMessages(msgs chat.Messages) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		var role string
		switch m.Role {
		case chat.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case chat.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
