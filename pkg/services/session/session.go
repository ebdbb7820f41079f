package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
	"github.com/aksjaiswal/stanverse/pkg/services/provider"
	"github.com/aksjaiswal/stanverse/pkg/services/stores"
)

// ErrBusy rejects a submit while another completion is in flight.
var ErrBusy = errors.New("a completion is already in flight")

// Config wires a Manager. Store is required; a nil Provider puts the
// session into a disabled state where Submit fails without network calls.
type Config struct {
	Store    stores.History
	Provider provider.Completer
	UserID   string

	Model       string
	Temperature float32
	MaxTokens   int
	Stop        []string

	SystemPrompt string
	HistoryLimit int
}

// Manager owns the live conversation state for one user. It is the only
// mutator of the message list; collaborators see it through History
// snapshots and the Submit callback.
type Manager struct {
	cfg Config
	asm *Assembler

	mu        sync.Mutex
	state     chat.Messages
	streaming bool
}

// NewManager hydrates the session from the history store. A load failure
// degrades to an empty conversation, it never fails construction.
func NewManager(ctx context.Context, cfg Config) *Manager {
	var trunc Truncator
	if cfg.HistoryLimit > 0 {
		trunc = RecentN{N: cfg.HistoryLimit}
	}
	m := &Manager{
		cfg: cfg,
		asm: NewAssembler(cfg.SystemPrompt, trunc),
	}
	state, err := cfg.Store.Load(ctx, cfg.UserID)
	if err != nil {
		logger().Infow("hydrate session fail, starting empty", "user", cfg.UserID, "err", err)
		state = chat.Messages{}
	}
	m.state = state
	logger().Infow("session hydrated", "user", cfg.UserID, "messages", len(state))
	return m
}

// Ready reports whether a provider is configured.
func (m *Manager) Ready() bool { return m.cfg.Provider != nil }

// History returns a snapshot of the current message list.
func (m *Manager) History() chat.Messages {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Submit runs one exchange: the user turn is appended immediately, the
// completion is streamed with each fragment forwarded to onDelta together
// with the text so far, and on success the assistant turn is appended and
// the full history saved. On a stream failure the accumulated buffer is
// discarded; the user turn stays, the persisted record is untouched.
func (m *Manager) Submit(ctx context.Context, question string, onDelta func(delta, text string) error) (*chat.Message, error) {
	if !m.Ready() {
		return nil, provider.ErrNotConfigured
	}

	m.mu.Lock()
	if m.streaming {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.streaming = true
	m.state = append(m.state, chat.Message{Role: chat.RoleUser, Content: question})
	prior := m.state[:len(m.state)-1].Clone()
	m.mu.Unlock()

	reply, err := m.streamOnce(ctx, prior, question, onDelta)

	m.mu.Lock()
	m.streaming = false
	if err == nil {
		m.state = append(m.state, *reply)
	}
	snapshot := m.state.Clone()
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if serr := m.cfg.Store.Save(ctx, m.cfg.UserID, snapshot); serr != nil {
		// in-memory state stays authoritative until the next successful save
		logger().Warnw("save history fail", "user", m.cfg.UserID, "err", serr)
	}
	return reply, nil
}

func (m *Manager) streamOnce(ctx context.Context, prior chat.Messages, question string, onDelta func(delta, text string) error) (*chat.Message, error) {
	req := provider.ChatRequest{
		Model:       m.cfg.Model,
		Temperature: m.cfg.Temperature,
		MaxTokens:   m.cfg.MaxTokens,
		Stop:        m.cfg.Stop,
		Messages:    m.asm.Build(prior, question),
	}
	stream, err := m.cfg.Provider.StreamChat(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var text string
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger().Infow("stream recv fail", "user", m.cfg.UserID, "got", len(text), "err", err)
			return nil, err
		}
		if len(delta) == 0 {
			continue
		}
		text += delta
		if onDelta != nil {
			if err = onDelta(delta, text); err != nil {
				return nil, err
			}
		}
	}
	return &chat.Message{Role: chat.RoleAssistant, Content: text}, nil
}

// Clear empties the session and the persisted record, so a reload cannot
// resurrect stale history.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	if m.streaming {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state = chat.Messages{}
	m.mu.Unlock()

	if err := m.cfg.Store.Clear(ctx, m.cfg.UserID); err != nil {
		logger().Warnw("clear history fail", "user", m.cfg.UserID, "err", err)
		return err
	}
	return nil
}
