package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jpillora/eventsource"
	"github.com/marcsv/go-binder/binder"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
	"github.com/aksjaiswal/stanverse/pkg/services/provider"
	"github.com/aksjaiswal/stanverse/pkg/services/session"
)

func (s *server) getModels(w http.ResponseWriter, r *http.Request) {
	apiOk(w, r, s.cfg.Models, len(s.cfg.Models))
}

func (s *server) getWelcome(w http.ResponseWriter, r *http.Request) {
	msg := new(chat.Message)
	msg.Role = chat.RoleAssistant

	if s.preset.Welcome != nil {
		msg.Content = s.preset.Welcome.Content
	} else {
		msg.Content = welcomeText
	}
	apiOk(w, r, msg)
}

func (s *server) getHistory(w http.ResponseWriter, r *http.Request) {
	data := s.sm.History()
	apiOk(w, r, data, len(data))
}

func (s *server) postClear(w http.ResponseWriter, r *http.Request) {
	if err := s.sm.Clear(r.Context()); err != nil {
		chatFail(w, r, err)
		return
	}
	apiOk(w, r, nil)
}

func (s *server) postChat(w http.ResponseWriter, r *http.Request) {
	var param ChatRequest
	if err := binder.BindBody(r, &param); err != nil {
		apiFail(w, r, 400, err)
		return
	}
	if len(strings.TrimSpace(param.Prompt)) == 0 {
		apiFail(w, r, 400, "empty prompt")
		return
	}
	if !s.sm.Ready() {
		apiFail(w, r, 503, "missing API key, chat is disabled")
		return
	}
	isStream := param.Stream || strings.HasSuffix(r.URL.Path, "-sse")

	logger().Infow("chat", "prompt", param.Prompt, "stream", isStream, "ip", r.RemoteAddr)

	if isStream {
		s.chatStreamResponse(&param, w, r)
		return
	}

	reply, err := s.sm.Submit(r.Context(), param.Prompt, nil)
	if err != nil {
		chatFail(w, r, err)
		return
	}
	apiOk(w, r, &ChatMessage{Text: reply.Content, FinishReason: "stop"})
}

func (s *server) chatStreamResponse(param *ChatRequest, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Content-Type", "text/event-stream")

	var idx int
	reply, err := s.sm.Submit(r.Context(), param.Prompt, func(delta, text string) error {
		idx++
		if !writeEvent(w, strconv.Itoa(idx), &ChatMessage{Delta: delta, Text: text}) {
			return errors.New("client gone")
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		logger().Infow("chat stream fail", "err", err)
		idx++
		_ = writeEvent(w, strconv.Itoa(idx), &ChatMessage{Error: err.Error()})
		flusher.Flush()
		return
	}

	idx++
	_ = writeEvent(w, strconv.Itoa(idx), &ChatMessage{Text: reply.Content, FinishReason: "stop"})
	idx++
	_ = writeEvent(w, strconv.Itoa(idx), esDone)
	flusher.Flush()
	logger().Debugw("chat stream done", "answer", len(reply.Content))
}

func chatFail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		apiFail(w, r, 409, err)
	case errors.Is(err, provider.ErrNotConfigured):
		apiFail(w, r, 503, err)
	default:
		var pe *provider.Error
		if errors.As(err, &pe) && pe.Kind == provider.KindAuth {
			apiFail(w, r, 401, err)
			return
		}
		apiFail(w, r, 502, err)
	}
}

// writeEvent write and auto flush
func writeEvent(w io.Writer, id string, m any) bool {
	var b []byte
	var err error
	if s, ok := m.(string); ok {
		b = []byte(s)
	} else {
		b, err = json.Marshal(m)
		if err != nil {
			logger().Infow("json marshal fail", "m", m, "err", err)
			return false
		}
	}

	if err = eventsource.WriteEvent(w, eventsource.Event{
		ID:   id,
		Data: b,
	}); err != nil {
		logger().Infow("eventsource write fail", "err", err)
		return false
	}

	return true
}
