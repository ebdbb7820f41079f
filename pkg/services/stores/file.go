package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

// fileHistory keeps the whole store in one JSON file: a map from user
// identifier to the user's message list. Writes rewrite the file through a
// temp file and rename, so a crash mid-save never leaves a half-written
// store behind. A single writer process is assumed; mu serializes savers
// inside this process.
type fileHistory struct {
	path string
	mu   sync.Mutex
}

// NewFileHistory returns a History backed by the JSON file at path.
func NewFileHistory(path string) History {
	return &fileHistory{path: path}
}

func (s *fileHistory) Load(_ context.Context, userID string) (chat.Messages, error) {
	all := s.readAll()
	raw, ok := all[userID]
	if !ok {
		return chat.Messages{}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		logger().Infow("history record unreadable", "user", userID, "err", err)
		return chat.Messages{}, nil
	}
	msgs := chat.NormalizeRecords(records, func(rec map[string]any) {
		logger().Infow("skip unknown history record", "user", userID, "rec", rec)
	})
	return msgs, nil
}

func (s *fileHistory) Save(_ context.Context, userID string, msgs chat.Messages) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	if msgs == nil {
		msgs = chat.Messages{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	all[userID] = b

	return s.writeAll(all)
}

func (s *fileHistory) Clear(ctx context.Context, userID string) error {
	return s.Save(ctx, userID, chat.Messages{})
}

// readAll loads the whole store, degrading to an empty map on any failure.
func (s *fileHistory) readAll() map[string]json.RawMessage {
	all := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger().Infow("read history file fail", "file", s.path, "err", err)
		}
		return all
	}
	if err = json.Unmarshal(data, &all); err != nil {
		logger().Infow("history file corrupt, starting empty", "file", s.path, "err", err)
		return make(map[string]json.RawMessage)
	}
	return all
}

func (s *fileHistory) writeAll(all map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
