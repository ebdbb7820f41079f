package stores

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
	"github.com/aksjaiswal/stanverse/pkg/settings"
)

// History is the durable mapping from user identifier to an ordered message
// list. Save replaces the whole record for the user atomically; records of
// other users stay intact. Load degrades to an empty history when the
// underlying medium is absent or unreadable.
type History interface {
	Load(ctx context.Context, userID string) (chat.Messages, error)
	Save(ctx context.Context, userID string, msgs chat.Messages) error
	Clear(ctx context.Context, userID string) error
}

// NewHistory builds the backend selected by cfg.HistoryStore.
func NewHistory(cfg *settings.Config) (History, error) {
	switch cfg.HistoryStore {
	case "", "file":
		return NewFileHistory(cfg.HistoryFile), nil
	case "redis":
		return NewRedisHistory(cfg.RedisURI)
	case "sqlite":
		return NewSQLiteHistory(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown history store %q", cfg.HistoryStore)
}

// LoadPreset reads the optional preset file.
func LoadPreset() (doc *chat.Preset, err error) {
	doc = new(chat.Preset)
	if len(settings.Current.PresetFile) > 0 {
		logger().Infow("load preset", "file", settings.Current.PresetFile)
		yf, err := os.Open(settings.Current.PresetFile)
		if err != nil {
			return nil, err
		}
		defer yf.Close()
		err = yaml.NewDecoder(yf).Decode(doc)
		if err != nil {
			logger().Infow("decode preset fail", "err", err)
			return nil, err
		}
	}

	return
}
