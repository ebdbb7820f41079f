package settings

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

// consts
const (
	Name = "Stanverse"
)

// Config ...
type Config struct {
	Name    string `ignored:"true"`
	Version string `ignored:"true"`

	HTTPListen string `envconfig:"HTTP_LISTEN" default:":5002"`
	Debug      bool   `envconfig:"DEBUG"`
	RateLimit  string `envconfig:"rate_limit" default:"30-M"`

	GroqAPIKey  string  `envconfig:"groq_api_key"`
	GroqBaseURL string  `envconfig:"groq_base_url" default:"https://api.groq.com/openai/v1"`
	ChatModel   string  `envconfig:"chat_model" default:"llama-3.3-70b-versatile"`
	Temperature float32 `envconfig:"temperature" default:"0.8"`
	MaxTokens   int     `envconfig:"max_tokens"`

	HistoryStore string `envconfig:"history_store" default:"file"` // file | redis | sqlite
	HistoryFile  string `envconfig:"history_file" default:"stanverse_chat_history.json"`
	SQLitePath   string `envconfig:"sqlite_path" default:"stanverse.db"`
	RedisURI     string `envconfig:"redis_uri" default:"redis://localhost:6379/1"`
	HistoryLimit int    `envconfig:"history_limit"` // prior messages kept in prompt, 0 = unlimited

	UserID     string `envconfig:"user_id" default:"aks_jaiswal_user_12345"`
	PresetFile string `envconfig:"preset_file"`
}

var (
	// Current 当前配置
	Current = new(Config)
)

func init() {
	if err := envconfig.Process(Name, Current); err != nil {
		log.Printf("envconfig process fail: %s", err)
	}

	Current.Name = Name
	Current.Version = version
}

// Usage 打印配置帮助
func Usage() error {
	log.Printf("ver: %s", Current.Version)
	return envconfig.Usage(Current.Name, Current)
}

// InDevelop ...
func InDevelop() bool {
	return Current.Debug
}
