package chat

// Preset carries optional overrides loaded from a YAML file.
type Preset struct {
	Welcome      *Message `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	SystemPrompt string   `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`
	Model        string   `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens    int      `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	Temperature  float32  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Stop         []string `json:"stop,omitempty" yaml:"stop,omitempty"`
}
