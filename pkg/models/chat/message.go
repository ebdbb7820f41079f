package chat

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// roles of a message
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged utterance of a conversation. Immutable once
// created; order inside Messages is chronological and significant.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

type Messages []Message

// Clone returns an independent copy.
func (ms Messages) Clone() Messages {
	if ms == nil {
		return nil
	}
	out := make(Messages, len(ms))
	copy(out, ms)
	return out
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (z Message) MarshalBinary() (data []byte, err error) {
	data, err = json.Marshal(z)
	return
}

// UnmarshalBinary unmarshal a binary representation of itself. for redis result.Scan
func (z *Message) UnmarshalBinary(data []byte) error {
	var t Message
	err := json.Unmarshal(data, &t)
	if err == nil {
		*z = t
	}
	return err
}

// NormalizeRecords converts loosely shaped history records into canonical
// Messages. Two shapes are accepted: `{role, content}` objects and legacy
// `{user, assistant}` pair objects, which expand into up to two messages.
// Records matching neither shape are reported through skip and dropped.
func NormalizeRecords(records []map[string]any, skip func(rec map[string]any)) Messages {
	out := make(Messages, 0, len(records))
	for _, rec := range records {
		if role := cast.ToString(rec["role"]); role == RoleUser || role == RoleAssistant || role == RoleSystem {
			out = append(out, Message{Role: role, Content: cast.ToString(rec["content"])})
			continue
		}
		_, hasU := rec["user"]
		_, hasA := rec["assistant"]
		if hasU || hasA {
			var got bool
			if q := cast.ToString(rec["user"]); len(q) > 0 {
				out = append(out, Message{Role: RoleUser, Content: q})
				got = true
			}
			if a := cast.ToString(rec["assistant"]); len(a) > 0 {
				out = append(out, Message{Role: RoleAssistant, Content: a})
				got = true
			}
			if !got && skip != nil {
				skip(rec)
			}
			continue
		}
		if skip != nil {
			skip(rec)
		}
	}
	return out
}
