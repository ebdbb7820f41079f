package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecords(t *testing.T) {
	records := []map[string]any{
		{"role": "user", "content": "My name is Alex"},
		{"role": "assistant", "content": "Nice to meet you, Alex!"},
		{"user": "hi", "assistant": "hello"},
		{"user": "only a question"},
		{"user": "", "assistant": ""},
		{"weird": true},
	}

	var skipped []map[string]any
	msgs := NormalizeRecords(records, func(rec map[string]any) {
		skipped = append(skipped, rec)
	})

	assert.Len(t, msgs, 5)
	assert.Equal(t, Message{Role: RoleUser, Content: "My name is Alex"}, msgs[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "Nice to meet you, Alex!"}, msgs[1])
	assert.Equal(t, Message{Role: RoleUser, Content: "hi"}, msgs[2])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "hello"}, msgs[3])
	assert.Equal(t, Message{Role: RoleUser, Content: "only a question"}, msgs[4])

	// the empty pair record and the unknown shape are both reported
	assert.Len(t, skipped, 2)
}

func TestNormalizeRecordsKeepsOrder(t *testing.T) {
	records := []map[string]any{
		{"role": "assistant", "content": "second"},
		{"role": "user", "content": "first"},
	}
	msgs := NormalizeRecords(records, nil)
	// whatever order storage had is preserved, no reordering or validation
	assert.Equal(t, "second", msgs[0].Content)
	assert.Equal(t, "first", msgs[1].Content)
}

func TestMessagesClone(t *testing.T) {
	ms := Messages{{Role: RoleUser, Content: "a"}}
	cp := ms.Clone()
	cp[0].Content = "b"
	assert.Equal(t, "a", ms[0].Content)

	var empty Messages
	assert.Nil(t, empty.Clone())
}
