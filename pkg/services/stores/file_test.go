package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aksjaiswal/stanverse/pkg/models/chat"
)

const testUser = "aks_jaiswal_user_12345"

func sampleHistory() chat.Messages {
	return chat.Messages{
		{Role: chat.RoleUser, Content: "My name is Alex"},
		{Role: chat.RoleAssistant, Content: "Nice to meet you, Alex!"},
	}
}

func TestFileHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	sto := NewFileHistory(path)

	data, err := sto.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, data)

	h := sampleHistory()
	require.NoError(t, sto.Save(ctx, testUser, h))

	data, err = sto.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, h, data)

	// a fresh instance reads the same record back
	data, err = NewFileHistory(path).Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, h, data)
}

func TestFileHistoryMultiUser(t *testing.T) {
	ctx := context.Background()
	sto := NewFileHistory(filepath.Join(t.TempDir(), "history.json"))

	require.NoError(t, sto.Save(ctx, "alice", chat.Messages{{Role: chat.RoleUser, Content: "hi"}}))
	require.NoError(t, sto.Save(ctx, "bob", chat.Messages{{Role: chat.RoleUser, Content: "yo"}}))

	require.NoError(t, sto.Save(ctx, "alice", sampleHistory()))

	data, err := sto.Load(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "yo", data[0].Content)
}

func TestFileHistoryCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	sto := NewFileHistory(path)
	data, err := sto.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, data)

	// saving over a corrupt store works and round-trips
	require.NoError(t, sto.Save(ctx, testUser, sampleHistory()))
	data, err = sto.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, data, 2)
}

func TestFileHistoryLegacyShapes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	raw := `{"` + testUser + `": [
		{"role": "user", "content": "q1"},
		{"role": "assistant", "content": "a1"},
		{"user": "q2", "assistant": "a2"},
		{"bogus": 1}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	data, err := NewFileHistory(path).Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, data, 4)
	assert.Equal(t, chat.RoleUser, data[2].Role)
	assert.Equal(t, "q2", data[2].Content)
	assert.Equal(t, chat.RoleAssistant, data[3].Role)
	assert.Equal(t, "a2", data[3].Content)
}

func TestFileHistoryClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	sto := NewFileHistory(path)

	require.NoError(t, sto.Save(ctx, testUser, sampleHistory()))
	require.NoError(t, sto.Clear(ctx, testUser))

	// durable across a new instance, not just in memory
	data, err := NewFileHistory(path).Load(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileHistoryNoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sto := NewFileHistory(filepath.Join(dir, "history.json"))
	require.NoError(t, sto.Save(ctx, testUser, sampleHistory()))
	require.NoError(t, sto.Save(ctx, testUser, sampleHistory()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())
}
