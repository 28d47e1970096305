package redis

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"goa.design/braid/model"
)

// newTestStore connects to the Redis instance named by REDIS_ADDR. Tests
// are skipped when no instance is available.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := New(client, "braid:test:"+t.Name())
	require.NoError(t, store.Clear(context.Background()))
	t.Cleanup(func() { _ = store.Clear(context.Background()) })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, model.NewHumanMessage("hi")))
	require.NoError(t, store.Add(ctx, model.NewAIMessage("hello")))

	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, model.RoleHuman, msgs[0].Role)
	require.Equal(t, "hi", msgs[0].Content)
}

func TestStoreUpdateAppendsWholeRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	call := model.NewToolCall("c1", "search", map[string]any{"q": "go"})
	steps := []model.AgentStep{model.NewAgentStep(call, "obs")}
	require.NoError(t, store.Update(ctx, "question", steps, "answer"))

	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	require.Equal(t, "c1", msgs[1].ToolCalls[0].ID)
	require.Equal(t, "c1", msgs[2].ID)
	require.Equal(t, "answer", msgs[3].Content)
}
