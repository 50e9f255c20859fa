package tokenstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	token, err := store.Get(ctx)
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, store.Set(ctx, "abc"))
	token, _ = store.Get(ctx)
	assert.Equal(t, "abc", token)

	assert.NoError(t, store.Clear(ctx))
	token, _ = store.Get(ctx)
	assert.Empty(t, token)
}

func TestRedisStore(t *testing.T) {
	t.Skip("Skipping test that requires a running Redis instance")
}
