package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store.Set("retrieval.top_k", 5))
	require.NoError(t, store.Set("logging.verbose", true))

	val, ok := store.Get("embedding.model")
	assert.True(t, ok)
	assert.Equal(t, "nomic-embed-text", val)

	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))
	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.True(t, store.GetBool("logging.verbose"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_Get_WrongType(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("retrieval.top_k", "five"))
	assert.Zero(t, store.GetInt("retrieval.top_k"))
	assert.False(t, store.GetBool("retrieval.top_k"))
}

func TestConfigStore_GetInt_Conversions(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("a", int64(7)))
	require.NoError(t, store.Set("b", float64(9)))

	assert.Equal(t, 7, store.GetInt("a"))
	assert.Equal(t, 9, store.GetInt("b"))
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("sandbox.timeout_seconds", 30))
	require.NoError(t, store.Set("sandbox.timeout_seconds", 10))

	assert.Equal(t, 10, store.GetInt("sandbox.timeout_seconds"))
}

func TestConfigStore_SaveAndLoad_NoOp(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key", "value"))
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "value", store.GetString("key"))
}

func TestConfigStore_Path(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
			_ = store.GetInt("retrieval.top_k")
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, store.GetInt("retrieval.top_k"), 0)
}
