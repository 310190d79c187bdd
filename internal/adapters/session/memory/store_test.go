package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/expense-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGetClear(t *testing.T) {
	t.Parallel()

	store := NewStore()

	_, ok := store.Get("42")
	assert.False(t, ok)

	store.Set("42", "token-a")
	token, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, "token-a", token)

	store.Clear("42")
	_, ok = store.Get("42")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStoreSetOverwritesPreviousToken(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Set("42", "token-a")
	store.Set("42", "token-b")

	token, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, "token-b", token)
	assert.Equal(t, 1, store.Len())
}

func TestStoreClearMissingIsNoop(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Set("1", "token-a")

	store.Clear("2")
	store.Clear("2")

	token, ok := store.Get("1")
	require.True(t, ok)
	assert.Equal(t, "token-a", token)
}

func TestStoreKeepsCallersIsolatedUnderConcurrency(t *testing.T) {
	t.Parallel()

	store := NewStore()
	const callers = 64

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := domain.CallerID(fmt.Sprintf("user-%d", i))
			token := fmt.Sprintf("token-%d", i)

			for range 100 {
				store.Set(caller, token)
				got, ok := store.Get(caller)
				assert.True(t, ok)
				assert.Equal(t, token, got)
			}
			if i%2 == 0 {
				store.Clear(caller)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, callers/2, store.Len())
	for i := range callers {
		_, ok := store.Get(domain.CallerID(fmt.Sprintf("user-%d", i)))
		assert.Equal(t, i%2 == 1, ok)
	}
}
