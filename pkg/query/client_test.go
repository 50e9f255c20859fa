package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_HasPrefix(t *testing.T) {
	key := NewKey("admin", "artists", "page=2", "q=nova")

	assert.True(t, key.HasPrefix(NewKey("admin", "artists")))
	assert.True(t, key.HasPrefix(key))
	assert.False(t, key.HasPrefix(NewKey("admin", "artist")))
	assert.False(t, NewKey("admin").HasPrefix(key))
	assert.True(t, key.Equal(NewKey("admin", "artists", "page=2", "q=nova")))
	assert.False(t, key.Equal(NewKey("admin", "artists")))
}

func TestKey_WithCopies(t *testing.T) {
	base := make(Key, 2, 8)
	copy(base, Key{"admin", "artists"})

	a := base.With("page=1")
	b := base.With("page=2")
	assert.Equal(t, Key{"admin", "artists", "page=1"}, a)
	assert.Equal(t, Key{"admin", "artists", "page=2"}, b)
}

func TestFetch_CachesPerExactKey(t *testing.T) {
	c := NewClient()
	defer c.Close()

	calls := 0
	fetcher := func(page string) Fetcher {
		return func(ctx context.Context) (interface{}, error) {
			calls++
			return "page " + page, nil
		}
	}

	ctx := context.Background()
	v, err := c.Fetch(ctx, NewKey("artists", "page=1"), fetcher("1"))
	require.NoError(t, err)
	assert.Equal(t, "page 1", v)

	v, _ = c.Fetch(ctx, NewKey("artists", "page=1"), fetcher("1"))
	assert.Equal(t, "page 1", v)
	assert.Equal(t, 1, calls)

	v, _ = c.Fetch(ctx, NewKey("artists", "page=2"), fetcher("2"))
	assert.Equal(t, "page 2", v)
	assert.Equal(t, 2, calls)
}

func TestFetch_CoalescesConcurrentReads(t *testing.T) {
	c := NewClient()
	defer c.Close()

	var calls int32
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Fetch(context.Background(), NewKey("dashboard"), fetcher)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	c := NewClient()
	defer c.Close()

	_, err := c.Fetch(context.Background(), NewKey("me"), func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	_, ok := c.Get(NewKey("me"))
	assert.False(t, ok)
}

func TestSet_UpdatesExistingOnly(t *testing.T) {
	c := NewClient()
	defer c.Close()

	assert.False(t, c.Set(NewKey("missing"), func(old interface{}) interface{} { return 1 }))

	c.Fetch(context.Background(), NewKey("count"), func(ctx context.Context) (interface{}, error) { return 1, nil })
	assert.True(t, c.Set(NewKey("count"), func(old interface{}) interface{} { return old.(int) + 1 }))

	v, ok := c.Get(NewKey("count"))
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSnapshotRestore(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("pending")
	c.Fetch(context.Background(), key, func(ctx context.Context) (interface{}, error) {
		return []int{1, 2, 3}, nil
	})

	snap := c.Snapshot(key)
	SetAs(c, key, func(items []int) []int { return []int{1, 3} })
	v, _ := GetAs[[]int](c, key)
	assert.Equal(t, []int{1, 3}, v)

	c.Restore(snap)
	v, _ = GetAs[[]int](c, key)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestRestore_RemovesEntryThatDidNotExist(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("artist", "9")
	snap := c.Snapshot(key)
	assert.False(t, snap.Existed)

	c.Fetch(context.Background(), key, func(ctx context.Context) (interface{}, error) { return "x", nil })
	c.Restore(snap)

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestRestore_IgnoresSnapshotFromBeforeClear(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("pending")
	c.Fetch(context.Background(), key, func(ctx context.Context) (interface{}, error) {
		return []int{1, 2}, nil
	})
	snap := c.Snapshot(key)

	c.Clear()
	assert.False(t, c.Restore(snap))
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestFetch_ResultFromBeforeClearIsDropped(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("me")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Fetch(context.Background(), key, func(ctx context.Context) (interface{}, error) {
			close(started)
			<-release
			return "previous session", nil
		})
	}()
	<-started
	c.Clear()
	close(release)
	<-done

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestInvalidate_PrefixRefetchesAllVariants(t *testing.T) {
	c := NewClient()
	defer c.Close()

	var calls int32
	fetcher := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	ctx := context.Background()
	c.Fetch(ctx, NewKey("admin", "artists", "page=1"), fetcher)
	c.Fetch(ctx, NewKey("admin", "artists", "page=2"), fetcher)
	c.Fetch(ctx, NewKey("admin", "dashboard"), fetcher)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))

	keys := c.Invalidate(NewKey("admin", "artists"), false)
	c.Wait()

	assert.Len(t, keys, 2)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestInvalidate_ExactMatch(t *testing.T) {
	c := NewClient()
	defer c.Close()

	ctx := context.Background()
	fetcher := func(ctx context.Context) (interface{}, error) { return 1, nil }
	c.Fetch(ctx, NewKey("admin", "artist", "1"), fetcher)
	c.Fetch(ctx, NewKey("admin", "artist", "1", "content"), fetcher)

	keys := c.Invalidate(NewKey("admin", "artist", "1"), true)
	c.Wait()
	assert.Equal(t, []Key{NewKey("admin", "artist", "1")}, keys)
}

func TestInvalidate_MarksStaleWhenRefetchFails(t *testing.T) {
	c := NewClient()
	defer c.Close()

	ctx := context.Background()
	fail := false
	fetcher := func(ctx context.Context) (interface{}, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return "v1", nil
	}
	c.Fetch(ctx, NewKey("me"), fetcher)

	fail = true
	c.Invalidate(NewKey("me"), true)
	c.Wait()

	// Last known value stays readable, but the next Fetch goes to the server.
	v, ok := c.Get(NewKey("me"))
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	fail = false
	v, err := c.Fetch(ctx, NewKey("me"), fetcher)
	assert.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestFetch_DoesNotOverwriteNewerLocalWrite(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("pending")
	ctx := context.Background()
	c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) { return "server-v1", nil })

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.load(ctx, key, func(ctx context.Context) (interface{}, error) {
			close(started)
			<-release
			return "server-old", nil
		})
	}()

	<-started
	c.Set(key, func(old interface{}) interface{} { return "optimistic" })
	close(release)
	<-done

	v, _ := c.Get(key)
	assert.Equal(t, "optimistic", v)
}

func TestRemoveAndClear(t *testing.T) {
	c := NewClient()
	defer c.Close()

	ctx := context.Background()
	fetcher := func(ctx context.Context) (interface{}, error) { return 1, nil }
	c.Fetch(ctx, NewKey("content", "1"), fetcher)
	c.Fetch(ctx, NewKey("content", "2"), fetcher)
	c.Fetch(ctx, NewKey("me"), fetcher)

	c.Remove(NewKey("content", "1"), true)
	assert.Len(t, c.Keys(NewKey("content"), false), 1)

	c.Clear()
	assert.Empty(t, c.Keys(nil, false))
}

func TestSubscribe(t *testing.T) {
	c := NewClient()
	defer c.Close()

	var mu sync.Mutex
	var seen []string
	unsubscribe := c.Subscribe(func(k Key) {
		mu.Lock()
		seen = append(seen, k.String())
		mu.Unlock()
	})

	c.Fetch(context.Background(), NewKey("me"), func(ctx context.Context) (interface{}, error) { return 1, nil })
	c.Set(NewKey("me"), func(old interface{}) interface{} { return 2 })
	unsubscribe()
	c.Set(NewKey("me"), func(old interface{}) interface{} { return 3 })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"[me]", "[me]"}, seen)
}

func TestStaleTime(t *testing.T) {
	c := NewClient(WithStaleTime(10 * time.Millisecond))
	defer c.Close()

	calls := 0
	fetcher := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}
	c.Fetch(context.Background(), NewKey("stats"), fetcher)
	time.Sleep(20 * time.Millisecond)
	v, _ := c.Fetch(context.Background(), NewKey("stats"), fetcher)
	assert.Equal(t, 2, v)
}

func TestFetchAs_TypeMismatch(t *testing.T) {
	c := NewClient()
	defer c.Close()

	key := NewKey("x")
	c.Fetch(context.Background(), key, func(ctx context.Context) (interface{}, error) { return "str", nil })

	_, err := FetchAs(context.Background(), c, key, func(ctx context.Context) (int, error) { return 1, nil })
	assert.Error(t, err)
}
