// Package query is the console's remote-state cache: the latest server value per
// structured key, with optimistic writes, snapshot restore and invalidation.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fanvault-console/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the server value for one key.
type Fetcher func(ctx context.Context) (interface{}, error)

type entry struct {
	key       Key
	value     interface{}
	hasValue  bool
	stale     bool
	updatedAt time.Time
	fetcher   Fetcher
	// version changes on every local write so a fetch that started before an
	// optimistic write cannot overwrite it with older server data.
	version uint64
}

// Snapshot is the pre-mutation state of one key. Generation ties it to the
// cache contents it was taken from; a Clear in between makes it void.
type Snapshot struct {
	Key        Key
	Value      interface{}
	Existed    bool
	Generation uint64
}

type Option func(*Client)

// WithStaleTime makes entries stale after d. Zero keeps them fresh until invalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.logger = log }
}

type Client struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	generation uint64
	group      singleflight.Group
	staleTime time.Duration
	logger    *logger.Logger

	subMu       sync.RWMutex
	subscribers map[uint64]func(Key)
	nextSub     uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClient(opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		entries:     make(map[string]*entry),
		subscribers: make(map[uint64]func(Key)),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.New()
	}
	return c
}

// Fetch returns the cached value for key when it is fresh, otherwise it runs
// fetcher. Concurrent fetches of one key share a single call.
func (c *Client) Fetch(ctx context.Context, key Key, fetcher Fetcher) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key.id()]; ok {
		e.fetcher = fetcher
		if e.hasValue && !c.isStale(e) {
			value := e.value
			c.mu.Unlock()
			return value, nil
		}
	}
	c.mu.Unlock()

	return c.load(ctx, key, fetcher)
}

func (c *Client) load(ctx context.Context, key Key, fetcher Fetcher) (interface{}, error) {
	id := key.id()
	value, err, _ := c.group.Do(id, func() (interface{}, error) {
		version, generation := c.versionOf(id)
		start := time.Now()
		value, err := fetcher(ctx)
		if err != nil {
			c.logger.Debug("[QUERY] fetch %s failed: %v", key, err)
			return nil, err
		}
		c.logger.Debug("[QUERY] fetched %s in %s", key, time.Since(start))
		c.store(key, value, fetcher, version, generation)
		return value, nil
	})
	return value, err
}

func (c *Client) versionOf(id string) (uint64, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[id]; ok {
		return e.version, c.generation
	}
	return 0, c.generation
}

func (c *Client) store(key Key, value interface{}, fetcher Fetcher, version, generation uint64) {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		c.logger.Debug("[QUERY] dropped fetch result for %s, cache was cleared meanwhile", key)
		return
	}
	e, ok := c.entries[key.id()]
	if !ok {
		e = &entry{key: key}
		c.entries[key.id()] = e
	}
	e.fetcher = fetcher
	if ok && e.version != version {
		c.mu.Unlock()
		c.logger.Debug("[QUERY] dropped fetch result for %s, entry was written meanwhile", key)
		return
	}
	e.value = value
	e.hasValue = true
	e.stale = false
	e.updatedAt = time.Now()
	c.mu.Unlock()

	c.notify(key)
}

func (c *Client) isStale(e *entry) bool {
	if e.stale {
		return true
	}
	return c.staleTime > 0 && time.Since(e.updatedAt) > c.staleTime
}

// Get returns the last known value for key.
func (c *Client) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.id()]
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Set replaces the value of an existing entry with updater(old). updater must not
// modify old in place. It reports whether an entry was updated.
func (c *Client) Set(key Key, updater func(old interface{}) interface{}) bool {
	c.mu.Lock()
	e, ok := c.entries[key.id()]
	if !ok || !e.hasValue {
		c.mu.Unlock()
		return false
	}
	e.value = updater(e.value)
	e.version++
	c.mu.Unlock()

	c.notify(key)
	return true
}

func (c *Client) Snapshot(key Key) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Key: key, Generation: c.generation}
	if e, ok := c.entries[key.id()]; ok && e.hasValue {
		snap.Value = e.value
		snap.Existed = true
	}
	return snap
}

// Restore writes a snapshot back verbatim. An entry that did not exist when the
// snapshot was taken is removed. Snapshots taken before the last Clear are
// ignored and Restore reports false.
func (c *Client) Restore(s Snapshot) bool {
	c.mu.Lock()
	if s.Generation != c.generation {
		c.mu.Unlock()
		c.logger.Debug("[QUERY] skipped restore of %s, cache was cleared meanwhile", s.Key)
		return false
	}
	e, ok := c.entries[s.Key.id()]
	switch {
	case s.Existed && ok:
		e.value = s.Value
		e.hasValue = true
		e.version++
	case s.Existed:
		c.entries[s.Key.id()] = &entry{key: s.Key, value: s.Value, hasValue: true, updatedAt: time.Now(), version: 1}
	case ok:
		delete(c.entries, s.Key.id())
	}
	c.mu.Unlock()

	c.notify(s.Key)
	return true
}

// Keys lists cached keys equal to prefix (exact) or starting with it.
func (c *Client) Keys(prefix Key, exact bool) []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var keys []Key
	for _, e := range c.entries {
		if matches(e.key, prefix, exact) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Invalidate marks matching entries stale and refetches them in the background.
func (c *Client) Invalidate(prefix Key, exact bool) []Key {
	type refetch struct {
		key     Key
		fetcher Fetcher
	}

	c.mu.Lock()
	var keys []Key
	var pending []refetch
	for _, e := range c.entries {
		if !matches(e.key, prefix, exact) {
			continue
		}
		e.stale = true
		keys = append(keys, e.key)
		if e.fetcher != nil {
			pending = append(pending, refetch{key: e.key, fetcher: e.fetcher})
		}
	}
	c.mu.Unlock()

	c.logger.Debug("[QUERY] invalidated %d entries under %s (exact=%t)", len(keys), prefix, exact)

	for _, r := range pending {
		c.wg.Add(1)
		go func(r refetch) {
			defer c.wg.Done()
			if _, err := c.load(c.ctx, r.key, r.fetcher); err != nil {
				c.logger.Warn("[QUERY] background refetch of %s failed: %v", r.key, err)
			}
		}(r)
	}
	return keys
}

// Remove drops matching entries without refetching, used once an entity is gone.
func (c *Client) Remove(prefix Key, exact bool) {
	c.mu.Lock()
	var removed []Key
	for id, e := range c.entries {
		if matches(e.key, prefix, exact) {
			delete(c.entries, id)
			removed = append(removed, e.key)
		}
	}
	c.mu.Unlock()

	for _, key := range removed {
		c.notify(key)
	}
}

// Clear empties the cache, e.g. on logout.
func (c *Client) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.generation++
	c.mu.Unlock()
}

// Subscribe registers fn to be called with every key whose value changes.
func (c *Client) Subscribe(fn func(Key)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

func (c *Client) notify(key Key) {
	c.subMu.RLock()
	subs := make([]func(Key), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.subMu.RUnlock()

	for _, fn := range subs {
		fn(key)
	}
}

// Wait blocks until background refetches started so far have finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) Close() {
	c.cancel()
	c.wg.Wait()
}

func matches(key, prefix Key, exact bool) bool {
	if exact {
		return key.Equal(prefix)
	}
	return key.HasPrefix(prefix)
}

// FetchAs is Fetch for a typed fetcher.
func FetchAs[T any](ctx context.Context, c *Client, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("query %s holds %T, not %T", key, value, zero)
	}
	return typed, nil
}

func GetAs[T any](c *Client, key Key) (T, bool) {
	var zero T
	value, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// SetAs is Set for entries holding a T; entries of another type are left alone.
func SetAs[T any](c *Client, key Key, update func(T) T) bool {
	return c.Set(key, func(old interface{}) interface{} {
		typed, ok := old.(T)
		if !ok {
			return old
		}
		return update(typed)
	})
}
