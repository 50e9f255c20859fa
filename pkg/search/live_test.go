package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/query"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loads struct {
	mu    sync.Mutex
	views []ViewState
}

func (l *loads) loader(ctx context.Context, view ViewState) (interface{}, ViewState, error) {
	l.mu.Lock()
	l.views = append(l.views, view)
	l.mu.Unlock()
	if view.Page > 3 {
		view.Page = 3
	}
	return map[string]int{"page": view.Page}, view, nil
}

func (l *loads) get() []ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ViewState(nil), l.views...)
}

func startLive(t *testing.T, l *loads) *websocket.Conn {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		NewLive(conn, ParseViewState(r.URL.Query()), l.loader, logger.New()).Serve(r.Context(), 30*time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?page=2"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) LiveUpdate {
	var u LiveUpdate
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&u))
	return u
}

func TestLive_DebouncesKeystrokes(t *testing.T) {
	l := &loads{}
	conn := startLive(t, l)

	first := readUpdate(t, conn)
	assert.Equal(t, 2, first.View.Page)

	for _, q := range []string{"a", "ab", "abc"} {
		q := q
		require.NoError(t, conn.WriteJSON(LiveInput{Q: &q}))
	}

	u := readUpdate(t, conn)
	assert.Equal(t, "abc", u.View.Search)
	assert.Equal(t, 1, u.View.Page)
	assert.Contains(t, u.Query, "q=abc")

	time.Sleep(80 * time.Millisecond)
	assert.Len(t, l.get(), 2)
}

func TestLive_PageIsClampedByLoader(t *testing.T) {
	l := &loads{}
	conn := startLive(t, l)
	readUpdate(t, conn)

	page := 9
	require.NoError(t, conn.WriteJSON(LiveInput{Page: &page}))

	u := readUpdate(t, conn)
	assert.Equal(t, 3, u.View.Page)
	assert.Equal(t, "page=3", u.Query)
}

func TestLive_PushesAgainWhenWatchedListChanges(t *testing.T) {
	cache := query.NewClient()
	defer cache.Close()
	base := query.NewKey("admin", "artists", "list")

	var version int32
	load := func(ctx context.Context, view ViewState) (interface{}, ViewState, error) {
		v, err := cache.Fetch(ctx, view.Key(base), func(ctx context.Context) (interface{}, error) {
			return map[string]int32{"version": atomic.AddInt32(&version, 1)}, nil
		})
		return v, view, err
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		NewLive(conn, ParseViewState(r.URL.Query()), load, logger.New()).
			Watch(Watch{Source: cache, Base: base}).
			Serve(r.Context(), 30*time.Millisecond)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?page=1", nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readUpdate(t, conn)
	assert.Equal(t, map[string]interface{}{"version": float64(1)}, first.Result)

	// a mutation on another page invalidates every artist list
	cache.Invalidate(base, false)

	u := readUpdate(t, conn)
	assert.Equal(t, map[string]interface{}{"version": float64(2)}, u.Result)
	assert.Equal(t, 1, u.View.Page)

	// other keys do not trigger a push
	_, err = cache.Fetch(context.Background(), query.NewKey("admin", "dashboard"), func(ctx context.Context) (interface{}, error) {
		return 1, nil
	})
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	var extra LiveUpdate
	assert.Error(t, conn.ReadJSON(&extra))
}
