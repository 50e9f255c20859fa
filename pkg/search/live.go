package search

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/query"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveInput is one message from the browser. Q is the raw search box content and
// is debounced; Filter and Page apply at once.
type LiveInput struct {
	Q      *string `json:"q,omitempty"`
	Filter *string `json:"filter,omitempty"`
	Page   *int    `json:"page,omitempty"`
}

// LiveUpdate is pushed after every committed view change.
type LiveUpdate struct {
	View   ViewState   `json:"view"`
	Query  string      `json:"query"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Loader fetches the list for a view. It may clamp the view and returns the one
// it actually loaded.
type Loader func(ctx context.Context, view ViewState) (interface{}, ViewState, error)

// Source reports cache keys whose value changed. *query.Client is one.
type Source interface {
	Subscribe(fn func(query.Key)) func()
}

// Watch names the cached list a live view follows: Base plus the view's own key
// parts. A zero Watch follows nothing.
type Watch struct {
	Source Source
	Base   query.Key
}

// Live drives one live-search connection.
type Live struct {
	conn   *websocket.Conn
	load   Loader
	logger *logger.Logger
	watch  Watch

	writeMu sync.Mutex
	mu      sync.Mutex
	view    ViewState
	ctx     context.Context

	// loading counts pushes in progress; changes they cause themselves are ignored
	loading atomic.Int32
	changed chan struct{}
}

func NewLive(conn *websocket.Conn, initial ViewState, load Loader, log *logger.Logger) *Live {
	return &Live{conn: conn, view: initial, load: load, logger: log}
}

// Watch makes the connection push again whenever the cached list behind the
// current view changes, e.g. after a mutation from another page.
func (l *Live) Watch(w Watch) *Live {
	l.watch = w
	return l
}

// Serve pushes the initial view, then reads input until the connection closes.
func (l *Live) Serve(ctx context.Context, delay time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.ctx = ctx

	if l.watch.Source != nil {
		l.changed = make(chan struct{}, 1)
		unsubscribe := l.watch.Source.Subscribe(l.onChange)
		defer unsubscribe()
		go l.repush(ctx)
	}

	debouncer := NewDebouncer(delay, func(term string) {
		l.mu.Lock()
		l.view = l.view.WithSearch(term)
		view := l.view
		l.mu.Unlock()
		l.push(view)
	})
	defer debouncer.Stop()

	l.mu.Lock()
	debouncer.SetCommitted(l.view.Search)
	view := l.view
	l.mu.Unlock()
	l.push(view)

	for {
		var in LiveInput
		if err := l.conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Debug("[SEARCH] live connection closed: %v", err)
			}
			return
		}

		if in.Q != nil {
			debouncer.Input(*in.Q)
		}
		if in.Filter == nil && in.Page == nil {
			continue
		}

		l.mu.Lock()
		if in.Filter != nil {
			l.view = l.view.WithFilter(*in.Filter)
		}
		if in.Page != nil {
			l.view = l.view.WithPage(*in.Page)
		}
		view := l.view
		l.mu.Unlock()
		l.push(view)
	}
}

func (l *Live) onChange(key query.Key) {
	if l.loading.Load() > 0 {
		return
	}
	l.mu.Lock()
	current := l.view.Key(l.watch.Base)
	l.mu.Unlock()
	if !key.HasPrefix(current) {
		return
	}
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

func (l *Live) repush(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.changed:
			l.mu.Lock()
			view := l.view
			l.mu.Unlock()
			l.push(view)
		}
	}
}

func (l *Live) push(view ViewState) {
	update := LiveUpdate{View: view}
	l.loading.Add(1)
	result, loaded, err := l.load(l.ctx, view)
	l.loading.Add(-1)
	if err != nil {
		update.Error = apiclient.Message(err, "Search failed")
	} else {
		update.Result = result
		update.View = loaded
		l.mu.Lock()
		if l.view == view {
			l.view = loaded
		}
		l.mu.Unlock()
	}
	update.Query = update.View.Encode()

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if err := l.conn.WriteJSON(update); err != nil {
		l.logger.Warn("[SEARCH] live push failed: %v", err)
	}
}
