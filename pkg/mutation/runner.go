// Package mutation runs moderation actions as optimistic mutations: snapshot the
// affected cache entries, apply the expected result, call the server once, then
// either restore the snapshots or invalidate so the cache converges on server truth.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/query"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseApplied  Phase = "applied"
	PhaseResolved Phase = "resolved"
)

// Write is one optimistic cache write. With Prefix set it applies to every cached
// key under Key (all pages of a list).
type Write struct {
	Key    query.Key
	Prefix bool
	Update func(old interface{}) interface{}
}

// Update adapts a typed updater for a Write. Values of another type pass
// through unchanged.
func Update[T any](fn func(T) T) func(old interface{}) interface{} {
	return func(old interface{}) interface{} {
		v, ok := old.(T)
		if !ok {
			return old
		}
		return fn(v)
	}
}

// ApplyTo runs the write against every matching cached key without taking
// snapshots. Reconcile steps use it to write server truth.
func (w Write) ApplyTo(cache *query.Client) {
	keys := []query.Key{w.Key}
	if w.Prefix {
		keys = cache.Keys(w.Key, false)
	}
	for _, key := range keys {
		cache.Set(key, w.Update)
	}
}

// Target is a key to invalidate after the server confirmed the action.
type Target struct {
	Key   query.Key
	Exact bool
}

type Action struct {
	Name     string
	Scope    string
	EntityID string

	Optimistic []Write
	Call       func(ctx context.Context) (interface{}, error)
	// Reconcile may write the server's answer into the cache before invalidation.
	Reconcile  func(cache *query.Client, result interface{})
	Invalidate []Target

	// FailureMessage is shown when the server gave no usable message.
	FailureMessage string
}

// Record is the state of a single mutation. Its snapshots belong to this mutation
// only and are dropped once it resolves.
type Record struct {
	ID         string
	Action     string
	EntityID   string
	Phase      Phase
	Snapshots  []query.Snapshot
	Result     interface{}
	Err        error
	Message    string
	RolledBack bool
	StartedAt  time.Time
	Duration   time.Duration
}

func (r *Record) Succeeded() bool {
	return r.Phase == PhaseResolved && r.Err == nil
}

type Runner struct {
	cache  *query.Client
	busy   *BusySet
	logger *logger.Logger
}

func NewRunner(cache *query.Client, busy *BusySet, log *logger.Logger) *Runner {
	if busy == nil {
		busy = NewBusySet()
	}
	if log == nil {
		log = logger.New()
	}
	return &Runner{cache: cache, busy: busy, logger: log}
}

func (r *Runner) Busy() *BusySet {
	return r.busy
}

func (r *Runner) Cache() *query.Client {
	return r.cache
}

// Begin marks the row busy and applies the optimistic writes.
func (r *Runner) Begin(a Action) (*Record, error) {
	if err := r.busy.Acquire(a.Scope, a.EntityID); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Action:    a.Name,
		EntityID:  a.EntityID,
		Phase:     PhaseIdle,
		StartedAt: time.Now(),
	}

	for _, w := range a.Optimistic {
		keys := []query.Key{w.Key}
		if w.Prefix {
			keys = r.cache.Keys(w.Key, false)
		}
		for _, key := range keys {
			snap := r.cache.Snapshot(key)
			if !snap.Existed {
				continue
			}
			rec.Snapshots = append(rec.Snapshots, snap)
			r.cache.Set(key, w.Update)
		}
	}
	rec.Phase = PhaseApplied

	r.logger.Debug("[MUTATION] %s %s applied %d optimistic writes (record %s)", a.Name, a.EntityID, len(rec.Snapshots), rec.ID)
	return rec, nil
}

// Resolve settles rec with the outcome of the network call.
func (r *Runner) Resolve(a Action, rec *Record, result interface{}, callErr error) {
	defer r.busy.Release(a.Scope, a.EntityID)

	rec.Duration = time.Since(rec.StartedAt)
	rec.Phase = PhaseResolved

	// a 2xx with an unreadable body means the server acted; keep the guess and refetch
	if errors.Is(callErr, models.ErrBadPayload) {
		rec.Err = callErr
		rec.Message = "Saved, but the server's reply could not be read. Refreshing."
		rec.Snapshots = nil
		r.invalidate(a)
		r.logger.Warn("[MUTATION] %s %s applied upstream with a bad reply, refetching: %v", a.Name, a.EntityID, callErr)
		return
	}

	if callErr != nil {
		skipped := 0
		for i := len(rec.Snapshots) - 1; i >= 0; i-- {
			if !r.cache.Restore(rec.Snapshots[i]) {
				skipped++
			}
		}
		if skipped > 0 {
			r.logger.Debug("[MUTATION] %s %s: %d snapshots belong to a cleared session", a.Name, a.EntityID, skipped)
		}
		fallback := a.FailureMessage
		if fallback == "" {
			fallback = fmt.Sprintf("Failed to %s", a.Name)
		}
		rec.Err = callErr
		rec.Message = apiclient.Message(callErr, fallback)
		rec.RolledBack = true
		rec.Snapshots = nil
		r.logger.Warn("[MUTATION] %s %s failed, rolled back: %v", a.Name, a.EntityID, callErr)
		return
	}

	rec.Result = result
	rec.Snapshots = nil
	if a.Reconcile != nil {
		a.Reconcile(r.cache, result)
	}
	r.invalidate(a)
	r.logger.Info("[MUTATION] %s %s confirmed in %s", a.Name, a.EntityID, rec.Duration)
}

func (r *Runner) invalidate(a Action) {
	for _, t := range a.Invalidate {
		r.cache.Invalidate(t.Key, t.Exact)
	}
}

// Run executes the whole flow: begin, one network call, resolve. The returned
// error is the call error (or ErrBusy); rec.Message carries the inline text.
func (r *Runner) Run(ctx context.Context, a Action) (*Record, error) {
	if a.Call == nil {
		return nil, errors.New("mutation has no network call")
	}

	rec, err := r.Begin(a)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			if rec.Phase != PhaseResolved {
				r.Resolve(a, rec, nil, fmt.Errorf("%s panicked: %v", a.Name, p))
			}
			panic(p)
		}
	}()

	result, callErr := a.Call(ctx)
	r.Resolve(a, rec, result, callErr)
	return rec, rec.Err
}
