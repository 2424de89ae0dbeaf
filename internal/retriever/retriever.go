package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mywork/internal/service"
)

// State is the worker's position in its loop.
type State int32

const (
	// Idle means the worker is waiting on the gate.
	Idle State = iota
	// Fetching means a cycle is in flight.
	Fetching
	// Stopped means the worker goroutine has exited.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ReadyHandler receives the result of a successful cycle.
// The ResultSet must be treated as read-only.
type ReadyHandler func(rs *service.ResultSet)

// ErrorHandler receives the cause of a failed cycle.
type ErrorHandler func(err error)

type readySub struct {
	id uint64
	fn ReadyHandler
}

type errorSub struct {
	id uint64
	fn ErrorHandler
}

// Retriever fetches work items on a single background goroutine.
type Retriever struct {
	src    service.Source
	gate   *Gate
	logger *slog.Logger

	stopping atomic.Bool
	state    atomic.Int32
	done     chan struct{}

	mu      sync.RWMutex
	nextID  uint64
	onReady []readySub
	onError []errorSub
}

// New creates a Retriever and starts its worker goroutine.
// The worker stays idle until RequestFetch is called.
func New(src service.Source, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retriever{
		src:    src,
		gate:   NewGate(),
		logger: logger.With("component", "retriever"),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// RequestFetch asks the worker to run a cycle. It never blocks.
// Requests made before the worker wakes collapse into one cycle.
func (r *Retriever) RequestFetch() {
	r.gate.Signal()
}

// Shutdown stops the worker. An idle worker exits immediately; an in-flight
// cycle finishes and publishes first. Safe to call more than once.
func (r *Retriever) Shutdown() {
	if r.stopping.CompareAndSwap(false, true) {
		r.logger.Debug("shutdown requested")
	}
	r.gate.Signal()
}

// Done is closed once the worker goroutine has exited.
func (r *Retriever) Done() <-chan struct{} {
	return r.done
}

// State returns the worker's current state.
func (r *Retriever) State() State {
	return State(r.state.Load())
}

// OnWorkitemsReady registers h for successful cycles.
// The returned func removes the registration.
func (r *Retriever) OnWorkitemsReady(h ReadyHandler) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.onReady = append(r.onReady, readySub{id: id, fn: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, sub := range r.onReady {
				if sub.id == id {
					r.onReady = append(r.onReady[:i:i], r.onReady[i+1:]...)
					return
				}
			}
		})
	}
}

// OnFetchError registers h for failed cycles.
// The returned func removes the registration.
func (r *Retriever) OnFetchError(h ErrorHandler) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.onError = append(r.onError, errorSub{id: id, fn: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, sub := range r.onError {
				if sub.id == id {
					r.onError = append(r.onError[:i:i], r.onError[i+1:]...)
					return
				}
			}
		})
	}
}

func (r *Retriever) loop() {
	defer close(r.done)
	defer r.state.Store(int32(Stopped))

	for !r.stopping.Load() {
		r.state.Store(int32(Idle))
		r.gate.Wait()

		if r.stopping.Load() {
			r.logger.Debug("worker stopped")
			return
		}

		r.state.Store(int32(Fetching))
		r.runCycle()
	}
	r.logger.Debug("worker stopped")
}

func (r *Retriever) runCycle() {
	logger := r.logger.With("cycle_id", uuid.NewString())
	start := time.Now()
	logger.Debug("fetch started")

	rs, err := r.fetch(context.Background(), logger)
	if err != nil {
		logger.Warn("fetch failed",
			"error", err,
			"duration", time.Since(start))
		r.publishError(logger, err)
		return
	}

	logger.Info("work items ready",
		"stories", rs.Len(),
		"tasks", rs.TaskCount(),
		"duration", time.Since(start))
	r.publishReady(logger, rs)
}

// fetch runs fetchAndMerge, turning a panic in the source into an error.
func (r *Retriever) fetch(ctx context.Context, logger *slog.Logger) (rs *service.ResultSet, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic during fetch",
				"panic", p,
				"stack", string(debug.Stack()))
			rs = nil
			err = &service.RemoteQueryError{Op: "fetch", Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return fetchAndMerge(ctx, r.src)
}

func (r *Retriever) publishReady(logger *slog.Logger, rs *service.ResultSet) {
	r.mu.RLock()
	subs := make([]readySub, len(r.onReady))
	copy(subs, r.onReady)
	r.mu.RUnlock()

	if len(subs) == 0 {
		logger.Debug("no ready handlers registered")
	}
	for _, sub := range subs {
		callNoPanic(logger, func() { sub.fn(rs) })
	}
}

func (r *Retriever) publishError(logger *slog.Logger, err error) {
	r.mu.RLock()
	subs := make([]errorSub, len(r.onError))
	copy(subs, r.onError)
	r.mu.RUnlock()

	if len(subs) == 0 {
		logger.Debug("no error handlers registered")
	}
	for _, sub := range subs {
		callNoPanic(logger, func() { sub.fn(err) })
	}
}

// callNoPanic keeps a misbehaving handler from taking down the worker.
func callNoPanic(logger *slog.Logger, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("handler panicked",
				"panic", p,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
