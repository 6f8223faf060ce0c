package responsive

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Subscription is the handle for one viewport change listener.
// It owns exactly one listener on the engine's DimensionSource.
type Subscription struct {
	engine   *Engine
	listener ListenerID
	onChange func(Viewport)

	released atomic.Bool

	// deliverMu is held across the released check and the callback.
	deliverMu sync.Mutex
	deliverer atomic.Uint64 // goroutine running the callback, 0 when idle

	mu   sync.Mutex
	stop func() bool // detaches the context watcher, nil without a context
}

// Subscribe registers onChange to run once per viewport change delivered by
// the source. The callback receives the viewport read after the change.
func (e *Engine) Subscribe(onChange func(Viewport)) *Subscription {
	s := &Subscription{engine: e, onChange: onChange}
	s.listener = e.source.OnChange(s.deliver)

	e.mu.Lock()
	e.subs[s] = struct{}{}
	n := len(e.subs)
	e.mu.Unlock()

	e.log.Debug("Viewport subscription added", zap.Uint64("listener", uint64(s.listener)), zap.Int("active", n))
	return s
}

// SubscribeContext is Subscribe tied to ctx: the subscription is released when
// ctx is done, if Unsubscribe has not been called first.
func (e *Engine) SubscribeContext(ctx context.Context, onChange func(Viewport)) *Subscription {
	s := e.Subscribe(onChange)
	stop := context.AfterFunc(ctx, s.Unsubscribe)
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	return s
}

// Unsubscribe releases s. Releasing a nil or already released handle is a no-op.
func (e *Engine) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	s.Unsubscribe()
}

// Active returns the number of live subscriptions.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Close releases every live subscription.
func (e *Engine) Close() {
	e.mu.Lock()
	subs := make([]*Subscription, 0, len(e.subs))
	for s := range e.subs {
		subs = append(subs, s)
	}
	e.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Unsubscribe releases the underlying source listener exactly once.
// After it returns the callback is never invoked again: a delivery running on
// another goroutine is waited for. Called from the subscription's own callback
// it returns at once and the running delivery completes.
func (s *Subscription) Unsubscribe() {
	if d := s.deliverer.Load(); d == 0 || d != goid() {
		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()
	}
	if !s.released.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	s.engine.source.Release(s.listener)

	s.engine.mu.Lock()
	delete(s.engine.subs, s)
	n := len(s.engine.subs)
	s.engine.mu.Unlock()

	s.engine.log.Debug("Viewport subscription released", zap.Uint64("listener", uint64(s.listener)), zap.Int("active", n))
}

// Released returns true once Unsubscribe has run.
func (s *Subscription) Released() bool {
	return s.released.Load()
}

func (s *Subscription) deliver() {
	if s.onChange == nil {
		return
	}
	id := goid()
	if id != 0 && s.deliverer.Load() == id {
		// change raised from inside the callback
		if !s.released.Load() {
			s.onChange(s.engine.source.Current())
		}
		return
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.released.Load() {
		return
	}
	s.deliverer.Store(id)
	defer s.deliverer.Store(0)
	s.onChange(s.engine.source.Current())
}

var goroutinePrefix = []byte("goroutine ")

// goid returns the id of the calling goroutine from its stack header.
func goid() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
