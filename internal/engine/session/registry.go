// Package session keeps one form controller per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"promptqr/internal/engine/form"
	"promptqr/internal/pkg/logger"
	"promptqr/internal/pkg/metrics"
	"promptqr/internal/platform/preferences"
)

// Factory builds the controller for a new session id.
type Factory func(id string) *form.Controller

// ControllerFactory returns a Factory that gives every session its own
// namespace in store.
func ControllerFactory(opts form.Options, store preferences.Store) Factory {
	return func(id string) *form.Controller {
		o := opts
		o.Store = preferences.Namespace(store, id)
		o.Session = id
		return form.New(o)
	}
}

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one handed out by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type entry struct {
	controller *form.Controller
	ready      chan struct{}

	mu       sync.Mutex
	lastSeen time.Time
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *entry) idle(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastSeen)
}

type Registry struct {
	store   sync.Map // map[session id]*entry
	ttl     time.Duration
	clock   clockwork.Clock
	factory Factory
}

func NewRegistry(ttl time.Duration, clock clockwork.Clock, factory Factory) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		ttl:     ttl,
		clock:   clock,
		factory: factory,
	}
}

// Acquire returns the controller for id, creating and loading it on first
// use or after it was evicted for being idle.
func (r *Registry) Acquire(ctx context.Context, id string) *form.Controller {
	now := r.clock.Now()

	if val, ok := r.store.Load(id); ok {
		e := val.(*entry)
		if r.ttl <= 0 || e.idle(now) <= r.ttl {
			<-e.ready
			e.touch(now)
			return e.controller
		}
		r.evict(id, e)
	}

	e := &entry{controller: r.factory(id), ready: make(chan struct{}), lastSeen: now}
	actual, loaded := r.store.LoadOrStore(id, e)
	if loaded {
		e.controller.Close()
		existing := actual.(*entry)
		<-existing.ready
		existing.touch(now)
		return existing.controller
	}

	metrics.ActiveSessions.Add(1)
	if err := e.controller.Load(ctx); err != nil {
		l := logger.ForSession("session", id)
		l.Warn().Err(err).Msg("failed to load stored preference")
	}
	close(e.ready)

	return e.controller
}

// Sweep evicts sessions idle longer than the TTL and returns how many went.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	now := r.clock.Now()
	evicted := 0
	r.store.Range(func(key, val any) bool {
		e := val.(*entry)
		if e.idle(now) > r.ttl && r.evict(key.(string), e) {
			evicted++
		}
		return true
	})
	return evicted
}

// DefaultSweepInterval is used when Run is given a non-positive interval.
const DefaultSweepInterval = 5 * time.Minute

func sweepInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultSweepInterval
	}
	return d
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Warn().Dur("interval", interval).Dur("default", DefaultSweepInterval).Msg("invalid sweep interval, using default")
	}
	ticker := r.clock.NewTicker(sweepInterval(interval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := r.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("idle sessions swept")
			}
		}
	}
}

func (r *Registry) Len() int {
	n := 0
	r.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops every controller and empties the registry.
func (r *Registry) Close() {
	r.store.Range(func(key, val any) bool {
		r.evict(key.(string), val.(*entry))
		return true
	})
}

func (r *Registry) evict(id string, e *entry) bool {
	if !r.store.CompareAndDelete(id, e) {
		return false
	}
	e.controller.Close()
	metrics.ActiveSessions.Add(-1)
	return true
}
