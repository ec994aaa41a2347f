package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kylycht/apex/storage"
	"github.com/kylycht/apex/widget"
	"github.com/rs/zerolog/log"
)

const (
	defaultSweepInterval = time.Minute
)

type entry struct {
	widget   *widget.Controller
	lastUsed time.Time
}

// MCache keeps mounted widgets in memory and unmounts
// sessions that have been idle longer than ttl
type MCache struct {
	lock      sync.RWMutex      // rw lock guards store
	store     map[string]*entry // mounted widgets by session id
	ttl       time.Duration     // idle time before a session is unmounted
	ticker    *time.Ticker      // ticker to sweep idle sessions every X interval
	doneC     chan struct{}     // chan to signal ticker stoppage
	closeOnce sync.Once
	now       func() time.Time
	onChange  func(n int) // reports the number of mounted widgets
}

// Option configures MCache
type Option func(*MCache)

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *MCache) { m.now = now }
}

// WithSizeObserver is called with the session count after every change.
func WithSizeObserver(fn func(n int)) Option {
	return func(m *MCache) { m.onChange = fn }
}

// New returns a registry that sweeps idle sessions every interval.
// A non-positive ttl keeps sessions until deleted.
func New(ttl, interval time.Duration, opts ...Option) storage.Registry {
	m := newCache(ttl, opts...)
	if ttl > 0 {
		if interval <= 0 {
			interval = defaultSweepInterval
		}
		m.init(interval)
	}

	return m
}

func newCache(ttl time.Duration, opts ...Option) *MCache {
	m := &MCache{
		store: make(map[string]*entry),
		ttl:   ttl,
		doneC: make(chan struct{}),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Put implements storage.Registry.
func (m *MCache) Put(w *widget.Controller) string {
	id := uuid.NewString()

	m.lock.Lock()
	m.store[id] = &entry{widget: w, lastUsed: m.now()}
	n := len(m.store)
	m.lock.Unlock()

	m.report(n)
	return id
}

// Get implements storage.Registry.
func (m *MCache) Get(id string) (*widget.Controller, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	e, ok := m.store[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	e.lastUsed = m.now()
	return e.widget, nil
}

// Delete implements storage.Registry.
func (m *MCache) Delete(id string) error {
	m.lock.Lock()
	e, ok := m.store[id]
	delete(m.store, id)
	n := len(m.store)
	m.lock.Unlock()

	if !ok {
		return storage.ErrNotFound
	}

	e.widget.Close()
	m.report(n)
	return nil
}

// Len implements storage.Registry.
func (m *MCache) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return len(m.store)
}

// Close implements storage.Registry.
func (m *MCache) Close() {
	m.closeOnce.Do(func() {
		close(m.doneC)
		if m.ticker != nil {
			m.ticker.Stop()
		}

		m.lock.Lock()
		store := m.store
		m.store = make(map[string]*entry)
		m.lock.Unlock()

		for _, e := range store {
			e.widget.Close()
		}
		m.report(0)
	})
}

func (m *MCache) init(interval time.Duration) {
	m.ticker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-m.doneC:
				return

			case <-m.ticker.C:
				if n := m.sweep(); n > 0 {
					log.Debug().Int("unmounted", n).Msg("swept idle widget sessions")
				}
			}
		}
	}()
}

// sweep unmounts sessions idle longer than ttl
func (m *MCache) sweep() int {
	cutoff := m.now().Add(-m.ttl)

	var expired []*widget.Controller

	m.lock.Lock()
	for id, e := range m.store {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e.widget)
			delete(m.store, id)
		}
	}
	n := len(m.store)
	m.lock.Unlock()

	for _, w := range expired {
		w.Close()
	}
	if len(expired) > 0 {
		m.report(n)
	}

	return len(expired)
}

func (m *MCache) report(n int) {
	if m.onChange != nil {
		m.onChange(n)
	}
}
