package coordinator

import (
	"context"
	"sync"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/store"
	"github.com/rs/zerolog"
)

// Coordinator watches the store and fetches whenever the query key changes.
type Coordinator struct {
	store *store.Store
	log   zerolog.Logger

	mu          sync.Mutex
	ctx         context.Context
	lastKey     domain.ListParams
	hasKey      bool
	lastVersion uint64
	inflight    sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// New creates a Coordinator for s. Nothing happens until Start.
func New(s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store: s,
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start subscribes to the store and triggers the first fetch. Fetches run
// with ctx. The returned func unsubscribes; fetches already launched keep
// running, see Wait.
func (c *Coordinator) Start(ctx context.Context) (stop func()) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	unsubscribe := c.store.Subscribe(c.observe)
	c.observe(c.store.State())
	return unsubscribe
}

// Wait blocks until every fetch launched so far has resolved.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// Refresh re-fetches the current key even if it did not change, e.g. after
// a delete so that counts are corrected. It blocks until the fetch resolves.
func (c *Coordinator) Refresh(ctx context.Context) {
	st := c.store.State()
	key := st.Query()

	c.mu.Lock()
	c.lastKey, c.hasKey = key, true
	c.lastVersion = max(c.lastVersion, st.Version)
	c.mu.Unlock()

	c.log.Debug().Interface("key", key).Msg("Refreshing employees")
	c.store.FetchEmployees(ctx, key)
}

func (c *Coordinator) observe(st store.State) {
	c.mu.Lock()
	// snapshots can arrive out of order from concurrent dispatchers
	if st.Version < c.lastVersion {
		c.mu.Unlock()
		return
	}
	c.lastVersion = st.Version

	key := st.Query()
	if c.hasKey && key == c.lastKey {
		c.mu.Unlock()
		return
	}
	c.lastKey, c.hasKey = key, true
	ctx := c.ctx
	c.mu.Unlock()

	// issued here, before any later intent can commit; only the request
	// itself runs in the background
	seq, ok := c.store.BeginFetch(key)
	if !ok {
		c.log.Debug().Interface("key", key).Msg("Query moved on before fetch was issued")
		return
	}
	c.log.Debug().Interface("key", key).Uint64("seq", seq).Msg("Query key changed, fetching employees")

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.store.CompleteFetch(ctx, seq, key)
	}()
}
