package treequery

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/valyala/fastjson"
)

// defaultCacheSize bounds the Querier cache when no option overrides it.
const defaultCacheSize = 128

// Option configures a [Querier].
type Option func(*Querier)

// WithCacheSize bounds the number of compiled paths a Querier retains.
// A size of 0 disables caching entirely.
func WithCacheSize(n int) Option {
	return func(q *Querier) {
		q.maxEntries = n
	}
}

// Querier compiles and evaluates path expressions, memoizing the compiled
// form per distinct expression string in a bounded cache with oldest-first
// eviction. Parsing a hot expression once and evaluating it many times is
// the common case for callers that read expressions from configuration.
// A Querier is safe for concurrent use.
type Querier struct {
	mu         sync.Mutex
	cache      *linkedhashmap.Map // expression string -> *Path, insertion ordered
	maxEntries int
}

// NewQuerier creates a Querier configured by opts.
func NewQuerier(opts ...Option) *Querier {
	q := &Querier{maxEntries: defaultCacheSize}
	for _, opt := range opts {
		opt(q)
	}
	if q.maxEntries > 0 {
		q.cache = linkedhashmap.New()
	}
	return q
}

// Query is [Query] through the Querier's expression cache.
func (q *Querier) Query(root *fastjson.Value, expr string) (Matches, error) {
	path, err := q.path(expr)
	if err != nil {
		return nil, err
	}
	return path.Select(root), nil
}

// QueryFirst is [QueryFirst] through the Querier's expression cache.
func (q *Querier) QueryFirst(root *fastjson.Value, expr string) (*fastjson.Value, error) {
	path, err := q.path(expr)
	if err != nil {
		return nil, err
	}
	return path.SelectFirst(root), nil
}

// CacheLen returns the number of compiled paths currently cached.
func (q *Querier) CacheLen() int {
	if q.cache == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cache.Size()
}

// path returns the compiled form of expr, from cache when possible. Only
// valid expressions are cached; failures are not remembered.
func (q *Querier) path(expr string) (*Path, error) {
	if q.cache == nil {
		return Parse(expr)
	}

	q.mu.Lock()
	if cached, ok := q.cache.Get(expr); ok {
		q.mu.Unlock()
		return cached.(*Path), nil
	}
	q.mu.Unlock()

	// Parse outside the lock; two goroutines may race to compile the same
	// expression, in which case the loser's result is simply discarded.
	path, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if cached, ok := q.cache.Get(expr); ok {
		return cached.(*Path), nil
	}
	if q.cache.Size() >= q.maxEntries {
		it := q.cache.Iterator()
		if it.First() {
			q.cache.Remove(it.Key())
		}
	}
	q.cache.Put(expr, path)
	return path, nil
}
