package treequery

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestQuerierMatchesPlainQuery(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{"items": [{"v": 1}, {"v": 2}, {"v": 3}]}`)
	q := NewQuerier()

	cached, err := q.Query(doc, "$.items[*].v")
	require.NoError(t, err)
	plain, err := Query(doc, "$.items[*].v")
	require.NoError(t, err)

	assert.Equal(t, texts(plain), texts(cached))

	// Second evaluation hits the cache and still agrees.
	again, err := q.Query(doc, "$.items[*].v")
	require.NoError(t, err)
	assert.Equal(t, texts(plain), texts(again))
}

func TestQuerierQueryFirst(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{"a": [7, 8]}`)
	q := NewQuerier()

	node, err := q.QueryFirst(doc, "$.a[*]")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "7", node.String())

	node, err = q.QueryFirst(doc, "$.missing")
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestQuerierCacheGrowth(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{}`)
	q := NewQuerier()
	assert.Equal(t, 0, q.CacheLen())

	_, err := q.Query(doc, "$.a")
	require.NoError(t, err)
	assert.Equal(t, 1, q.CacheLen())

	// A repeat expression is a hit, not a new entry.
	_, err = q.Query(doc, "$.a")
	require.NoError(t, err)
	assert.Equal(t, 1, q.CacheLen())

	_, err = q.Query(doc, "$.b")
	require.NoError(t, err)
	assert.Equal(t, 2, q.CacheLen())
}

func TestQuerierEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{}`)
	q := NewQuerier(WithCacheSize(2))

	for _, expr := range []string{"$.a", "$.b", "$.c"} {
		_, err := q.Query(doc, expr)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, q.CacheLen())

	// The evicted expression still works; it just recompiles.
	matches, err := q.Query(doc, "$.a")
	require.NoError(t, err)
	assert.Empty(t, matches.Collect())
	assert.Equal(t, 2, q.CacheLen())
}

func TestQuerierCacheDisabled(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{"a": 1}`)
	q := NewQuerier(WithCacheSize(0))

	matches, err := q.Query(doc, "$.a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, texts(matches))
	assert.Equal(t, 0, q.CacheLen())
}

func TestQuerierDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	q := NewQuerier()
	_, err := q.Query(nil, "not a path")
	require.ErrorIs(t, err, ErrPathSyntax)
	assert.Equal(t, 0, q.CacheLen())
}

func TestQuerierConcurrent(t *testing.T) {
	t.Parallel()

	doc := fastjson.MustParse(`{"items": [{"v": 1}, {"v": 2}]}`)
	q := NewQuerier(WithCacheSize(4))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			expr := fmt.Sprintf("$.items[%d].v", i%2)
			for range 50 {
				node, err := q.QueryFirst(doc, expr)
				assert.NoError(t, err)
				assert.NotNil(t, node)
			}
		}()
	}
	wg.Wait()
}
