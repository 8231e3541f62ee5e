package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ogero/stremio-lastvideos/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type value struct {
	Name string
	Year int
}

func openCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoize(t *testing.T) {
	c := openCache(t)

	calls := 0
	fn := func() (*value, error) {
		calls++
		return &value{Name: "For All Mankind", Year: 2019}, nil
	}

	v, hit, err := cache.Memoize(c, "imdb.title : tt7772588", time.Hour, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "For All Mankind", v.Name)

	v, hit, err = cache.Memoize(c, "imdb.title : tt7772588", time.Hour, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2019, v.Year)
	assert.Equal(t, 1, calls)
}

func TestMemoize_ErrorIsNotCached(t *testing.T) {
	c := openCache(t)

	calls := 0
	fn := func() (*value, error) {
		calls++
		return nil, errors.New("backend down")
	}

	_, _, err := cache.Memoize(c, "k", time.Hour, fn)
	assert.Error(t, err)
	_, _, err = cache.Memoize(c, "k", time.Hour, fn)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
