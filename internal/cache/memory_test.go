package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemoryCache()

		_, err := c.Get(ctx, "https://api.gpa.digital/pa/v2/delivery/ecom/driveThru")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("returns stored value", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", []byte(`{"code":200}`)))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `{"code":200}`, string(got))
	})

	t.Run("stored value is isolated from caller buffers", func(t *testing.T) {
		c := NewMemoryCache()
		buf := []byte("abc")
		require.NoError(t, c.Set(ctx, "k", buf))
		buf[0] = 'x'

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		got[1] = 'y'

		again, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("clear drops everything", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "a", []byte("1")))
		require.NoError(t, c.Set(ctx, "b", []byte("2")))
		require.NoError(t, c.Clear(ctx))

		assert.Equal(t, 0, c.Len())
		_, err := c.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		c := NewMemoryCache()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = c.Set(ctx, string(rune('a'+i%26)), []byte{byte(i)})
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 26, c.Len())
	})
}
