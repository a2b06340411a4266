package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/cache"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

var key = inventory.StockKey{ProductID: "p-1", BranchID: "br-1"}

func TestStockCache_GuardaEInvalida(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())

	var loads int32
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		return 42, nil
	}

	n, err := c.Fetch(ctx, key, load)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	n, err = c.Fetch(ctx, key, load)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))

	got, err := mr.Get("stock:p-1:br-1")
	require.NoError(t, err)
	assert.Equal(t, "42", got)
	assert.Equal(t, time.Minute, mr.TTL("stock:p-1:br-1"))

	require.NoError(t, c.Invalidate(ctx, key))
	assert.False(t, mr.Exists("stock:p-1:br-1"))
	_, err = c.Fetch(ctx, key, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&loads))
}

func TestStockCache_LecturasConcurrentesCompartenCarga(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())

	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Fetch(ctx, key, load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestStockCache_ErrorDeCargaNoSeGuarda(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())

	_, err := c.Fetch(ctx, key, func(context.Context) (int, error) { return 0, errors.New("db caída") })
	assert.Error(t, err)
	assert.False(t, mr.Exists("stock:p-1:br-1"))
}

func TestStockCache_RedisCaidoLeeDelLibro(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())
	mr.Close()

	n, err := c.Fetch(ctx, key, func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStockCache_InvalidarDuranteLaCargaDescartaElValor(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())

	// un commit invalida la clave mientras la lectura del libro sigue en curso
	n, err := c.Fetch(ctx, key, func(lctx context.Context) (int, error) {
		assert.NoError(t, c.Invalidate(lctx, key))
		return 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.False(t, mr.Exists("stock:p-1:br-1"), "el valor previo al commit no se guarda")

	n, err = c.Fetch(ctx, key, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	got, err := mr.Get("stock:p-1:br-1")
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}

func TestStockCache_CancelarPrimerLectorNoCortaLaCarga(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := cache.NewStockCache(client, time.Minute, logger.Nop())

	var loads int32
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(lctx context.Context) (int, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			close(started)
		}
		<-release
		if err := lctx.Err(); err != nil {
			return 0, err
		}
		return 5, nil
	}

	first, cancel := context.WithCancel(ctx)
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(first, key, load)
		firstErr <- err
	}()
	<-started

	type result struct {
		n   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		n, err := c.Fetch(ctx, key, load)
		second <- result{n, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 5, res.n)
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))
	got, err := mr.Get("stock:p-1:br-1")
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func TestTokenDenylist_RevocaHastaExpirar(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	d := cache.NewTokenDenylist(client)

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-viejo", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("auth:revoked:jti-viejo"))
}
