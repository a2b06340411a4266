package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

var _ inventory.StockCache = (*StockCache)(nil)

// StockCache caché de stock derivado por (producto, sucursal). Las lecturas concurrentes de la
// misma clave sin valor en caché comparten una sola consulta al libro.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
}

// NewStockCache construye la caché. ttl <= 0 usa 5 minutos.
func NewStockCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StockCache{client: client, ttl: ttl, log: log.Component("stock_cache")}
}

// Key clave Redis del par producto/sucursal.
func Key(k inventory.StockKey) string {
	return "stock:" + k.ProductID + ":" + k.BranchID
}

// genKey contador de invalidaciones de la clave. Un valor calculado solo se guarda si el
// contador no cambió mientras se leía el libro.
func genKey(k string) string {
	return k + ":gen"
}

// Fetch devuelve el valor en caché o lo calcula con load y lo guarda.
// Si Redis falla se responde desde load: la caché nunca bloquea una lectura.
func (c *StockCache) Fetch(ctx context.Context, key inventory.StockKey, load func(ctx context.Context) (int, error)) (int, error) {
	k := Key(key)
	vals, err := c.client.MGet(ctx, k, genKey(k)).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("lectura de caché fallida")
		return load(ctx)
	}
	if raw, ok := vals[0].(string); ok {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			return n, nil
		}
	}
	gen, _ := vals[1].(string)

	// la carga compartida no depende de la cancelación de quien llegó primero
	lctx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (interface{}, error) {
		n, err := load(lctx)
		if err != nil {
			return 0, err
		}
		c.store(lctx, k, gen, n)
		return n, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	}
}

// store guarda n con WATCH sobre el contador: si hubo una invalidación desde la lectura
// el valor ya está viejo y se descarta.
func (c *StockCache) store(ctx context.Context, k, gen string, n int) {
	gk := genKey(k)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, n, c.ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Str("key", k).Msg("valor descartado: invalidado durante la carga")
	default:
		c.log.Warn().Err(err).Str("key", k).Msg("escritura de caché fallida")
	}
}

var errStale = errors.New("cache: valor invalidado durante la carga")

// Invalidate borra las claves y avanza su contador. Se llama después de cada commit que
// escribe en el libro.
func (c *StockCache) Invalidate(ctx context.Context, keys ...inventory.StockKey) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = Key(k)
		c.group.Forget(names[i])
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range names {
			pipe.Incr(ctx, genKey(k))
		}
		pipe.Del(ctx, names...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: invalidar stock: %w", err)
	}
	return nil
}
