package cache

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

var _ inventory.KardexCache = (*RedisKardexCache)(nil)

//go:embed set_if_generation.lua
var setIfGenerationLua string

var setIfGeneration = redis.NewScript(setIfGenerationLua)

// RedisKardexCache guarda el reporte de kardex por producto como JSON con vigencia ttl.
// El motor invalida las claves después de cada commit que toca al producto.
//
// Claves por producto (mismo hash slot):
//   - kardex:{id}      reporte
//   - kardex:{id}:gen  generación, la incrementa Invalidate y no vence
type RedisKardexCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKardexCache construye el cache. ttl cero deja los reportes sin vencimiento.
func NewRedisKardexCache(addr, password string, db int, ttl time.Duration) *RedisKardexCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisKardexCache{client: client, ttl: ttl}
}

func kardexKey(productID int64) string {
	return fmt.Sprintf("kardex:{%d}", productID)
}

func generationKey(productID int64) string {
	return fmt.Sprintf("kardex:{%d}:gen", productID)
}

// Ping verifica la conexión con Redis.
func (c *RedisKardexCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisKardexCache) Close() error {
	return c.client.Close()
}

// Get devuelve el reporte guardado; ok es false si no hay.
func (c *RedisKardexCache) Get(ctx context.Context, productID int64) (*inventory.KardexReport, bool, error) {
	val, err := c.client.Get(ctx, kardexKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var report inventory.KardexReport
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

// Generation devuelve la generación actual del producto (cero si nunca se invalidó).
func (c *RedisKardexCache) Generation(ctx context.Context, productID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(productID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set guarda el reporte solo si la generación no cambió desde que se leyó.
func (c *RedisKardexCache) Set(ctx context.Context, productID, generation int64, report *inventory.KardexReport) error {
	if report == nil {
		return nil
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	keys := []string{kardexKey(productID), generationKey(productID)}
	return setIfGeneration.Run(ctx, c.client, keys, generation, payload, c.ttl.Milliseconds()).Err()
}

// Invalidate incrementa la generación y borra el reporte de cada producto en una sola transacción.
func (c *RedisKardexCache) Invalidate(ctx context.Context, productIDs ...int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, generationKey(id))
			pipe.Del(ctx, kardexKey(id))
		}
		return nil
	})
	return err
}
