// Package redis implementa el proveedor de identidad sobre Redis: sesiones con TTL y
// eventos de cambio por pub/sub.
package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-tracker/pkg/config"
)

// New construye el cliente a partir de la configuración.
func New(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping verifica la conexión.
func Ping(ctx context.Context, client *goredis.Client) error {
	return client.Ping(ctx).Err()
}
